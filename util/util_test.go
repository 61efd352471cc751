package util

import (
	"math"
	"testing"

	"github.com/anisan-cli/playcore/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "cue", "cues"), ShouldEqual, "1 cue")
		So(Quantify(2, "cue", "cues"), ShouldEqual, "2 cues")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(1.5, 0.0, 1.0), ShouldEqual, 1.0)
		So(Clamp(-0.2, 0.0, 1.0), ShouldEqual, 0.0)
		So(Clamp(0.4, 0.0, 1.0), ShouldEqual, 0.4)
		So(Clamp(7, 1, 5), ShouldEqual, 5)
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestIsFinitePositive(t *testing.T) {
	Convey("IsFinitePositive", t, func() {
		So(IsFinitePositive(12), ShouldBeTrue)
		So(IsFinitePositive(0), ShouldBeFalse)
		So(IsFinitePositive(-3), ShouldBeFalse)
		So(IsFinitePositive(math.Inf(1)), ShouldBeFalse)
		So(IsFinitePositive(math.NaN()), ShouldBeFalse)
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(0), ShouldEqual, "0:00")
		So(FormatSeconds(85), ShouldEqual, "1:25")
		So(FormatSeconds(3725.9), ShouldEqual, "1:02:05")
		So(FormatSeconds(math.NaN()), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/playcore/a", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/playcore/a/x", []byte("x"), 0o644), ShouldBeNil)

		So(Delete("/tmp/playcore/a"), ShouldBeNil)
		exists, _ := fs.Exists("/tmp/playcore/a")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/playcore/missing"), ShouldNotBeNil)
	})
}

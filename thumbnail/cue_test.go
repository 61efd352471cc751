package thumbnail

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNearest(t *testing.T) {
	Convey("Given cues with a gap between them", t, func() {
		cues := []Cue{
			{Start: 0, End: 5, X: 0},
			{Start: 5, End: 10, X: 160},
			{Start: 12, End: 15, X: 320},
		}

		Convey("Positions inside a cue return it", func() {
			c, ok := Nearest(cues, 0).Get()
			So(ok, ShouldBeTrue)
			So(c.X, ShouldEqual, 0)

			c, ok = Nearest(cues, 5).Get()
			So(ok, ShouldBeTrue)
			So(c.X, ShouldEqual, 160)

			c, ok = Nearest(cues, 14.9).Get()
			So(ok, ShouldBeTrue)
			So(c.X, ShouldEqual, 320)
		})

		Convey("Positions outside the covered range return none", func() {
			So(Nearest(cues, -1).IsPresent(), ShouldBeFalse)
			So(Nearest(cues, 15).IsPresent(), ShouldBeFalse)
			So(Nearest(cues, 100).IsPresent(), ShouldBeFalse)
		})

		Convey("Positions in a gap return none", func() {
			So(Nearest(cues, 11).IsPresent(), ShouldBeFalse)
		})

		Convey("An empty list never matches", func() {
			So(Nearest(nil, 1).IsPresent(), ShouldBeFalse)
		})
	})
}

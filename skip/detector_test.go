package skip

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDetector(t *testing.T) {
	Convey("Given intro [0,85) and outro [1400,1450) on a 1450s episode", t, func() {
		intro := Window{Start: 0, End: 85}
		outro := Window{Start: 1400, End: 1450}
		d := NewDetector(mo.Some(intro), mo.Some(outro))

		Convey("At t=0 the intro skip shows", func() {
			So(d.ShouldShowIntroSkip(0), ShouldBeTrue)
			So(d.ShouldShowOutroSkip(0), ShouldBeFalse)
		})

		Convey("At t=85 the intro skip hides", func() {
			So(d.ShouldShowIntroSkip(85), ShouldBeFalse)
		})

		Convey("At t=1400 the outro skip shows", func() {
			So(d.Evaluate(1400), ShouldResemble, Flags{Outro: true})
		})

		Convey("Skipping the outro seeks to 1450 and clears the flag at once", func() {
			target, flags := SkipTo(outro, Outro, d.Evaluate(1400))
			So(target, ShouldEqual, 1450)
			So(flags.Outro, ShouldBeFalse)
		})
	})

	Convey("Given invalid windows", t, func() {
		Convey("A reversed intro is dropped and never activates", func() {
			d := NewDetector(mo.Some(Window{Start: 50, End: 10}), mo.None[Window]())
			So(d.Intro().IsPresent(), ShouldBeFalse)
			So(d.ShouldShowIntroSkip(20), ShouldBeFalse)
		})

		Convey("An outro overlapping the intro is dropped", func() {
			d := NewDetector(mo.Some(Window{0, 90}), mo.Some(Window{60, 120}))
			So(d.Intro().IsPresent(), ShouldBeTrue)
			So(d.Outro().IsPresent(), ShouldBeFalse)
		})
	})

	Convey("Given no windows", t, func() {
		d := NewDetector(mo.None[Window](), mo.None[Window]())
		So(d.Evaluate(10), ShouldResemble, Flags{})
	})
}

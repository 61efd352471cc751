package skip

import (
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsInWindow(t *testing.T) {
	Convey("Given the half-open window [10, 20)", t, func() {
		w := Window{Start: 10, End: 20}

		Convey("The start is inside", func() {
			So(IsInWindow(10, w), ShouldBeTrue)
		})

		Convey("The end is outside", func() {
			So(IsInWindow(20, w), ShouldBeFalse)
		})

		Convey("Membership matches start <= t < end everywhere", func() {
			for _, tc := range []float64{-1, 0, 9.999, 10, 10.5, 15, 19.999, 20, 20.001, 100} {
				So(IsInWindow(tc, w), ShouldEqual, tc >= w.Start && tc < w.End)
			}
		})

		Convey("An empty window contains nothing", func() {
			So(IsInWindow(5, Window{Start: 5, End: 5}), ShouldBeFalse)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("Rejects start after end", func() {
			err := Window{Start: 30, End: 10}.Validate()
			So(errors.Is(err, ErrInvalidWindow), ShouldBeTrue)
		})

		Convey("Rejects overlapping intro and outro", func() {
			err := Validate(mo.Some(Window{0, 90}), mo.Some(Window{80, 120}))
			So(errors.Is(err, ErrOverlappingWindows), ShouldBeTrue)
		})

		Convey("Accepts adjacent windows", func() {
			So(Validate(mo.Some(Window{0, 85}), mo.Some(Window{85, 120})), ShouldBeNil)
		})

		Convey("Accepts absent windows", func() {
			So(Validate(mo.None[Window](), mo.None[Window]()), ShouldBeNil)
		})
	})
}

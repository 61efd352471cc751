package config

import (
	"errors"
	"testing"

	"github.com/anisan-cli/playcore/key"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Field.Parse", t, func() {
		Convey("Converts to the type of the default", func() {
			f := Default[key.SkipAuto]
			v, err := f.Parse([]string{"true"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, true)

			f = Default[key.GestureDoubleTapWindow]
			v, err = f.Parse([]string{"250"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 250)

			f = Default[key.PlayerRate]
			v, err = f.Parse([]string{"1.25"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1.25)
		})

		Convey("Rejects values of the wrong type", func() {
			f := Default[key.ScreenWakeLock]
			_, err := f.Parse([]string{"sometimes"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)

			f = Default[key.GestureTapSlop]
			_, err = f.Parse([]string{"ten"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
		})

		Convey("Keeps thresholds within range", func() {
			f := Default[key.PlayerVolume]
			_, err := f.Parse([]string{"150"})
			So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)

			f = Default[key.PlayerRate]
			_, err = f.Parse([]string{"0.1"})
			So(errors.Is(err, ErrOutOfRange), ShouldBeTrue)

			f = Default[key.PlayerVolume]
			v, err := f.Parse([]string{"100"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 100)
		})

		Convey("Accepts only the listed choices", func() {
			f := Default[key.LogsLevel]
			_, err := f.Parse([]string{"loud"})
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)

			v, err := f.Parse([]string{"debug"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "debug")
		})

		Convey("Free-form strings pass through", func() {
			f := Default[key.MetricsAddr]
			v, err := f.Parse([]string{":9090"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, ":9090")
		})

		Convey("Requires a value", func() {
			f := Default[key.SkipAuto]
			_, err := f.Parse(nil)
			So(errors.Is(err, ErrInvalidValue), ShouldBeTrue)
		})
	})
}

func TestSections(t *testing.T) {
	Convey("Sections", t, func() {
		names, groups := Sections()

		Convey("Groups every key under its first segment", func() {
			So(names, ShouldContain, "gesture")
			So(names, ShouldContain, "skip")

			total := 0
			for _, n := range names {
				total += len(groups[n])
				for _, f := range groups[n] {
					So(f.Section(), ShouldEqual, n)
				}
			}
			So(total, ShouldEqual, len(Default))
		})

		Convey("Sorts sections and their keys", func() {
			for i := 1; i < len(names); i++ {
				So(names[i-1], ShouldBeLessThan, names[i])
			}
			gestures := groups["gesture"]
			for i := 1; i < len(gestures); i++ {
				So(gestures[i-1].Key, ShouldBeLessThan, gestures[i].Key)
			}
		})
	})
}

package tui

import (
	"testing"
	"time"

	"github.com/anisan-cli/playcore/gesture"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLayout(t *testing.T) {
	Convey("Given an 80x24 terminal with a one-line help", t, func() {
		l := layout{width: 80, height: 24, helpLines: 1, barWidth: 58}

		Convey("The timeline sits above the status and help lines", func() {
			So(l.timelineRow(), ShouldEqual, 20)
			So(l.barColumn(), ShouldEqual, 11)
		})

		Convey("Only bar cells count as the scrub bar", func() {
			So(l.onScrubBar(11, 20), ShouldBeTrue)
			So(l.onScrubBar(68, 20), ShouldBeTrue)
			So(l.onScrubBar(69, 20), ShouldBeFalse)
			So(l.onScrubBar(30, 19), ShouldBeFalse)
		})

		Convey("Columns map to clamped fractions of the bar", func() {
			So(l.fraction(0), ShouldEqual, 0)
			So(l.fraction(11+29), ShouldEqual, 0.5)
			So(l.fraction(200), ShouldEqual, 1)
		})

		Convey("A drag starting on the bar is a scrub", func() {
			now := time.Now()
			tr := l.trace(press{x: 20, y: 20, at: now}, 40, 20, now.Add(time.Second), true)
			ev, ok := gesture.NewInterpreter(gesture.DefaultThresholds()).Interpret(tr).Get()
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, gesture.DragSeek)
			So(ev.Magnitude, ShouldAlmostEqual, (40*8+4-11*8)/float64(58*8))
		})

		Convey("Without the overlay the bar is not reported", func() {
			now := time.Now()
			tr := l.trace(press{x: 20, y: 20, at: now}, 20, 20, now, false)
			So(tr.ScrubBar.IsPresent(), ShouldBeFalse)
		})

		Convey("A tap in the middle of the screen is a center tap", func() {
			now := time.Now()
			tr := l.trace(press{x: 40, y: 12, at: now}, 40, 12, now.Add(50*time.Millisecond), true)
			ev, ok := gesture.NewInterpreter(gesture.DefaultThresholds()).Interpret(tr).Get()
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, gesture.CenterTap)
		})
	})
}

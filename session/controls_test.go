package session

import (
	"errors"
	"testing"
	"time"

	"github.com/anisan-cli/playcore/gesture"
	"github.com/anisan-cli/playcore/intent"
	"github.com/anisan-cli/playcore/track"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func playing(configure func(*Options)) *rig {
	r := newRig(configure)
	_, _ = r.ctrl.Start(fileRequest())
	r.media.LoadMetadata(1440)
	r.media.Tick(50)
	return r
}

var surface = gesture.Rect{Width: 900, Height: 500}

func tapAt(x, y float64, at time.Time) gesture.Trace {
	p := gesture.Point{X: x, Y: y}
	return gesture.Trace{From: p, To: p, Down: at.Add(-50 * time.Millisecond), Up: at, Surface: surface}
}

func lastSeek(r *rig) float64 {
	seeks := r.media.Seeks()
	if len(seeks) == 0 {
		return -1
	}
	return seeks[len(seeks)-1]
}

func TestControlsWithoutSession(t *testing.T) {
	Convey("Without a session", t, func() {
		Convey("operations are no-ops", func() {
			r := newRig(nil)
			So(r.ctrl.Seek(10), ShouldBeNil)
			So(r.ctrl.SetVolume(0.5), ShouldBeNil)
			So(r.ctrl.Dispatch(intent.Of(intent.TogglePlay)), ShouldBeNil)
			So(r.ctrl.HandleGesture(tapAt(450, 250, r.clock.Now())).IsPresent(), ShouldBeFalse)
			So(r.ctrl.SkipIntro(), ShouldBeFalse)
		})

		Convey("strict controllers report it", func() {
			r := newRig(func(o *Options) { o.Config.Strict = true })
			So(errors.Is(r.ctrl.Seek(10), ErrNoSession), ShouldBeTrue)
			So(errors.Is(r.ctrl.SetPlaybackRate(1.5), ErrNoSession), ShouldBeTrue)
		})
	})
}

func TestSeekVolumeRate(t *testing.T) {
	Convey("Given a playing session", t, func() {
		r := playing(nil)

		Convey("Seek clamps to the duration", func() {
			So(r.ctrl.Seek(-5), ShouldBeNil)
			So(lastSeek(r), ShouldEqual, 0)
			So(r.ctrl.Seek(5000), ShouldBeNil)
			So(lastSeek(r), ShouldEqual, 1440)
			So(r.ctrl.State().CurrentTime, ShouldEqual, 1440)
		})

		Convey("Volume is applied and clamped", func() {
			So(r.ctrl.SetVolume(0.4), ShouldBeNil)
			So(r.media.Volume(), ShouldEqual, 0.4)
			So(r.ctrl.SetVolume(1.5), ShouldBeNil)
			So(r.media.Volume(), ShouldEqual, 1)
			So(r.ctrl.State().Volume, ShouldEqual, 1)
		})

		Convey("Rate is clamped and non-positive rates are ignored", func() {
			So(r.ctrl.SetPlaybackRate(8), ShouldBeNil)
			So(r.media.Rate(), ShouldEqual, 4)
			So(r.ctrl.SetPlaybackRate(0), ShouldBeNil)
			So(r.media.Rate(), ShouldEqual, 4)
		})
	})

	Convey("Given a strict playing session", t, func() {
		r := playing(func(o *Options) { o.Config.Strict = true })

		So(errors.Is(r.ctrl.SetVolume(2), ErrOutOfRange), ShouldBeTrue)
		So(errors.Is(r.ctrl.SetPlaybackRate(-1), ErrOutOfRange), ShouldBeTrue)
		So(errors.Is(r.ctrl.SelectSubtitleTrack(mo.Some(3)), ErrOutOfRange), ShouldBeTrue)
		So(r.media.Volume(), ShouldEqual, 1)
	})
}

func TestGestures(t *testing.T) {
	Convey("Given a playing session at 50s", t, func() {
		r := playing(nil)
		now := r.clock.Now()

		Convey("Two quick taps on the left third seek back ten seconds", func() {
			So(r.ctrl.HandleGesture(tapAt(100, 250, now)).IsPresent(), ShouldBeFalse)

			ev, ok := r.ctrl.HandleGesture(tapAt(110, 255, now.Add(200*time.Millisecond))).Get()
			So(ok, ShouldBeTrue)
			So(ev.Kind, ShouldEqual, gesture.DoubleTapSeek)
			So(ev.Side, ShouldEqual, gesture.Left)
			So(ev.Magnitude, ShouldEqual, 10)
			So(lastSeek(r), ShouldEqual, 40)

			fb, ok := r.ctrl.State().Feedback.Get()
			So(ok, ShouldBeTrue)
			So(fb.Key, ShouldEqual, "left")

			Convey("and the feedback fades", func() {
				r.clock.Advance(fb.Duration)
				So(r.ctrl.State().Feedback.IsPresent(), ShouldBeFalse)
			})
		})

		Convey("A single tap on the side does nothing", func() {
			seeks := len(r.media.Seeks())
			So(r.ctrl.HandleGesture(tapAt(100, 250, now)).IsPresent(), ShouldBeFalse)
			So(r.media.Seeks(), ShouldHaveLength, seeks)
		})

		Convey("A center tap toggles playback", func() {
			So(r.ctrl.State().Phase, ShouldEqual, PhasePlaying)
			r.ctrl.HandleGesture(tapAt(450, 250, now))
			So(r.ctrl.State().Phase, ShouldEqual, PhasePaused)
		})

		Convey("A drag on the right half changes volume", func() {
			_ = r.ctrl.SetVolume(0.5)
			r.ctrl.HandleGesture(gesture.Trace{
				From:    gesture.Point{X: 800, Y: 400},
				To:      gesture.Point{X: 800, Y: 300},
				Down:    now,
				Up:      now.Add(300 * time.Millisecond),
				Surface: surface,
			})
			So(r.media.Volume(), ShouldAlmostEqual, 0.7)
		})
	})
}

func TestOverlay(t *testing.T) {
	Convey("Given a playing session", t, func() {
		r := playing(nil)
		So(r.ctrl.State().ChromeVisible, ShouldBeTrue)

		Convey("The overlay hides after the idle delay", func() {
			r.clock.Advance(3 * time.Second)
			So(r.ctrl.State().ChromeVisible, ShouldBeFalse)

			r.ctrl.Interact()
			So(r.ctrl.State().ChromeVisible, ShouldBeTrue)
		})

		Convey("Scrubbing keeps it visible", func() {
			r.ctrl.BeginScrub()
			r.clock.Advance(10 * time.Second)
			So(r.ctrl.State().ChromeVisible, ShouldBeTrue)

			r.ctrl.EndScrub()
			r.clock.Advance(3 * time.Second)
			So(r.ctrl.State().ChromeVisible, ShouldBeFalse)
		})

		Convey("Pausing pins it", func() {
			So(r.ctrl.Dispatch(intent.Of(intent.Pause)), ShouldBeNil)
			r.clock.Advance(10 * time.Second)
			So(r.ctrl.State().ChromeVisible, ShouldBeTrue)
		})
	})
}

func TestDispatch(t *testing.T) {
	Convey("Given a playing session with two English-first tracks", t, func() {
		r := newRig(nil)
		req := fileRequest()
		req.Tracks = []track.Descriptor{
			{File: "https://cdn.example.com/en.vtt", Label: "English", Kind: track.Subtitles, Language: "en"},
			{File: "https://cdn.example.com/es.vtt", Label: "Español", Kind: track.Subtitles, Language: "es"},
		}
		_, _ = r.ctrl.Start(req)
		r.media.LoadMetadata(1440)
		r.media.Tick(100)
		So(r.ctrl.State().ActiveTrack, ShouldResemble, mo.Some(0))

		Convey("CycleSubtitles walks the tracks and passes through off", func() {
			So(r.ctrl.Dispatch(intent.Of(intent.CycleSubtitles)), ShouldBeNil)
			So(r.ctrl.State().ActiveTrack, ShouldResemble, mo.Some(1))
			So(r.ctrl.Dispatch(intent.Of(intent.CycleSubtitles)), ShouldBeNil)
			So(r.ctrl.State().ActiveTrack.IsPresent(), ShouldBeFalse)
			So(r.ctrl.Dispatch(intent.Of(intent.CycleSubtitles)), ShouldBeNil)
			So(r.ctrl.State().ActiveTrack, ShouldResemble, mo.Some(0))
		})

		Convey("SubtitlesOff disables every track", func() {
			So(r.ctrl.Dispatch(intent.Of(intent.SubtitlesOff)), ShouldBeNil)
			So(r.ctrl.State().ActiveTrack.IsPresent(), ShouldBeFalse)
		})

		Convey("Relative and fractional seeks", func() {
			So(r.ctrl.Dispatch(intent.With(intent.SeekRelative, 10)), ShouldBeNil)
			So(lastSeek(r), ShouldEqual, 110)
			So(r.ctrl.Dispatch(intent.With(intent.SeekFraction, 0.5)), ShouldBeNil)
			So(lastSeek(r), ShouldEqual, 720)
		})

		Convey("Brightness and rate deltas", func() {
			So(r.ctrl.Dispatch(intent.With(intent.BrightnessDelta, 0.2)), ShouldBeNil)
			So(r.media.Brightness(), ShouldAlmostEqual, 0.7)
			So(r.ctrl.Dispatch(intent.With(intent.RateDelta, 0.25)), ShouldBeNil)
			So(r.media.Rate(), ShouldEqual, 1.25)
		})

		Convey("Fullscreen toggles honour the cool-down", func() {
			toggled, err := r.ctrl.ToggleFullscreen()
			So(err, ShouldBeNil)
			So(toggled, ShouldBeTrue)

			toggled, err = r.ctrl.ToggleFullscreen()
			So(err, ShouldBeNil)
			So(toggled, ShouldBeFalse)
			So(r.ctrl.State().Fullscreen, ShouldBeTrue)

			r.clock.Advance(time.Second)
			toggled, _ = r.ctrl.ToggleFullscreen()
			So(toggled, ShouldBeTrue)
			So(r.ctrl.State().Fullscreen, ShouldBeFalse)
		})

		Convey("Quit closes the session", func() {
			So(r.ctrl.Dispatch(intent.Of(intent.Quit)), ShouldBeNil)
			So(r.ctrl.State().Phase, ShouldEqual, PhaseIdle)
		})
	})
}

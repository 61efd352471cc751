package session

import (
	"fmt"
	"math"

	"github.com/anisan-cli/playcore/gesture"
	"github.com/anisan-cli/playcore/intent"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/player"
	"github.com/anisan-cli/playcore/skip"
	"github.com/anisan-cli/playcore/track"
	"github.com/anisan-cli/playcore/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	minRate = 0.25
	maxRate = 4
)

// contract reports a value outside its domain. Strict controllers return
// it; others clamp or ignore.
func (c *Controller) contract(err error) error {
	if c.cfg.Strict {
		return err
	}
	log.Debugf("ignoring: %v", err)
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Seek moves to an absolute position, clamped to the known duration.
func (c *Controller) Seek(seconds float64) error {
	if !finite(seconds) {
		return c.contract(fmt.Errorf("%w: seek to %v", ErrOutOfRange, seconds))
	}
	return c.current(func(s *state, o *outbox) error {
		c.seek(s, o, seconds)
		return nil
	})
}

func (c *Controller) seek(s *state, o *outbox, seconds float64) {
	target := math.Max(seconds, 0)
	if s.duration > 0 {
		target = math.Min(target, s.duration)
	}
	o.do("seek", func() error { return c.media.Seek(target) })
	c.touch(s, o)
}

// SetVolume sets the volume in [0,1].
func (c *Controller) SetVolume(v float64) error {
	if !finite(v) || v < 0 || v > 1 {
		if err := c.contract(fmt.Errorf("%w: volume %v", ErrOutOfRange, v)); err != nil {
			return err
		}
		if !finite(v) {
			return nil
		}
	}
	return c.current(func(s *state, o *outbox) error {
		c.setVolume(s, o, v)
		return nil
	})
}

func (c *Controller) setVolume(s *state, o *outbox, v float64) {
	s.volume = util.Clamp(v, 0, 1)
	level := s.volume
	o.do("volume", func() error { return c.media.SetVolume(level) })
	o.emit(SignalStateChanged, s.time)
}

// SetPlaybackRate sets the playback rate, clamped to [0.25, 4].
func (c *Controller) SetPlaybackRate(r float64) error {
	if !finite(r) || r <= 0 {
		return c.contract(fmt.Errorf("%w: playback rate %v", ErrOutOfRange, r))
	}
	return c.current(func(s *state, o *outbox) error {
		c.setRate(s, o, r)
		return nil
	})
}

func (c *Controller) setRate(s *state, o *outbox, r float64) {
	s.rate = util.Clamp(r, minRate, maxRate)
	rate := s.rate
	o.do("playback rate", func() error { return c.media.SetPlaybackRate(rate) })
	o.emit(SignalStateChanged, s.time)
}

// SelectSubtitleTrack shows the subtitle track at index, or turns subtitles
// off for None. The choice holds for the rest of the session.
func (c *Controller) SelectSubtitleTrack(index mo.Option[int]) error {
	return c.current(func(s *state, o *outbox) error {
		runtime := c.media.TextTracks()
		if i, ok := index.Get(); ok && (i < 0 || i >= len(runtime)) {
			if err := c.contract(fmt.Errorf("%w: text track %d of %d", ErrOutOfRange, i, len(runtime))); err != nil {
				return err
			}
		}
		c.selectTrack(s, o, index, runtime)
		return nil
	})
}

func (c *Controller) selectTrack(s *state, o *outbox, index mo.Option[int], runtime []track.Runtime) {
	s.tracks = runtime
	actions := s.resolver.SelectExplicit(index, runtime)
	if len(actions) == 0 {
		s.resolver.Observe(runtime)
		o.emit(SignalStateChanged, s.time)
		return
	}
	c.applyTracks(s, o, actions)
}

// cycleTrack advances to the next selectable track, passing through "off"
// after the last one.
func (c *Controller) cycleTrack(s *state, o *outbox) {
	runtime := c.media.TextTracks()
	selectable := lo.FilterMap(runtime, func(rt track.Runtime, i int) (int, bool) {
		return i, rt.Kind.Selectable()
	})
	if len(selectable) == 0 {
		return
	}

	next := mo.Some(selectable[0])
	if active, ok := track.Active(runtime).Get(); ok {
		pos := lo.IndexOf(selectable, active)
		if pos == len(selectable)-1 {
			next = mo.None[int]()
		} else {
			next = mo.Some(selectable[pos+1])
		}
	}
	c.selectTrack(s, o, next, runtime)
}

// SkipIntro seeks past the intro when its affordance is showing.
func (c *Controller) SkipIntro() bool {
	return c.skipShown(skip.Intro)
}

// SkipOutro seeks past the outro when its affordance is showing.
func (c *Controller) SkipOutro() bool {
	return c.skipShown(skip.Outro)
}

func (c *Controller) skipShown(k skip.Kind) bool {
	var skipped bool
	_ = c.current(func(s *state, o *outbox) error {
		skipped = c.skipIfShown(s, o, k)
		return nil
	})
	return skipped
}

func (c *Controller) skipIfShown(s *state, o *outbox, k skip.Kind) bool {
	shown := lo.Ternary(k == skip.Intro, s.flags.Intro, s.flags.Outro)
	if !shown || !c.skip(s, o, k, "user") {
		return false
	}
	o.emit(SignalStateChanged, s.time)
	return true
}

// Interact reveals the overlay and restarts its auto-hide.
func (c *Controller) Interact() {
	_ = c.current(func(s *state, o *outbox) error {
		c.touch(s, o)
		return nil
	})
}

func (c *Controller) touch(s *state, o *outbox) {
	o.do("overlay", func() error { s.idle.Touch(); return nil })
}

// BeginScrub pins the overlay while the scrub bar is dragged.
func (c *Controller) BeginScrub() {
	_ = c.current(func(s *state, o *outbox) error {
		o.do("overlay", func() error { s.idle.BeginInteraction(); return nil })
		return nil
	})
}

// EndScrub releases the overlay pinned by BeginScrub.
func (c *Controller) EndScrub() {
	_ = c.current(func(s *state, o *outbox) error {
		o.do("overlay", func() error { s.idle.EndInteraction(); return nil })
		return nil
	})
}

// ToggleFullscreen switches fullscreen. It reports false without error when
// the toggle fell inside the cool-down.
func (c *Controller) ToggleFullscreen() (bool, error) {
	var toggled bool
	var toggleErr error
	err := c.current(func(s *state, o *outbox) error {
		o.do("fullscreen", func() error {
			toggled, toggleErr = s.screen.Toggle()
			return nil
		})
		c.touch(s, o)
		return nil
	})
	if err != nil {
		return false, err
	}
	return toggled, toggleErr
}

// HandleGesture interprets a completed pointer trace and applies the
// resulting intent. Every trace counts as an interaction.
func (c *Controller) HandleGesture(tr gesture.Trace) mo.Option[gesture.Event] {
	result := mo.None[gesture.Event]()
	var follow mo.Option[intent.Intent]

	_ = c.current(func(s *state, o *outbox) error {
		c.touch(s, o)

		ev, ok := s.interp.Interpret(tr).Get()
		if !ok {
			return nil
		}
		result = mo.Some(ev)
		c.metrics.Gesture(ev.Kind.String())

		if fb, ok := ev.Feedback.Get(); ok {
			c.showFeedback(s, o, fb)
		}
		follow = intent.FromGesture(ev)
		return nil
	})

	if in, ok := follow.Get(); ok {
		if err := c.Dispatch(in); err != nil {
			log.Warnf("gesture %s: %v", in.Kind, err)
		}
	}
	return result
}

func (c *Controller) showFeedback(s *state, o *outbox, fb gesture.Feedback) {
	if s.feedbackTimer != nil {
		s.feedbackTimer.Stop()
	}
	s.feedback = mo.Some(fb)
	token := s.token
	s.feedbackTimer = c.clock.AfterFunc(fb.Duration, func() {
		c.update(token, func(s *state, o *outbox) {
			s.feedback = mo.None[gesture.Feedback]()
			s.feedbackTimer = nil
			o.emit(SignalStateChanged, s.time)
		})
	})
	o.emit(SignalStateChanged, s.time)
}

// Dispatch applies an intent from any input source.
func (c *Controller) Dispatch(in intent.Intent) error {
	if in.Kind == intent.Quit {
		h, ok := c.Handle().Get()
		if !ok {
			return nil
		}
		return c.Close(h)
	}

	return c.current(func(s *state, o *outbox) error {
		switch in.Kind {
		case intent.TogglePlay:
			if s.phase == PhasePlaying {
				o.do("pause", c.media.Pause)
			} else {
				o.try("not yet playing", c.media.Play)
			}
			c.touch(s, o)
		case intent.Play:
			o.try("not yet playing", c.media.Play)
		case intent.Pause:
			o.do("pause", c.media.Pause)
		case intent.SeekRelative:
			c.seek(s, o, s.time+in.Value)
		case intent.SeekFraction:
			if s.duration > 0 {
				c.seek(s, o, util.Clamp(in.Value, 0, 1)*s.duration)
			}
		case intent.VolumeDelta:
			c.setVolume(s, o, s.volume+in.Value)
		case intent.BrightnessDelta:
			s.brightness = util.Clamp(s.brightness+in.Value, 0, 1)
			if b, ok := c.media.(player.BrightnessController); ok {
				level := s.brightness
				o.do("brightness", func() error { return b.SetBrightness(level) })
			}
			o.emit(SignalStateChanged, s.time)
		case intent.RateDelta:
			c.setRate(s, o, s.rate+in.Value)
		case intent.ToggleFullscreen:
			o.do("fullscreen", func() error {
				_, err := s.screen.Toggle()
				return err
			})
		case intent.Skip:
			if !c.skipIfShown(s, o, skip.Intro) {
				c.skipIfShown(s, o, skip.Outro)
			}
		case intent.SkipIntro:
			c.skipIfShown(s, o, skip.Intro)
		case intent.SkipOutro:
			c.skipIfShown(s, o, skip.Outro)
		case intent.CycleSubtitles:
			c.cycleTrack(s, o)
		case intent.SubtitlesOff:
			c.selectTrack(s, o, mo.None[int](), c.media.TextTracks())
		case intent.ShowChrome:
			c.touch(s, o)
		default:
			return c.contract(fmt.Errorf("unknown intent %d", in.Kind))
		}
		return nil
	})
}

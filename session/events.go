package session

import (
	"errors"
	"fmt"

	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/player"
	"github.com/anisan-cli/playcore/progress"
	"github.com/anisan-cli/playcore/skip"
	"github.com/anisan-cli/playcore/stream"
	"github.com/anisan-cli/playcore/track"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

func (c *Controller) onMedia(token uuid.UUID, ev player.Event) {
	c.update(token, func(s *state, o *outbox) {
		switch ev.Kind {
		case player.EventPlay:
			s.time, s.phase = ev.Time, PhasePlaying
			s.persister.OnStateEvent(progress.Play, s.time, s.duration)
			o.emit(SignalPlay, s.time)
			o.do("wake lock", func() error { s.screen.SetPlaying(true); return nil })
			o.do("overlay", func() error { s.idle.Touch(); return nil })

		case player.EventPause:
			s.time, s.phase = ev.Time, PhasePaused
			s.persister.OnStateEvent(progress.Pause, s.time, s.duration)
			o.emit(SignalPause, s.time)
			c.settle(s, o)

		case player.EventTimeUpdate:
			s.time = ev.Time
			s.persister.OnTimeUpdate(s.time, s.duration)
			c.evaluateSkips(s, o)
			o.emit(SignalTimeUpdate, s.time)

		case player.EventSeeked:
			s.time = ev.Time
			s.persister.OnStateEvent(progress.Seeked, s.time, s.duration)
			c.evaluateSkips(s, o)
			o.emit(SignalStateChanged, s.time)

		case player.EventLoadedMetadata:
			s.time, s.duration = ev.Time, c.media.Duration()
			s.metadata, s.loading = true, false
			if s.phase == PhaseLoading {
				s.phase = PhaseReady
			}
			s.persister.OnStateEvent(progress.LoadedMetadata, s.time, s.duration)
			c.syncTracks(s, o, c.media.TextTracks())
			if !s.source.Kind.Adaptive() {
				c.resume(s, o)
			}
			c.evaluateSkips(s, o)
			o.emit(SignalStateChanged, s.time)

		case player.EventTracksChanged:
			c.syncTracks(s, o, c.media.TextTracks())
			o.emit(SignalStateChanged, s.time)

		case player.EventWaiting:
			if !s.buffering {
				s.buffering = true
				o.emit(SignalBufferingStart, ev.Time)
			}

		case player.EventPlaying:
			s.loading = false
			if s.buffering {
				s.buffering = false
				o.emit(SignalBufferingEnd, ev.Time)
			}

		case player.EventEnded:
			s.time, s.phase = ev.Time, PhaseEnded
			s.persister.OnStateEvent(progress.Pause, s.time, s.duration)
			o.emit(SignalPause, s.time)
			c.settle(s, o)

		case player.EventFullscreenChanged:
			o.do("fullscreen", func() error { s.screen.Sync(); return nil })
			o.emit(SignalStateChanged, s.time)

		case player.EventError:
			c.fail(s, o, fmt.Errorf("media element: %w", orUnknown(ev.Err)))
		}
	})
}

// orUnknown substitutes a generic error for a nil one.
func orUnknown(err error) error {
	if err == nil {
		return errors.New("unknown error")
	}
	return err
}

// settle releases the wake lock and pins the overlay once playback stops.
func (c *Controller) settle(s *state, o *outbox) {
	o.do("wake lock", func() error { s.screen.SetPlaying(false); return nil })
	o.do("overlay", func() error {
		s.idle.Cancel()
		s.idle.Show()
		return nil
	})
}

func (c *Controller) onManifest(token uuid.UUID, m stream.Manifest) {
	c.update(token, func(s *state, o *outbox) {
		s.manifest = mo.Some(m)
		if s.phase == PhaseLoading {
			s.phase = PhaseReady
		}
		log.Infof("session %s: %s manifest ready, %d variants", s.token, m.Kind, len(m.Variants))
		c.resume(s, o)
		o.emit(SignalStateChanged, s.time)
	})
}

func (c *Controller) onLoaderError(token uuid.UUID, err error, fatal bool) {
	c.update(token, func(s *state, o *outbox) {
		c.metrics.LoaderError(fatal)
		if !fatal {
			log.Warnf("session %s: stream: %v", s.token, err)
			return
		}
		c.fail(s, o, fmt.Errorf("stream: %w", err))
	})
}

// fail moves the session into the error phase. No retry is attempted.
func (c *Controller) fail(s *state, o *outbox, err error) {
	log.Errorf("session %s: %v", s.token, err)
	s.phase, s.err = PhaseError, err
	s.loading, s.buffering = false, false
	o.emit(SignalStateChanged, s.time)
	c.settle(s, o)
}

// resume applies the requested start position once, then asks for playback.
// The seek is queued before the play request.
func (c *Controller) resume(s *state, o *outbox) {
	if s.resumed {
		return
	}
	s.resumed = true

	if at := s.req.ResumeFrom; at > 0 {
		log.Infof("session %s: resuming at %.1fs", s.token, at)
		o.do("resume", func() error { return c.media.Seek(at) })
	}
	o.try("not yet playing", c.media.Play)
}

// evaluateSkips recomputes the skip affordances for the current position and
// seeks past a window on entry when auto-skip is on. A skipped window stays
// dismissed until the position leaves it.
func (c *Controller) evaluateSkips(s *state, o *outbox) {
	prev := s.flags
	raw := s.detector.Evaluate(s.time)
	s.dismissed.Intro = s.dismissed.Intro && raw.Intro
	s.dismissed.Outro = s.dismissed.Outro && raw.Outro
	s.flags = skip.Flags{
		Intro: raw.Intro && !s.dismissed.Intro,
		Outro: raw.Outro && !s.dismissed.Outro,
	}

	if c.cfg.AutoSkip {
		if s.flags.Intro {
			c.skip(s, o, skip.Intro, "auto")
		}
		if s.flags.Outro {
			c.skip(s, o, skip.Outro, "auto")
		}
	}
	if s.flags != prev {
		o.emit(SignalStateChanged, s.time)
	}
}

// skip seeks to the end of the window of kind k and clears its indicator.
func (c *Controller) skip(s *state, o *outbox, k skip.Kind, trigger string) bool {
	w, ok := s.detector.Window(k).Get()
	if !ok {
		return false
	}
	target, next := skip.SkipTo(w, k, s.flags)
	s.flags = next
	if k == skip.Intro {
		s.dismissed.Intro = true
	} else {
		s.dismissed.Outro = true
	}
	c.metrics.Skip(k.String(), trigger)
	log.Infof("session %s: skipping %s to %.1fs (%s)", s.token, k, target, trigger)
	o.do("skip", func() error { return c.media.Seek(target) })
	return true
}

// syncTracks steers the element towards the resolver's choice. The track
// list is re-read after the modes were applied.
func (c *Controller) syncTracks(s *state, o *outbox, runtime []track.Runtime) {
	s.tracks = runtime
	actions := s.resolver.Sync(runtime)
	if len(actions) == 0 {
		s.resolver.Observe(runtime)
		return
	}
	c.applyTracks(s, o, actions)
}

func (c *Controller) applyTracks(s *state, o *outbox, actions []track.Action) {
	token := s.token
	o.do("text tracks", func() error {
		var errs []error
		for _, a := range actions {
			if err := c.media.SetTextTrackMode(a.Index, a.Mode); err != nil {
				errs = append(errs, fmt.Errorf("track %d %s: %w", a.Index, a.Mode, err))
			}
		}

		runtime := c.media.TextTracks()
		c.update(token, func(s *state, o *outbox) {
			s.tracks = runtime
			s.resolver.Observe(runtime)
			o.emit(SignalStateChanged, s.time)
		})
		return errors.Join(errs...)
	})
}

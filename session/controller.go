package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anisan-cli/playcore/clock"
	"github.com/anisan-cli/playcore/gesture"
	"github.com/anisan-cli/playcore/idle"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/metrics"
	"github.com/anisan-cli/playcore/player"
	"github.com/anisan-cli/playcore/prefetch"
	"github.com/anisan-cli/playcore/progress"
	"github.com/anisan-cli/playcore/screen"
	"github.com/anisan-cli/playcore/skip"
	"github.com/anisan-cli/playcore/stream"
	"github.com/anisan-cli/playcore/thumbnail"
	"github.com/anisan-cli/playcore/track"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ThumbnailFunc fetches the preview cues of a thumbnail track.
type ThumbnailFunc func(ctx context.Context, trackURL string, headers map[string]string) []thumbnail.Cue

// LoaderFunc attaches a stream loader.
type LoaderFunc func(src stream.Source, events stream.Events, opts *stream.Options) stream.Loader

// Options configure a Controller. Zero values select the defaults.
type Options struct {
	Config   Config
	Clock    clock.Clock
	Sink     progress.Sink
	WakeLock screen.WakeLock
	Metrics  *metrics.Metrics

	Thumbnails ThumbnailFunc
	Loader     LoaderFunc
	Stream     *stream.Options
}

// Controller drives one media element through successive sessions. All
// state is guarded by one mutex; element commands and signals are issued
// after it is released, so subscribers and elements that raise events
// synchronously may call back into the controller.
type Controller struct {
	mu      sync.Mutex
	media   player.Element
	cfg     Config
	clock   clock.Clock
	sink    progress.Sink
	lock    screen.WakeLock
	metrics *metrics.Metrics
	loader  LoaderFunc
	stream  *stream.Options
	thumbs  ThumbnailFunc

	signals  signalHub
	previews *prefetch.Pipeline[[]thumbnail.Cue]
	targets  sync.Map // key -> thumbTarget

	sess    *state
	retired []*progress.Persister
}

type thumbTarget struct {
	url     string
	headers map[string]string
}

// state is everything owned by one session.
type state struct {
	token uuid.UUID
	req   Request

	phase     Phase
	source    stream.Source
	manifest  mo.Option[stream.Manifest]
	loading   bool
	buffering bool
	err       error

	loader      stream.Loader
	unsubscribe func()

	resolver  *track.Resolver
	tracks    []track.Runtime
	detector  *skip.Detector
	flags     skip.Flags
	dismissed skip.Flags
	interp    *gesture.Interpreter
	persister *progress.Persister
	idle      *idle.Timer
	screen    *screen.Manager

	resumed    bool
	metadata   bool
	time       float64
	duration   float64
	volume     float64
	rate       float64
	brightness float64

	cues          []thumbnail.Cue
	feedback      mo.Option[gesture.Feedback]
	feedbackTimer clock.Timer
}

// New creates a controller for media.
func New(media player.Element, opts *Options) *Controller {
	if opts == nil {
		opts = &Options{Config: DefaultConfig()}
	}

	c := &Controller{
		media:   media,
		cfg:     opts.Config,
		clock:   opts.Clock,
		sink:    opts.Sink,
		lock:    opts.WakeLock,
		metrics: opts.Metrics,
		loader:  opts.Loader,
		stream:  opts.Stream,
		thumbs:  opts.Thumbnails,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.loader == nil {
		c.loader = stream.Open
	}
	if c.thumbs == nil {
		c.thumbs = thumbnail.Load
	}
	if c.cfg.Gestures == (gesture.Thresholds{}) {
		c.cfg.Gestures = gesture.DefaultThresholds()
	}
	if c.cfg.Volume == 0 && c.cfg.Rate == 0 {
		c.cfg.Volume, c.cfg.Rate = 1, 1
	}

	c.previews = prefetch.New(c.fetchThumbnails, c.clock)
	return c
}

func (c *Controller) fetchThumbnails(ctx context.Context, key string) ([]thumbnail.Cue, error) {
	v, ok := c.targets.Load(key)
	if !ok {
		return nil, fmt.Errorf("no thumbnail track for %q", key)
	}
	t := v.(thumbTarget)
	return c.thumbs(ctx, t.url, t.headers), nil
}

// Start begins a session for req, replacing the current one. The previous
// loader is destroyed before the new one attaches.
func (c *Controller) Start(req Request) (Handle, error) {
	if c.media == nil {
		return Handle{}, ErrNoMedia
	}
	if err := req.Validate(); err != nil {
		if c.cfg.Strict || errors.Is(err, ErrInvalidRequest) {
			return Handle{}, err
		}
		log.Warnf("session %q: %v", req.Title, err)
	}

	s := c.newState(req)

	c.mu.Lock()
	if prev := c.sess; prev != nil {
		if err := c.teardown(prev); err != nil {
			log.Warnf("tearing down previous session: %v", err)
		}
	}
	c.sess = s
	c.mu.Unlock()

	c.metrics.SessionStarted()
	log.Infof("session %s: starting %q (%s)", s.token, req.Title, s.source.Kind)

	c.attach(s)
	return Handle{token: s.token}, nil
}

func (c *Controller) newState(req Request) *state {
	token := uuid.New()

	s := &state{
		token:      token,
		req:        req,
		phase:      PhaseLoading,
		loading:    true,
		source:     stream.Classify(req.SourceURL),
		resolver:   track.NewResolver(track.SubtitleDescriptors(req.Tracks), c.cfg.PreferredSubtitle),
		detector:   skip.NewDetector(req.Intro, req.Outro),
		interp:     gesture.NewInterpreter(c.cfg.Gestures),
		volume:     c.cfg.Volume,
		rate:       c.cfg.Rate,
		brightness: 0.5,
		feedback:   mo.None[gesture.Feedback](),
		manifest:   mo.None[stream.Manifest](),
	}

	s.persister = progress.New(req.progressKey(), c.sink, &progress.Options{
		Interval: c.cfg.ProgressInterval,
		Clock:    c.clock,
		OnResult: c.metrics.ProgressWrite,
	})

	s.idle = idle.New(c.clock, c.cfg.ChromeHideDelay, func(bool) {
		c.notifyState(token)
	})
	s.screen = screen.New(c.media, &screen.Options{
		Cooldown: c.cfg.FullscreenCooldown,
		Clock:    c.clock,
		WakeLock: c.lock,
	})
	return s
}

// attach wires the element and the loader to s. It runs without the lock;
// every callback re-checks the session token.
func (c *Controller) attach(s *state) {
	token, req, src, detector := s.token, s.req, s.source, s.detector

	unsubscribe := c.media.Subscribe(func(ev player.Event) {
		c.onMedia(token, ev)
	})
	if !c.adopt(token, func(s *state) { s.unsubscribe = unsubscribe }) {
		unsubscribe()
		return
	}

	// A relay fetches the upstream itself and gets no caller headers.
	headers := lo.Ternary(src.Proxied, nil, req.Headers)
	if err := c.media.Load(req.SourceURL, req.Title, headers); err != nil {
		c.update(token, func(s *state, o *outbox) {
			c.fail(s, o, fmt.Errorf("load source: %w", err))
		})
		return
	}

	for _, d := range track.SubtitleDescriptors(req.Tracks) {
		if err := c.media.AddTextTrack(d); err != nil {
			log.Warnf("adding text track %q: %v", d.Label, err)
		}
	}
	if err := c.media.SetVolume(c.cfg.Volume); err != nil {
		log.Warnf("setting volume: %v", err)
	}
	if err := c.media.SetPlaybackRate(c.cfg.Rate); err != nil {
		log.Warnf("setting playback rate: %v", err)
	}

	if marker, ok := c.media.(player.ChapterMarker); ok {
		if chapters := player.SkipChapters(detector.Intro(), detector.Outro()); len(chapters) > 0 {
			if err := marker.MarkChapters(chapters); err != nil {
				log.Warnf("marking chapters: %v", err)
			}
		}
	}
	if pos, ok := c.media.(player.CaptionPositioner); ok && req.CaptionOffset != 0 {
		if err := pos.SetCaptionOffset(req.CaptionOffset); err != nil {
			log.Warnf("positioning captions: %v", err)
		}
	}

	if d, ok := track.Thumbnail(req.Tracks); ok {
		key := lo.Ternary(req.EpisodeID != "", req.EpisodeID, d.File)
		c.targets.Store(key, thumbTarget{url: d.File, headers: req.Headers})
		var future *prefetch.Future[[]thumbnail.Cue]
		if c.cfg.ThumbnailDelay > 0 {
			future = c.previews.SubmitAfter(key, c.cfg.ThumbnailDelay)
		} else {
			future = c.previews.Submit(key)
		}
		go func() {
			cues, err := future.Await(context.Background()).Get()
			if err != nil {
				log.Debugf("thumbnails for %s: %v", key, err)
				return
			}
			c.update(token, func(s *state, o *outbox) {
				s.cues = cues
				o.emit(SignalStateChanged, s.time)
			})
		}()
	}

	var opts stream.Options
	if c.stream != nil {
		opts = *c.stream
	}
	if opts.Hook == nil && len(req.Headers) > 0 {
		opts.Hook = stream.Headers(req.Headers)
	}
	loader := c.loader(src, stream.Events{
		OnReady: func(m stream.Manifest) { c.onManifest(token, m) },
		OnError: func(err error, fatal bool) { c.onLoaderError(token, err, fatal) },
	}, &opts)

	if !c.adopt(token, func(s *state) { s.loader = loader }) {
		loader.Destroy()
		return
	}

	c.Interact()
}

// adopt hands a resource acquired outside the lock to the session token
// names. It reports false when that session is gone; the caller then owns
// the resource and releases it.
func (c *Controller) adopt(token uuid.UUID, fn func(s *state)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || c.sess.token != token {
		return false
	}
	fn(c.sess)
	return true
}

// Close ends the session identified by h. Closing a stale handle is a no-op.
// Every teardown step runs even when an earlier one fails.
func (c *Controller) Close(h Handle) error {
	c.mu.Lock()
	s := c.sess
	if s == nil || s.token != h.token {
		c.mu.Unlock()
		if c.cfg.Strict && h.Valid() {
			return fmt.Errorf("close %s: %w", h, ErrNoSession)
		}
		return nil
	}
	err := c.teardown(s)
	c.sess = nil
	c.mu.Unlock()

	if uerr := c.media.Unload(); uerr != nil {
		err = errors.Join(err, fmt.Errorf("unload: %w", uerr))
	}
	c.notifySignals([]Signal{{Kind: SignalStateChanged, Time: s.time}})

	if err != nil {
		log.Warnf("session %s: teardown: %v", s.token, err)
	}
	return err
}

// teardown releases everything s owns: timers, the wake lock, listeners,
// then the loader. It is called with the lock held.
func (c *Controller) teardown(s *state) error {
	var errs []error

	s.idle.Close()
	if s.feedbackTimer != nil {
		s.feedbackTimer.Stop()
	}
	c.previews.Cancel()

	if err := s.screen.Close(); err != nil {
		errs = append(errs, fmt.Errorf("wake lock: %w", err))
	}

	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	if s.loader != nil {
		s.loader.Destroy()
	}

	s.persister.OnStateEvent(progress.Pause, s.time, s.duration)
	c.retired = append(c.retired, s.persister)

	c.metrics.SessionClosed()
	log.Infof("session %s: closed", s.token)
	return errors.Join(errs...)
}

// Shutdown closes the current session, if any, and stops background
// fetches for good. Later sessions get no thumbnails.
func (c *Controller) Shutdown() error {
	var err error
	if h, ok := c.Handle().Get(); ok {
		err = c.Close(h)
	}
	c.previews.Close()
	return err
}

// Drain waits for the progress writes of closed sessions to finish.
func (c *Controller) Drain() {
	c.mu.Lock()
	retired := c.retired
	c.retired = nil
	c.mu.Unlock()

	for _, p := range retired {
		p.Wait()
	}
}

// Handle returns the handle of the current session, if any.
func (c *Controller) Handle() mo.Option[Handle] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return mo.None[Handle]()
	}
	return mo.Some(Handle{token: c.sess.token})
}

// State returns a snapshot of the current session. Without a session the
// phase is PhaseIdle.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.sess
	if s == nil {
		return Snapshot{Phase: PhaseIdle}
	}

	return Snapshot{
		Handle:        Handle{token: s.token},
		Phase:         s.phase,
		Title:         s.req.Title,
		EpisodeID:     s.req.EpisodeID,
		Source:        s.source,
		Manifest:      s.manifest,
		Loading:       s.loading,
		Buffering:     s.buffering,
		CurrentTime:   s.time,
		Duration:      s.duration,
		Volume:        s.volume,
		Rate:          s.rate,
		Brightness:    s.brightness,
		Tracks:        append([]track.Runtime(nil), s.tracks...),
		ActiveTrack:   s.resolver.Active(),
		Skip:          s.flags,
		Intro:         s.detector.Intro(),
		Outro:         s.detector.Outro(),
		ChromeVisible: s.idle.Visible(),
		Fullscreen:    s.screen.IsFullscreen(),
		Feedback:      s.feedback,
		CaptionOffset: s.req.CaptionOffset,
		Thumbnails:    len(s.cues),
		Err:           s.err,
	}
}

// Subscribe registers fn for every signal. Signals are delivered outside
// the controller lock.
func (c *Controller) Subscribe(fn func(Signal)) (cancel func()) {
	return c.signals.subscribe(fn)
}

// Preview returns the thumbnail cue covering t.
func (c *Controller) Preview(t float64) mo.Option[thumbnail.Cue] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return mo.None[thumbnail.Cue]()
	}
	return thumbnail.Nearest(c.sess.cues, t)
}

func (c *Controller) notifyState(token uuid.UUID) {
	c.update(token, func(s *state, o *outbox) {
		o.emit(SignalStateChanged, s.time)
	})
}

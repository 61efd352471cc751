package progress

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/anisan-cli/playcore/clock"
	"github.com/anisan-cli/playcore/log"
	"github.com/samber/mo"
)

// DefaultInterval is the minimum spacing of periodic saves.
const DefaultInterval = 10 * time.Second

// writeTimeout bounds a single sink call.
const writeTimeout = 15 * time.Second

// Options configure a Persister. Zero values select the defaults.
type Options struct {
	Interval time.Duration
	Clock    clock.Clock
	// OnResult observes the outcome of every write.
	OnResult func(error)
}

// Persister throttles and emits checkpoints for one session. Its methods
// are called from the session's serialized event path and are not safe for
// concurrent use; writes run on their own goroutines.
type Persister struct {
	episodeID string
	sink      Sink
	interval  time.Duration
	clock     clock.Clock
	onResult  func(error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	// tail is closed when the most recently emitted write finishes; each
	// write waits for its predecessor so the sink sees emission order.
	tail chan struct{}

	metadataSeen bool
	last         mo.Option[Checkpoint]
}

// New creates a persister writing to sink for the given episode.
func New(episodeID string, sink Sink, opts *Options) *Persister {
	if opts == nil {
		opts = &Options{}
	}

	p := &Persister{
		episodeID: episodeID,
		sink:      sink,
		interval:  opts.Interval,
		clock:     opts.Clock,
		onResult:  opts.OnResult,
		last:      mo.None[Checkpoint](),
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	return p
}

// OnTimeUpdate considers a periodic save.
func (p *Persister) OnTimeUpdate(t, d float64) {
	if !p.writable(d) {
		return
	}

	now := p.clock.Now()
	if last, ok := p.last.Get(); ok {
		if now.Sub(last.SavedAt) < p.interval {
			return
		}
		if last.CurrentTime == t && last.Duration == d {
			return
		}
	}

	p.emit(t, d, now)
}

// OnStateEvent saves unconditionally on key transitions once the session
// has reported metadata.
func (p *Persister) OnStateEvent(kind EventKind, t, d float64) {
	if kind == LoadedMetadata {
		p.metadataSeen = true
	}
	if !p.writable(d) {
		return
	}
	p.emit(t, d, p.clock.Now())
}

// Last returns the most recently emitted checkpoint.
func (p *Persister) Last() mo.Option[Checkpoint] {
	return p.last
}

// Wait blocks until in-flight writes finish.
func (p *Persister) Wait() {
	p.wg.Wait()
}

// Close cancels in-flight writes. Checkpoints emitted afterwards are dropped.
func (p *Persister) Close() {
	p.cancel()
}

func (p *Persister) writable(d float64) bool {
	if p.sink == nil || !p.metadataSeen {
		return false
	}
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

func (p *Persister) emit(t, d float64, now time.Time) {
	if p.ctx.Err() != nil {
		return
	}

	c := Checkpoint{
		EpisodeID:   p.episodeID,
		CurrentTime: t,
		Duration:    d,
		SavedAt:     now,
	}
	p.last = mo.Some(c)

	prev, done := p.tail, make(chan struct{})
	p.tail = done

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(p.ctx, writeTimeout)
		defer cancel()

		err := p.sink.SaveProgress(ctx, c)
		if err != nil {
			log.Warnf("saving progress of %s at %.1fs: %v", c.EpisodeID, c.CurrentTime, err)
		}
		if p.onResult != nil {
			p.onResult(err)
		}
	}()
}

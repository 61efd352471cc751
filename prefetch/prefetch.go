// Package prefetch runs cancellable background fetches keyed by episode id.
// Submitting a new key supersedes and cancels the work of the previous one.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/anisan-cli/playcore/clock"
	"github.com/samber/mo"
)

// Fetch produces the value for key. It must honour ctx.
type Fetch[T any] func(ctx context.Context, key string) (T, error)

// Future is the eventual result of one fetch.
type Future[T any] struct {
	key    string
	done   chan struct{}
	cancel context.CancelFunc
	result mo.Result[T]
}

// Key returns the key the future was submitted for.
func (f *Future[T]) Key() string {
	return f.key
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx ends.
func (f *Future[T]) Await(ctx context.Context) mo.Result[T] {
	select {
	case <-f.done:
		return f.result
	case <-ctx.Done():
		return mo.Err[T](ctx.Err())
	}
}

// Pipeline holds at most one live future.
type Pipeline[T any] struct {
	mu      sync.Mutex
	fetch   Fetch[T]
	clock   clock.Clock
	current *Future[T]
	pending *Future[T]
	timer   clock.Timer
	closed  bool
}

// New creates a pipeline around fetch. A nil clock selects the real one.
func New[T any](fetch Fetch[T], clk clock.Clock) *Pipeline[T] {
	if clk == nil {
		clk = clock.New()
	}
	return &Pipeline[T]{fetch: fetch, clock: clk}
}

// Submit starts fetching key unless it is already current, cancelling any
// pending debounce and any future for a different key.
func (p *Pipeline[T]) Submit(key string) *Future[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer()
	return p.submit(key)
}

// SubmitAfter debounces Submit: only the last key submitted within d starts.
// The returned future resolves with that fetch, or with context.Canceled when
// a later submission supersedes it first.
func (p *Pipeline[T]) SubmitAfter(key string, d time.Duration) *Future[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimer()
	f := &Future[T]{key: key, done: make(chan struct{}), cancel: func() {}}
	if p.closed {
		f.result = mo.Err[T](context.Canceled)
		close(f.done)
		return f
	}

	p.pending = f
	p.timer = p.clock.AfterFunc(d, func() {
		p.mu.Lock()
		if p.pending != f {
			p.mu.Unlock()
			return
		}
		p.timer, p.pending = nil, nil
		inner := p.submit(key)
		p.mu.Unlock()

		go func() {
			<-inner.done
			f.result = inner.result
			close(f.done)
		}()
	})
	return f
}

// Current returns the live future, if any.
func (p *Pipeline[T]) Current() mo.Option[*Future[T]] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return mo.None[*Future[T]]()
	}
	return mo.Some(p.current)
}

// Cancel drops the pending debounce and cancels the live future. The
// pipeline stays usable.
func (p *Pipeline[T]) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer()
	if p.current != nil {
		p.current.cancel()
		p.current = nil
	}
}

// Close cancels all work. Later submissions return already-cancelled futures.
func (p *Pipeline[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.stopTimer()
	if p.current != nil {
		p.current.cancel()
		p.current = nil
	}
}

func (p *Pipeline[T]) submit(key string) *Future[T] {
	if p.current != nil {
		if p.current.key == key && !p.closed {
			return p.current
		}
		p.current.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &Future[T]{key: key, done: make(chan struct{}), cancel: cancel}

	if p.closed {
		cancel()
		f.result = mo.Err[T](context.Canceled)
		close(f.done)
		return f
	}
	p.current = f

	go func() {
		defer cancel()
		v, err := p.fetch(ctx, key)
		switch {
		case ctx.Err() != nil:
			f.result = mo.Err[T](ctx.Err())
		case err != nil:
			f.result = mo.Err[T](err)
		default:
			f.result = mo.Ok(v)
		}
		close(f.done)
	}()

	return f
}

func (p *Pipeline[T]) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.pending != nil {
		p.pending.result = mo.Err[T](context.Canceled)
		close(p.pending.done)
		p.pending = nil
	}
}

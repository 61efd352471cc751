// Package retry runs operations with exponential backoff and randomized jitter.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy bounds a retry loop.
type Policy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
	Jitter   time.Duration
}

// Default is the policy used for progress writes.
func Default() Policy {
	return Policy{
		Attempts: 4,
		Base:     100 * time.Millisecond,
		Max:      5 * time.Second,
		Jitter:   100 * time.Millisecond,
	}
}

// Delay returns the wait before retry number attempt (zero based).
func (p Policy) Delay(attempt int) time.Duration {
	d := time.Duration(1<<attempt) * p.Base
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	if p.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return d
}

type permanent struct {
	err error
}

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// ErrExhausted is wrapped by the error returned once every attempt failed.
var ErrExhausted = errors.New("retries exhausted")

// Do calls op until it succeeds, returns a permanent error, the attempts run
// out or ctx ends.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(p.Delay(i - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(ctx.Err(), last)
			case <-timer.C:
			}
		}

		last = op(ctx)
		if last == nil {
			return nil
		}

		var perm *permanent
		if errors.As(last, &perm) {
			return perm.err
		}
	}

	return errors.Join(ErrExhausted, last)
}

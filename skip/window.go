// Package skip detects when playback sits inside an intro or outro window and
// computes where a skip lands.
package skip

import (
	"errors"
	"fmt"

	"github.com/samber/mo"
)

var (
	// ErrInvalidWindow is returned for a window whose start lies after its end.
	ErrInvalidWindow = errors.New("invalid skip window")
	// ErrOverlappingWindows is returned when the intro and outro windows intersect.
	ErrOverlappingWindows = errors.New("intro and outro windows overlap")
)

// Window is a half-open interval [Start, End) in seconds.
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Validate reports ErrInvalidWindow when Start > End.
func (w Window) Validate() error {
	if w.Start > w.End {
		return fmt.Errorf("%w: start %.3f > end %.3f", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t float64) bool {
	return IsInWindow(t, w)
}

// Overlaps reports whether the two half-open windows share any instant.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// IsInWindow is true iff start <= t < end.
func IsInWindow(t float64, w Window) bool {
	return t >= w.Start && t < w.End
}

// Kind names which window a skip affordance refers to.
type Kind int

const (
	Intro Kind = iota
	Outro
)

func (k Kind) String() string {
	if k == Intro {
		return "intro"
	}
	return "outro"
}

// Validate checks a pair of optional windows against the session invariants:
// each window is well-formed and the two never overlap.
func Validate(intro, outro mo.Option[Window]) error {
	var errs []error
	if w, ok := intro.Get(); ok {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("intro: %w", err))
		}
	}
	if w, ok := outro.Get(); ok {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("outro: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	i, okI := intro.Get()
	o, okO := outro.Get()
	if okI && okO && i.Overlaps(o) {
		return fmt.Errorf("%w: intro [%.3f,%.3f) outro [%.3f,%.3f)", ErrOverlappingWindows, i.Start, i.End, o.Start, o.End)
	}
	return nil
}

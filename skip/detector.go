package skip

import (
	"github.com/anisan-cli/playcore/log"
	"github.com/samber/mo"
)

// Flags is the pair of skip affordances to show for a given instant.
type Flags struct {
	Intro bool
	Outro bool
}

// Detector answers skip-window queries for one session. It holds nothing
// beyond the session's windows, so every time update recomputes from scratch.
type Detector struct {
	intro mo.Option[Window]
	outro mo.Option[Window]
}

// NewDetector builds a Detector, dropping any window that violates the
// session invariants. Callers wanting fail-fast behaviour run Validate first.
func NewDetector(intro, outro mo.Option[Window]) *Detector {
	if w, ok := intro.Get(); ok {
		if err := w.Validate(); err != nil {
			log.Warnf("dropping intro window: %v", err)
			intro = mo.None[Window]()
		}
	}
	if w, ok := outro.Get(); ok {
		if err := w.Validate(); err != nil {
			log.Warnf("dropping outro window: %v", err)
			outro = mo.None[Window]()
		}
	}

	i, okI := intro.Get()
	o, okO := outro.Get()
	if okI && okO && i.Overlaps(o) {
		log.Warnf("dropping outro window [%.3f,%.3f): overlaps intro", o.Start, o.End)
		outro = mo.None[Window]()
	}

	return &Detector{intro: intro, outro: outro}
}

// Intro returns the intro window, if any.
func (d *Detector) Intro() mo.Option[Window] {
	return d.intro
}

// Outro returns the outro window, if any.
func (d *Detector) Outro() mo.Option[Window] {
	return d.outro
}

// Window returns the window for the given kind.
func (d *Detector) Window(k Kind) mo.Option[Window] {
	if k == Intro {
		return d.intro
	}
	return d.outro
}

// ShouldShowIntroSkip reports whether t is inside the intro window.
func (d *Detector) ShouldShowIntroSkip(t float64) bool {
	w, ok := d.intro.Get()
	return ok && w.Contains(t)
}

// ShouldShowOutroSkip reports whether t is inside the outro window.
func (d *Detector) ShouldShowOutroSkip(t float64) bool {
	w, ok := d.outro.Get()
	return ok && w.Contains(t)
}

// Evaluate computes both affordances for t.
func (d *Detector) Evaluate(t float64) Flags {
	return Flags{
		Intro: d.ShouldShowIntroSkip(t),
		Outro: d.ShouldShowOutroSkip(t),
	}
}

// SkipTo returns the seek target for skipping the given window and the flags
// to show once the skip has been requested: the skipped indicator is cleared
// immediately rather than on the next time update.
func SkipTo(w Window, k Kind, current Flags) (target float64, next Flags) {
	next = current
	switch k {
	case Intro:
		next.Intro = false
	case Outro:
		next.Outro = false
	}
	return w.End, next
}

package gesture

import (
	"math"
	"time"

	"github.com/anisan-cli/playcore/util"
	"github.com/samber/mo"
)

type tap struct {
	side Side
	at   time.Time
	pos  Point
}

// Interpreter recognises gestures across successive traces. It remembers
// the last lone tap so that a second tap can complete a double tap. It is
// not safe for concurrent use; the session serializes calls.
type Interpreter struct {
	thresholds Thresholds
	pending    mo.Option[tap]
}

// NewInterpreter returns an interpreter with the given tuning.
func NewInterpreter(t Thresholds) *Interpreter {
	return &Interpreter{thresholds: t, pending: mo.None[tap]()}
}

// Reset forgets any pending tap.
func (in *Interpreter) Reset() {
	in.pending = mo.None[tap]()
}

// Interpret classifies a trace. Most traces yield nothing: a first tap only
// arms the double-tap detector.
func (in *Interpreter) Interpret(tr Trace) mo.Option[Event] {
	if tr.Surface.Width <= 0 || tr.Surface.Height <= 0 {
		return mo.None[Event]()
	}

	moved := math.Hypot(tr.dx(), tr.dy()) >= in.thresholds.TapSlop

	if bar, ok := tr.ScrubBar.Get(); ok && bar.Width > 0 && bar.Contains(tr.From) {
		in.Reset()
		return mo.Some(Event{
			Kind:      DragSeek,
			Magnitude: util.Clamp((tr.To.X-bar.X)/bar.Width, 0, 1),
		})
	}

	if moved {
		in.Reset()
		return in.drag(tr)
	}

	return in.tap(tr)
}

func (in *Interpreter) drag(tr Trace) mo.Option[Event] {
	dx, dy := tr.dx(), tr.dy()
	if math.Abs(dy) <= math.Abs(dx) {
		return mo.None[Event]()
	}

	ev := Event{
		Kind:      VolumeDrag,
		Side:      Right,
		Magnitude: util.Clamp(math.Abs(dy)/tr.Surface.Height, 0, 1),
		Direction: Down,
	}
	if tr.From.X < tr.Surface.Width/2 {
		ev.Kind, ev.Side = BrightnessDrag, Left
	}
	if dy < 0 {
		ev.Direction = Up
	}
	return mo.Some(ev)
}

func (in *Interpreter) tap(tr Trace) mo.Option[Event] {
	w, h := tr.Surface.Width, tr.Surface.Height
	p := tr.From

	var side Side
	switch {
	case p.X < w/3:
		side = Left
	case p.X > 2*w/3:
		side = Right
	}

	if side == NoSide {
		in.Reset()
		if p.X >= 0.3*w && p.X <= 0.7*w && p.Y >= 0.3*h && p.Y <= 0.7*h {
			return mo.Some(Event{Kind: CenterTap})
		}
		return mo.None[Event]()
	}

	current := tap{side: side, at: tr.Up, pos: p}

	prev, ok := in.pending.Get()
	if ok && in.completes(prev, current) {
		in.Reset()

		return mo.Some(Event{
			Kind:      DoubleTapSeek,
			Side:      side,
			Magnitude: in.thresholds.SeekSeconds,
			Feedback: mo.Some(Feedback{
				Key:      side.String(),
				Duration: in.thresholds.FeedbackDuration,
			}),
		})
	}

	in.pending = mo.Some(current)
	return mo.None[Event]()
}

func (in *Interpreter) completes(prev, next tap) bool {
	if prev.side != next.side {
		return false
	}
	elapsed := next.at.Sub(prev.at)
	if elapsed < 0 || elapsed > in.thresholds.DoubleTapWindow {
		return false
	}
	return math.Hypot(next.pos.X-prev.pos.X, next.pos.Y-prev.pos.Y) <= in.thresholds.DoubleTapRadius
}

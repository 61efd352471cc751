// Package gesture turns raw pointer traces over the video surface into
// control events: double-tap seeks, vertical volume and brightness drags,
// scrub-bar drags and center taps.
package gesture

import (
	"time"

	"github.com/anisan-cli/playcore/key"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Kind enumerates the recognised gestures.
type Kind int

const (
	DoubleTapSeek Kind = iota + 1
	DragSeek
	VolumeDrag
	BrightnessDrag
	CenterTap
)

func (k Kind) String() string {
	switch k {
	case DoubleTapSeek:
		return "double_tap_seek"
	case DragSeek:
		return "drag_seek"
	case VolumeDrag:
		return "volume_drag"
	case BrightnessDrag:
		return "brightness_drag"
	case CenterTap:
		return "center_tap"
	default:
		return "unknown"
	}
}

// Side is the horizontal half a gesture belongs to.
type Side int

const (
	NoSide Side = iota
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Direction is the vertical direction of a drag.
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Feedback describes a transient on-screen acknowledgement of a gesture.
type Feedback struct {
	Key      string
	Duration time.Duration
}

// Event is an interpreted gesture. Magnitude is unsigned seconds for
// DoubleTapSeek, whose Side gives the direction, and a fraction in [0,1] for
// drags: the scrub position for DragSeek and the travelled share of the
// surface height for vertical drags.
type Event struct {
	Kind      Kind
	Side      Side
	Magnitude float64
	Direction Direction
	Feedback  mo.Option[Feedback]
}

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Trace is one pointer interaction from press to release.
type Trace struct {
	From, To Point
	Down, Up time.Time

	// Surface is the size of the video surface; its origin is ignored.
	Surface Rect
	// ScrubBar is the seek bar area, when one is on screen.
	ScrubBar mo.Option[Rect]
}

func (t Trace) dx() float64 { return t.To.X - t.From.X }
func (t Trace) dy() float64 { return t.To.Y - t.From.Y }

// Thresholds tune recognition.
type Thresholds struct {
	DoubleTapWindow  time.Duration
	DoubleTapRadius  float64
	TapSlop          float64
	SeekSeconds      float64
	FeedbackDuration time.Duration
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DoubleTapWindow:  300 * time.Millisecond,
		DoubleTapRadius:  40,
		TapSlop:          10,
		SeekSeconds:      10,
		FeedbackDuration: 600 * time.Millisecond,
	}
}

// ThresholdsFromConfig reads the tuning from the gesture.* keys, keeping
// defaults for unset or non-positive values.
func ThresholdsFromConfig() Thresholds {
	t := DefaultThresholds()
	if ms := viper.GetInt(key.GestureDoubleTapWindow); ms > 0 {
		t.DoubleTapWindow = time.Duration(ms) * time.Millisecond
	}
	if r := viper.GetFloat64(key.GestureDoubleTapRadius); r > 0 {
		t.DoubleTapRadius = r
	}
	if s := viper.GetFloat64(key.GestureTapSlop); s > 0 {
		t.TapSlop = s
	}
	if s := viper.GetFloat64(key.PlayerSeekStep); s > 0 {
		t.SeekSeconds = s
	}
	return t
}

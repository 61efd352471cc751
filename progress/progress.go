// Package progress decides when watch progress is worth persisting and hands
// checkpoints to a Sink without ever blocking playback.
package progress

import (
	"context"
	"time"
)

// Checkpoint is the last known playback position of an episode.
type Checkpoint struct {
	EpisodeID   string    `json:"episode_id"`
	CurrentTime float64   `json:"current_time"`
	Duration    float64   `json:"duration"`
	SavedAt     time.Time `json:"saved_at"`
}

// Percentage returns the watched share in [0,100].
func (c Checkpoint) Percentage() float64 {
	if c.Duration <= 0 {
		return 0
	}
	p := c.CurrentTime / c.Duration * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Sink receives checkpoints. Implementations may be slow or fail; the
// persister never waits on them from the playback path.
type Sink interface {
	SaveProgress(ctx context.Context, c Checkpoint) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context, c Checkpoint) error

// SaveProgress calls f.
func (f SinkFunc) SaveProgress(ctx context.Context, c Checkpoint) error {
	return f(ctx, c)
}

// EventKind is a playback state change that always warrants a save.
type EventKind int

const (
	Play EventKind = iota + 1
	Pause
	Seeked
	LoadedMetadata
)

func (k EventKind) String() string {
	switch k {
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Seeked:
		return "seeked"
	case LoadedMetadata:
		return "loadedmetadata"
	default:
		return "unknown"
	}
}

// Package session implements the playback session controller: the single
// owner of playback state for one media element, coordinating the stream
// loader, subtitle tracks, skip windows, gestures, progress checkpoints,
// the idle overlay and fullscreen.
package session

import (
	"errors"
	"fmt"
	"math"

	"github.com/anisan-cli/playcore/gesture"
	"github.com/anisan-cli/playcore/skip"
	"github.com/anisan-cli/playcore/stream"
	"github.com/anisan-cli/playcore/track"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

var (
	// ErrNoMedia is returned when the controller has no media element.
	ErrNoMedia = errors.New("no media element")
	// ErrNoSession is returned by operations issued without a started session.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidRequest is returned by Start for requests missing required fields.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrOutOfRange is returned for control values outside their domain.
	ErrOutOfRange = errors.New("value out of range")
)

// Request describes what to play. Only SourceURL and Title are required.
type Request struct {
	EpisodeID     string
	Title         string
	SourceURL     string
	Headers       map[string]string
	Tracks        []track.Descriptor
	Intro         mo.Option[skip.Window]
	Outro         mo.Option[skip.Window]
	ResumeFrom    float64
	CaptionOffset float64
	MalID         int
	EpisodeNumber int
}

// Validate checks the required fields and the skip windows.
func (r Request) Validate() error {
	if r.SourceURL == "" {
		return fmt.Errorf("%w: source url is required", ErrInvalidRequest)
	}
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if math.IsNaN(r.ResumeFrom) || math.IsInf(r.ResumeFrom, 0) || r.ResumeFrom < 0 {
		return fmt.Errorf("%w: resume position %v", ErrInvalidRequest, r.ResumeFrom)
	}
	return skip.Validate(r.Intro, r.Outro)
}

// progressKey identifies the episode in the watch history.
func (r Request) progressKey() string {
	if r.EpisodeID != "" {
		return r.EpisodeID
	}
	return r.SourceURL
}

// Handle identifies a started session.
type Handle struct {
	token uuid.UUID
}

// Valid reports whether the handle came from a successful Start.
func (h Handle) Valid() bool {
	return h.token != uuid.Nil
}

func (h Handle) String() string {
	return h.token.String()
}

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhasePlaying
	PhasePaused
	PhaseEnded
	PhaseError
)

var phaseNames = map[Phase]string{
	PhaseIdle:    "idle",
	PhaseLoading: "loading",
	PhaseReady:   "ready",
	PhasePlaying: "playing",
	PhasePaused:  "paused",
	PhaseEnded:   "ended",
	PhaseError:   "error",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "unknown"
}

// SignalKind enumerates the notifications re-emitted to subscribers.
type SignalKind int

const (
	SignalPlay SignalKind = iota + 1
	SignalPause
	SignalTimeUpdate
	SignalBufferingStart
	SignalBufferingEnd
	// SignalStateChanged covers every other observable change: phase,
	// tracks, skip affordances, overlay visibility, fullscreen and feedback.
	SignalStateChanged
)

var signalNames = map[SignalKind]string{
	SignalPlay:           "play",
	SignalPause:          "pause",
	SignalTimeUpdate:     "timeUpdate",
	SignalBufferingStart: "bufferingStart",
	SignalBufferingEnd:   "bufferingEnd",
	SignalStateChanged:   "stateChanged",
}

func (k SignalKind) String() string {
	if n, ok := signalNames[k]; ok {
		return n
	}
	return "unknown"
}

// Signal is a controller notification. Time is the playback position.
type Signal struct {
	Kind SignalKind
	Time float64
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Handle        Handle
	Phase         Phase
	Title         string
	EpisodeID     string
	Source        stream.Source
	Manifest      mo.Option[stream.Manifest]
	Loading       bool
	Buffering     bool
	CurrentTime   float64
	Duration      float64
	Volume        float64
	Rate          float64
	Brightness    float64
	Tracks        []track.Runtime
	ActiveTrack   mo.Option[int]
	Skip          skip.Flags
	Intro         mo.Option[skip.Window]
	Outro         mo.Option[skip.Window]
	ChromeVisible bool
	Fullscreen    bool
	Feedback      mo.Option[gesture.Feedback]
	CaptionOffset float64
	Thumbnails    int
	Err           error
}

// Playing reports whether the session is playing.
func (s Snapshot) Playing() bool {
	return s.Phase == PhasePlaying
}

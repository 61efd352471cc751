// Package player defines the media element abstraction driven by the
// playback session, with an mpv JSON-IPC host and an in-memory host.
package player

import (
	"github.com/anisan-cli/playcore/track"
)

// EventKind enumerates media element notifications.
type EventKind int

const (
	EventPlay EventKind = iota + 1
	EventPause
	EventTimeUpdate
	EventSeeked
	EventLoadedMetadata
	// EventWaiting is emitted when playback stalls on buffering, EventPlaying
	// when it resumes.
	EventWaiting
	EventPlaying
	EventEnded
	EventTracksChanged
	EventFullscreenChanged
	EventError
)

var eventNames = map[EventKind]string{
	EventPlay:              "play",
	EventPause:             "pause",
	EventTimeUpdate:        "timeupdate",
	EventSeeked:            "seeked",
	EventLoadedMetadata:    "loadedmetadata",
	EventWaiting:           "waiting",
	EventPlaying:           "playing",
	EventEnded:             "ended",
	EventTracksChanged:     "trackschanged",
	EventFullscreenChanged: "fullscreenchange",
	EventError:             "error",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is a media element notification. Time is the playback position
// when the event was raised.
type Event struct {
	Kind EventKind
	Time float64
	Err  error
}

// Element encapsulates the capabilities the playback session needs from a
// media backend. Implementations deliver events from their own goroutines.
type Element interface {
	// Load attaches a new source, replacing the current one.
	Load(url, title string, headers map[string]string) error

	// Unload detaches the current source.
	Unload() error

	Play() error
	Pause() error

	// Seek moves to an absolute position in seconds. Seeks issued before
	// the source reports metadata are applied once it does.
	Seek(seconds float64) error

	// SetVolume sets the volume in [0,1].
	SetVolume(v float64) error

	SetPlaybackRate(r float64) error

	CurrentTime() float64
	Duration() float64
	Paused() bool

	// AddTextTrack registers an external text track with the element. It
	// shows up in TextTracks once the element enumerated it.
	AddTextTrack(d track.Descriptor) error

	// TextTracks re-reads the element's text track list.
	TextTracks() []track.Runtime
	SetTextTrackMode(index int, mode track.Mode) error

	// Subscribe registers fn for every event and returns its cancellation.
	Subscribe(fn func(Event)) (unsubscribe func())

	// Close terminates the backend and releases its resources.
	Close() error
}

// Chapter is a named timeline mark.
type Chapter struct {
	Title string
	Time  float64
}

// ChapterMarker is implemented by elements that can show chapter marks.
type ChapterMarker interface {
	MarkChapters(chapters []Chapter) error
}

// CaptionPositioner is implemented by elements that can lift captions above
// the control overlay. The offset is in percent of the surface height.
type CaptionPositioner interface {
	SetCaptionOffset(offset float64) error
}

// BrightnessController is implemented by elements with a video equalizer.
// Level is in [0,1] where 0.5 is neutral.
type BrightnessController interface {
	SetBrightness(level float64) error
}

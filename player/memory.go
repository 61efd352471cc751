package player

import (
	"errors"
	"sync"

	"github.com/anisan-cli/playcore/track"
	"github.com/anisan-cli/playcore/util"
	"github.com/samber/mo"
)

// ErrClosed is returned by operations on a closed element.
var ErrClosed = errors.New("media element closed")

// Memory is an in-memory Element. Events are raised synchronously on the
// goroutine driving it through the simulation methods.
type Memory struct {
	mu  sync.Mutex
	hub hub

	// PlayErr, when set, is returned by Play to simulate a rejected
	// playback request.
	PlayErr error

	source     string
	title      string
	headers    map[string]string
	loaded     bool
	closed     bool
	time       float64
	duration   float64
	volume     float64
	rate       float64
	paused     bool
	fullscreen bool
	pending    mo.Option[float64]
	added      []track.Descriptor
	tracks     []track.Runtime
	chapters   []Chapter
	offset     float64
	brightness float64
	seeks      []float64
	plays      int
}

// NewMemory returns a paused, empty element.
func NewMemory() *Memory {
	return &Memory{paused: true, volume: 1, rate: 1, brightness: 0.5, pending: mo.None[float64]()}
}

func (m *Memory) Load(url, title string, headers map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.source, m.title, m.headers = url, title, headers
	m.loaded, m.time, m.duration, m.paused = false, 0, 0, true
	m.pending = mo.None[float64]()
	m.added, m.tracks = nil, nil
	return nil
}

func (m *Memory) Unload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source, m.loaded = "", false
	return nil
}

func (m *Memory) Play() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.plays++
	if m.PlayErr != nil {
		err := m.PlayErr
		m.mu.Unlock()
		return err
	}
	m.paused = false
	t := m.time
	m.mu.Unlock()

	m.hub.emit(Event{Kind: EventPlay, Time: t})
	return nil
}

func (m *Memory) Pause() error {
	m.mu.Lock()
	m.paused = true
	t := m.time
	m.mu.Unlock()

	m.hub.emit(Event{Kind: EventPause, Time: t})
	return nil
}

func (m *Memory) Seek(seconds float64) error {
	m.mu.Lock()
	if !m.loaded {
		m.pending = mo.Some(seconds)
		m.mu.Unlock()
		return nil
	}
	m.time = seconds
	m.seeks = append(m.seeks, seconds)
	m.mu.Unlock()

	m.hub.emit(Event{Kind: EventSeeked, Time: seconds})
	return nil
}

func (m *Memory) SetVolume(v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = util.Clamp(v, 0, 1)
	return nil
}

func (m *Memory) SetPlaybackRate(r float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = r
	return nil
}

func (m *Memory) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *Memory) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Memory) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Memory) AddTextTrack(d track.Descriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, d)
	return nil
}

func (m *Memory) TextTracks() []track.Runtime {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]track.Runtime(nil), m.tracks...)
}

func (m *Memory) SetTextTrackMode(index int, mode track.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.tracks) {
		return errors.New("text track index out of range")
	}
	m.tracks[index].Mode = mode
	return nil
}

func (m *Memory) Subscribe(fn func(Event)) func() {
	return m.hub.subscribe(fn)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// RequestFullscreen implements screen.StandardFullscreen.
func (m *Memory) RequestFullscreen() error {
	m.setFullscreen(true)
	return nil
}

// ExitFullscreen implements screen.StandardFullscreen.
func (m *Memory) ExitFullscreen() error {
	m.setFullscreen(false)
	return nil
}

// IsFullscreen implements screen.StandardFullscreen.
func (m *Memory) IsFullscreen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fullscreen
}

func (m *Memory) setFullscreen(v bool) {
	m.mu.Lock()
	m.fullscreen = v
	t := m.time
	m.mu.Unlock()
	m.hub.emit(Event{Kind: EventFullscreenChanged, Time: t})
}

func (m *Memory) MarkChapters(chapters []Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chapters = chapters
	return nil
}

func (m *Memory) SetCaptionOffset(offset float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = offset
	return nil
}

func (m *Memory) SetBrightness(level float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brightness = level
	return nil
}

// Simulation - these methods drive the element the way a real backend would.

// LoadMetadata reports the source as ready with the given duration. Tracks
// registered with AddTextTrack are enumerated, and a pending seek applied.
func (m *Memory) LoadMetadata(duration float64) {
	m.mu.Lock()
	m.loaded, m.duration = true, duration
	for _, d := range m.added {
		m.tracks = append(m.tracks, track.Runtime{Label: d.Label, Language: d.Language, Kind: d.Kind})
	}
	if seek, ok := m.pending.Get(); ok {
		m.time = seek
		m.seeks = append(m.seeks, seek)
		m.pending = mo.None[float64]()
	}
	t := m.time
	m.mu.Unlock()

	m.hub.emit(Event{Kind: EventLoadedMetadata, Time: t})
}

// Tick advances the playback position and raises a time update.
func (m *Memory) Tick(t float64) {
	m.mu.Lock()
	m.time = t
	m.mu.Unlock()
	m.hub.emit(Event{Kind: EventTimeUpdate, Time: t})
}

// SetTracks replaces the enumerated text tracks.
func (m *Memory) SetTracks(tracks []track.Runtime) {
	m.mu.Lock()
	m.tracks = append([]track.Runtime(nil), tracks...)
	t := m.time
	m.mu.Unlock()
	m.hub.emit(Event{Kind: EventTracksChanged, Time: t})
}

// Stall raises a buffering start or end.
func (m *Memory) Stall(stalled bool) {
	kind := EventPlaying
	if stalled {
		kind = EventWaiting
	}
	m.hub.emit(Event{Kind: kind, Time: m.CurrentTime()})
}

// Fail raises an element error.
func (m *Memory) Fail(err error) {
	m.hub.emit(Event{Kind: EventError, Time: m.CurrentTime(), Err: err})
}

// Inspection - these accessors expose what the element was asked to do.

// Source returns the loaded URL and headers.
func (m *Memory) Source() (string, map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source, m.headers
}

// Seeks returns every applied seek target.
func (m *Memory) Seeks() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seeks...)
}

// Plays returns how many times Play was called.
func (m *Memory) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// Volume returns the current volume.
func (m *Memory) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Rate returns the current playback rate.
func (m *Memory) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

// Chapters returns the marked chapters.
func (m *Memory) Chapters() []Chapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chapters
}

// CaptionOffset returns the caption lift.
func (m *Memory) CaptionOffset() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

// Brightness returns the brightness level.
func (m *Memory) Brightness() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.brightness
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

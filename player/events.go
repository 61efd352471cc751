package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/anisan-cli/playcore/log"
)

// observed lists the properties the listener subscribes to.
var observed = []string{
	"time-pos",
	"pause",
	"duration",
	"paused-for-cache",
	"eof-reached",
	"track-list",
	"fullscreen",
}

// rawEvent is one decoded line of the event stream.
type rawEvent struct {
	Event  string          `json:"event"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

// EventListener reads mpv's event stream over a dedicated connection.
type EventListener struct {
	socketPath string
	conn       net.Conn
	handle     func(rawEvent)
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, handle func(rawEvent)) *EventListener {
	return &EventListener{socketPath: socketPath, handle: handle}
}

// Start opens the event connection, registers the property observers on it
// and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// observers are bound to the connection that registered them
	for i, name := range observed {
		payload, _ := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}, RequestID: int64(-(i + 1))})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the listener.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	el.listening = false
	if el.conn != nil {
		el.conn.Close()
	}
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var ev rawEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil || ev.Event == "" {
			continue
		}
		el.handle(ev)
	}

	if err := scanner.Err(); err != nil {
		log.Warnf("event listener read error: %v", err)
	}
}

// handleEvent updates the cached state from one mpv event and forwards the
// resulting element events.
func (m *MPV) handleEvent(ev rawEvent) {
	events := m.translate(ev)

	if ev.Event == "file-loaded" {
		m.flushPending()
		events = append(events, Event{Kind: EventLoadedMetadata, Time: m.CurrentTime()})
	}

	for _, out := range events {
		m.hub.emit(out)
	}
}

// translate maps an mpv event to element events, updating the cached state.
func (m *MPV) translate(ev rawEvent) []Event {
	m.state.Lock()
	defer m.state.Unlock()

	at := func(k EventKind) Event { return Event{Kind: k, Time: m.pos} }

	switch ev.Event {
	case "property-change":
		return m.propertyChange(ev.Name, ev.Data, at)
	case "file-loaded":
		m.loaded = true
		return nil
	case "seek":
		return nil
	case "playback-restart":
		if !m.loaded {
			return nil
		}
		return []Event{at(EventSeeked)}
	case "end-file":
		m.loaded = false
		if ev.Reason == "error" {
			return []Event{{Kind: EventError, Time: m.pos, Err: fmt.Errorf("mpv could not play the file")}}
		}
		if ev.Reason == "eof" {
			return []Event{at(EventEnded)}
		}
	}
	return nil
}

func (m *MPV) propertyChange(name string, data json.RawMessage, at func(EventKind) Event) []Event {
	switch name {
	case "time-pos":
		var pos float64
		if json.Unmarshal(data, &pos) != nil {
			return nil
		}
		m.pos = pos
		return []Event{at(EventTimeUpdate)}
	case "duration":
		_ = json.Unmarshal(data, &m.duration)
	case "pause":
		var paused bool
		if json.Unmarshal(data, &paused) != nil || paused == m.paused {
			return nil
		}
		m.paused = paused
		if paused {
			return []Event{at(EventPause)}
		}
		return []Event{at(EventPlay)}
	case "paused-for-cache":
		var stalled bool
		if json.Unmarshal(data, &stalled) != nil || stalled == m.stalled {
			return nil
		}
		m.stalled = stalled
		if stalled {
			return []Event{at(EventWaiting)}
		}
		return []Event{at(EventPlaying)}
	case "eof-reached":
		var eof bool
		if json.Unmarshal(data, &eof) == nil && eof {
			return []Event{at(EventEnded)}
		}
	case "track-list":
		tracks, err := parseTrackList(data)
		if err != nil {
			return nil
		}
		m.tracks = tracks
		return []Event{at(EventTracksChanged)}
	case "fullscreen":
		var full bool
		if json.Unmarshal(data, &full) == nil && full != m.fullscreen {
			m.fullscreen = full
			return []Event{at(EventFullscreenChanged)}
		}
	}
	return nil
}

package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anisan-cli/playcore/constant"
	"github.com/anisan-cli/playcore/key"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/track"
	"github.com/anisan-cli/playcore/util"
	"github.com/anisan-cli/playcore/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements Element on top of mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	listener   *EventListener
	hub        hub
	requestID  atomic.Int64

	mu sync.Mutex // serializes socket commands

	state       sync.Mutex // guards the cached fields below
	loaded      bool
	pos         float64
	duration    float64
	paused      bool
	stalled     bool
	fullscreen  bool
	tracks      []mpvTrack
	pendingSeek mo.Option[float64]
	pendingSubs []track.Descriptor
}

// NewMPV creates an MPV element. The process starts on the first Load.
func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)
	return &MPV{exited: exited, paused: true, pendingSeek: mo.None[float64]()}
}

// running reports whether the mpv process is alive.
func (m *MPV) running() bool {
	select {
	case <-m.exited:
		return false
	default:
		return m.socketPath != ""
	}
}

// launch spawns an idle mpv attached to a fresh IPC socket.
func (m *MPV) launch() error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Playcore, randomBytes))

	// Pass only what IPC control needs so the user's mpv.conf keeps
	// deciding video output, profiles and decoding.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
	}

	m.cmd = exec.Command(viper.GetString(key.Player), args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout, m.cmd.Stderr, m.cmd.Stdin = nil, nil, nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exited = exited
	go func() {
		_ = m.cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handleEvent)
	return m.listener.Start()
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Load implements Element.
func (m *MPV) Load(rawURL, title string, headers map[string]string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if !m.running() {
		if err := m.launch(); err != nil {
			return err
		}
	}

	m.state.Lock()
	m.loaded, m.pos, m.duration, m.tracks = false, 0, 0, nil
	m.pendingSeek, m.pendingSubs = mo.None[float64](), nil
	m.state.Unlock()

	if _, err := m.sendCommand("set_property", "http-header-fields", headerFields(headers)); err != nil {
		return fmt.Errorf("set headers: %w", err)
	}
	if t := sanitizeTitle(title); t != "" {
		_, _ = m.sendCommand("set_property", "force-media-title", t)
	}
	// The session starts playback itself once the resume position is set.
	if _, err := m.sendCommand("set_property", "pause", true); err != nil {
		return fmt.Errorf("set pause: %w", err)
	}
	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return fmt.Errorf("loadfile: %w", err)
	}
	return nil
}

// Unload implements Element.
func (m *MPV) Unload() error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand("stop")
	return err
}

// Play implements Element.
func (m *MPV) Play() error {
	return m.Set("pause", false)
}

// Pause implements Element.
func (m *MPV) Pause() error {
	return m.Set("pause", true)
}

// Seek implements Element. Before file-loaded the target is held back and
// applied as soon as mpv reports the file.
func (m *MPV) Seek(seconds float64) error {
	m.state.Lock()
	if !m.loaded {
		m.pendingSeek = mo.Some(seconds)
		m.state.Unlock()
		return nil
	}
	m.state.Unlock()

	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// SetVolume implements Element.
func (m *MPV) SetVolume(v float64) error {
	return m.Set("volume", util.Clamp(v, 0, 1)*100)
}

// SetPlaybackRate implements Element.
func (m *MPV) SetPlaybackRate(r float64) error {
	return m.Set("speed", r)
}

// CurrentTime implements Element.
func (m *MPV) CurrentTime() float64 {
	m.state.Lock()
	defer m.state.Unlock()
	return m.pos
}

// Duration implements Element.
func (m *MPV) Duration() float64 {
	m.state.Lock()
	defer m.state.Unlock()
	return m.duration
}

// Paused implements Element.
func (m *MPV) Paused() bool {
	m.state.Lock()
	defer m.state.Unlock()
	return m.paused
}

// AddTextTrack implements Element. Tracks added before file-loaded are
// queued because mpv rejects sub-add without a file.
func (m *MPV) AddTextTrack(d track.Descriptor) error {
	m.state.Lock()
	if !m.loaded {
		m.pendingSubs = append(m.pendingSubs, d)
		m.state.Unlock()
		return nil
	}
	m.state.Unlock()
	return m.addSub(d)
}

func (m *MPV) addSub(d track.Descriptor) error {
	_, err := m.sendCommand("sub-add", d.File, "auto", sanitizeTitle(d.Label), d.Language)
	return err
}

// TextTracks implements Element.
func (m *MPV) TextTracks() []track.Runtime {
	m.state.Lock()
	defer m.state.Unlock()
	return runtimeTracks(m.tracks)
}

// SetTextTrackMode implements Element.
func (m *MPV) SetTextTrackMode(index int, mode track.Mode) error {
	m.state.Lock()
	if index < 0 || index >= len(m.tracks) {
		m.state.Unlock()
		return fmt.Errorf("text track %d out of range", index)
	}
	t := m.tracks[index]
	m.state.Unlock()

	switch {
	case mode == track.Showing:
		return m.Set("sid", t.ID)
	case t.Selected:
		return m.Set("sid", "no")
	}
	return nil
}

// Subscribe implements Element.
func (m *MPV) Subscribe(fn func(Event)) func() {
	return m.hub.subscribe(fn)
}

// RequestFullscreen implements screen.StandardFullscreen.
func (m *MPV) RequestFullscreen() error {
	return m.Set("fullscreen", true)
}

// ExitFullscreen implements screen.StandardFullscreen.
func (m *MPV) ExitFullscreen() error {
	return m.Set("fullscreen", false)
}

// IsFullscreen implements screen.StandardFullscreen.
func (m *MPV) IsFullscreen() bool {
	m.state.Lock()
	defer m.state.Unlock()
	return m.fullscreen
}

// MarkChapters implements ChapterMarker.
func (m *MPV) MarkChapters(chapters []Chapter) error {
	list := lo.Map(chapters, func(c Chapter, _ int) map[string]any {
		return map[string]any{"title": c.Title, "time": c.Time}
	})
	return m.Set("chapter-list", list)
}

// SetCaptionOffset implements CaptionPositioner using mpv's sub-pos, where
// 100 is the bottom edge.
func (m *MPV) SetCaptionOffset(offset float64) error {
	return m.Set("sub-pos", util.Clamp(100-offset, 0, 150))
}

// SetBrightness implements BrightnessController.
func (m *MPV) SetBrightness(level float64) error {
	return m.Set("brightness", int((util.Clamp(level, 0, 1)-0.5)*200))
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	if m.running() {
		_, _ = m.sendCommand("quit")

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
	}

	if err := os.Remove(m.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set assigns an mpv property.
func (m *MPV) Set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// getFloatProperty retrieves a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}
	return val, nil
}

// flushPending applies what was queued before file-loaded: external
// subtitles first so the seek lands with tracks enumerated.
func (m *MPV) flushPending() {
	m.state.Lock()
	subs, seek := m.pendingSubs, m.pendingSeek
	m.pendingSubs, m.pendingSeek = nil, mo.None[float64]()
	m.state.Unlock()

	for _, d := range subs {
		if err := m.addSub(d); err != nil {
			log.Warnf("adding subtitle track %q: %v", d.Label, err)
		}
	}

	if d, err := m.getFloatProperty("duration"); err == nil {
		m.state.Lock()
		m.duration = d
		m.state.Unlock()
	}

	if target, ok := seek.Get(); ok {
		if _, err := m.sendCommand("seek", target, "absolute"); err != nil {
			log.Warnf("applying pending seek to %.1f: %v", target, err)
			return
		}
		m.state.Lock()
		m.pos = target
		m.state.Unlock()
	}
}

// headerFields renders headers in mpv's "Name: value" list form.
func headerFields(headers map[string]string) []string {
	keys := lo.Keys(headers)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s: %s", k, headers[k])
	})
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not look like flags
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle flattens a title to a single line without NUL bytes.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}

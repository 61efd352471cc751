package screen

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anisan-cli/playcore/clock"
	"github.com/anisan-cli/playcore/log"
)

// DefaultCooldown is the minimum spacing between honoured toggles.
const DefaultCooldown = 800 * time.Millisecond

// Options configure a Manager. Zero values select the defaults.
type Options struct {
	Cooldown time.Duration
	Clock    clock.Clock
	WakeLock WakeLock
}

// Manager owns the fullscreen state and the wake lock of one session.
type Manager struct {
	mu         sync.Mutex
	strategies []strategy
	clock      clock.Clock
	cooldown   time.Duration
	lock       WakeLock

	lastToggle time.Time
	toggled    bool
	playing    bool
	release    func() error
	closed     bool
}

// New creates a manager for host, which may implement any subset of the
// fullscreen interfaces, or none.
func New(host any, opts *Options) *Manager {
	if opts == nil {
		opts = &Options{}
	}
	m := &Manager{
		strategies: strategies(host),
		clock:      opts.Clock,
		cooldown:   opts.Cooldown,
		lock:       opts.WakeLock,
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if m.cooldown <= 0 {
		m.cooldown = DefaultCooldown
	}
	return m
}

// IsFullscreen reports whether any mechanism reports fullscreen.
func (m *Manager) IsFullscreen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isFullscreen()
}

// Toggle enters or leaves fullscreen. Toggles arriving within the cool-down
// of the previous honoured toggle are ignored and report false. The host is
// called without the lock held, so it may report the change synchronously.
func (m *Manager) Toggle() (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, nil
	}
	now := m.clock.Now()
	if m.toggled && now.Sub(m.lastToggle) < m.cooldown {
		m.mu.Unlock()
		return false, nil
	}
	if len(m.strategies) == 0 {
		m.mu.Unlock()
		return false, ErrUnsupported
	}
	m.lastToggle, m.toggled = now, true
	m.mu.Unlock()

	var err error
	if m.isFullscreen() {
		err = m.exit()
	} else {
		err = m.enter()
	}

	m.mu.Lock()
	m.syncWakeLock()
	m.mu.Unlock()
	return err == nil, err
}

// SetPlaying records the playback state, which gates the wake lock.
func (m *Manager) SetPlaying(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = playing
	m.syncWakeLock()
}

// Sync re-evaluates the wake lock after an out-of-band fullscreen change,
// such as the user pressing the host's own fullscreen key.
func (m *Manager) Sync() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncWakeLock()
}

// WakeLocked reports whether the wake lock is held.
func (m *Manager) WakeLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.release != nil
}

// Close releases the wake lock. Fullscreen itself is left to the host.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.releaseLock()
}

func (m *Manager) isFullscreen() bool {
	for _, s := range m.strategies {
		if s.active() {
			return true
		}
	}
	return false
}

func (m *Manager) enter() error {
	var errs []error
	for _, s := range m.strategies {
		err := s.request()
		if err == nil {
			log.Debugf("entered fullscreen via %s mechanism", s.name)
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return fmt.Errorf("enter fullscreen: %w", errors.Join(errs...))
}

func (m *Manager) exit() error {
	var errs []error
	for _, s := range m.strategies {
		if !s.active() {
			continue
		}
		if err := s.exit(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("exit fullscreen: %w", errors.Join(errs...))
	}
	return nil
}

func (m *Manager) syncWakeLock() {
	if m.lock == nil {
		return
	}

	want := !m.closed && m.playing && m.isFullscreen()
	switch {
	case want && m.release == nil:
		release, err := m.lock.Acquire("fullscreen playback")
		if err != nil {
			log.Warnf("wake lock unavailable: %v", err)
			return
		}
		m.release = release
	case !want && m.release != nil:
		if err := m.releaseLock(); err != nil {
			log.Warnf("releasing wake lock: %v", err)
		}
	}
}

func (m *Manager) releaseLock() error {
	if m.release == nil {
		return nil
	}
	release := m.release
	m.release = nil
	return release()
}

// Package idle hides the control overlay after a period without interaction.
package idle

import (
	"sync"
	"time"

	"github.com/anisan-cli/playcore/clock"
)

// DefaultDelay is the auto-hide delay used by Touch.
const DefaultDelay = 3000 * time.Millisecond

// Timer tracks overlay visibility. At most one hide timer is live at any
// time: each re-arm stops the previous timer and bumps a generation counter
// so a callback that already fired but lost the race is ignored.
type Timer struct {
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	onChange func(visible bool)

	visible bool
	closed  bool
	holds   int
	gen     uint64
	pending clock.Timer
}

// New creates a visible overlay timer. onChange, when set, is called outside
// the timer's lock on every visibility transition.
func New(clk clock.Clock, delay time.Duration, onChange func(visible bool)) *Timer {
	if clk == nil {
		clk = clock.New()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Timer{clock: clk, delay: delay, onChange: onChange, visible: true}
}

// Visible reports whether the overlay is shown.
func (t *Timer) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Show reveals the overlay without arming a hide.
func (t *Timer) Show() {
	t.mu.Lock()
	changed := t.setVisible(true)
	t.mu.Unlock()
	t.notify(changed, true)
}

// ScheduleAutoHide arms a hide after d, replacing any pending one. While an
// interaction is in progress the hide is suppressed.
func (t *Timer) ScheduleAutoHide(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.arm(d)
}

// Cancel drops any pending hide.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarm()
}

// Touch shows the overlay and re-arms the default hide.
func (t *Timer) Touch() {
	t.mu.Lock()
	changed := t.setVisible(true)
	t.arm(t.delay)
	t.mu.Unlock()
	t.notify(changed, true)
}

// BeginInteraction keeps the overlay up until the matching EndInteraction.
// Interactions nest.
func (t *Timer) BeginInteraction() {
	t.mu.Lock()
	t.holds++
	t.disarm()
	changed := t.setVisible(true)
	t.mu.Unlock()
	t.notify(changed, true)
}

// EndInteraction releases one hold and re-arms the hide once none remain.
func (t *Timer) EndInteraction() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.holds == 0 {
		return
	}
	t.holds--
	if t.holds == 0 {
		t.arm(t.delay)
	}
}

// Close cancels the pending hide and stops all further scheduling.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarm()
	t.closed = true
}

func (t *Timer) arm(d time.Duration) {
	t.disarm()
	if t.closed || t.holds > 0 {
		return
	}

	gen := t.gen
	t.pending = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		if gen != t.gen || t.holds > 0 || t.closed {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		changed := t.setVisible(false)
		t.mu.Unlock()
		t.notify(changed, false)
	})
}

func (t *Timer) disarm() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Timer) setVisible(v bool) bool {
	if t.visible == v {
		return false
	}
	t.visible = v
	return true
}

func (t *Timer) notify(changed, visible bool) {
	if changed && t.onChange != nil {
		t.onChange(visible)
	}
}

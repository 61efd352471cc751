package session

import (
	"sync"

	"github.com/anisan-cli/playcore/log"
	"github.com/google/uuid"
)

// outbox collects the side effects of a locked update. Signals are
// delivered first, then commands run in order, all after the lock is
// released. Commands stop as soon as their session is no longer current.
type outbox struct {
	signals  []Signal
	commands []command
}

type command struct {
	name string
	run  func() error
	// quiet errors are logged at debug level.
	quiet bool
}

func (o *outbox) emit(kind SignalKind, t float64) {
	o.signals = append(o.signals, Signal{Kind: kind, Time: t})
}

func (o *outbox) do(name string, run func() error) {
	o.commands = append(o.commands, command{name: name, run: run})
}

func (o *outbox) try(name string, run func() error) {
	o.commands = append(o.commands, command{name: name, run: run, quiet: true})
}

// update runs fn on the session token names, if it is still current.
func (c *Controller) update(token uuid.UUID, fn func(s *state, o *outbox)) bool {
	var o outbox

	c.mu.Lock()
	s := c.sess
	if s == nil || s.token != token {
		c.mu.Unlock()
		return false
	}
	fn(s, &o)
	c.mu.Unlock()

	c.flush(token, &o)
	return true
}

// current runs fn on the current session. It returns ErrNoSession when
// there is none and the controller is strict.
func (c *Controller) current(fn func(s *state, o *outbox) error) error {
	var o outbox

	c.mu.Lock()
	s := c.sess
	if s == nil {
		c.mu.Unlock()
		if c.cfg.Strict {
			return ErrNoSession
		}
		return nil
	}
	token := s.token
	err := fn(s, &o)
	c.mu.Unlock()

	c.flush(token, &o)
	return err
}

func (c *Controller) flush(token uuid.UUID, o *outbox) {
	c.notifySignals(o.signals)
	for i, cmd := range o.commands {
		if !c.live(token) {
			log.Debugf("session %s: dropping %d commands after close", token, len(o.commands)-i)
			return
		}
		if err := cmd.run(); err != nil {
			if cmd.quiet {
				log.Debugf("%s: %v", cmd.name, err)
			} else {
				log.Warnf("%s: %v", cmd.name, err)
			}
		}
	}
}

// live reports whether token still names the current session.
func (c *Controller) live(token uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil && c.sess.token == token
}

func (c *Controller) notifySignals(signals []Signal) {
	for _, sig := range signals {
		c.signals.emit(sig)
	}
}

// signalHub fans signals out in subscription order.
type signalHub struct {
	mu   sync.Mutex
	seq  int
	subs []subscriber
}

type subscriber struct {
	id int
	fn func(Signal)
}

func (h *signalHub) subscribe(fn func(Signal)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	id := h.seq
	h.subs = append(h.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, sub := range h.subs {
				if sub.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (h *signalHub) emit(sig Signal) {
	h.mu.Lock()
	subs := append([]subscriber(nil), h.subs...)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.fn(sig)
	}
}

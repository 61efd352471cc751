package player

import (
	"sync"

	"golang.org/x/exp/slices"
)

// hub fans events out to subscribers. Subscribers are invoked outside the
// lock so they may subscribe or unsubscribe from the callback.
type hub struct {
	mu   sync.Mutex
	seq  int
	subs map[int]func(Event)
}

func (h *hub) subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	h.seq++
	id := h.seq
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) emit(ev Event) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	// deliver in subscription order
	slices.Sort(ids)
	for _, id := range ids {
		h.mu.Lock()
		fn, ok := h.subs[id]
		h.mu.Unlock()
		if ok {
			fn(ev)
		}
	}
}

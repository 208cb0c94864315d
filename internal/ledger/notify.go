package ledger

import "sync"

// Hub routes change announcements to snapshot subscribers, indexed by
// userKey. Sends never block: each subscriber has a one-slot wake channel,
// so a burst of mutations coalesces into a single wake and the subscriber
// reads one fresh snapshot that covers all of them.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Register attaches a subscriber for userKey and returns its wake channel
// together with a detach function. Detach is idempotent.
func (h *Hub) Register(userKey string) (wake <-chan struct{}, detach func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	set, ok := h.subs[userKey]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.subs[userKey] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[userKey]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, userKey)
				}
			}
		})
	}
}

// Notify wakes every subscriber currently registered for userKey.
func (h *Hub) Notify(userKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[userKey] {
		select {
		case ch <- struct{}{}:
		default: // wake already pending, coalesce
		}
	}
}

// Subscribers reports how many subscribers are attached for userKey.
func (h *Hub) Subscribers(userKey string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userKey])
}

package kv

import (
	"sync"
)

// subscriberBuffer bounds pending notifications per subscriber. Subscribers
// reload the whole dataset, so one queued change is as good as many.
const subscriberBuffer = 16

// hub fans changes out to in-process subscribers.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Change)}
}

func (h *hub) publish(change Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- change:
		default:
			// Subscriber is behind; it already has a reload pending.
		}
	}
}

func (h *hub) subscribe() *hubSubscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Change, subscriberBuffer)
	h.subs[id] = ch
	return &hubSubscription{hub: h, id: id, ch: ch}
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

type hubSubscription struct {
	hub  *hub
	id   int
	ch   chan Change
	once sync.Once
}

func (s *hubSubscription) Changes() <-chan Change { return s.ch }

func (s *hubSubscription) Close() error {
	s.once.Do(func() { s.hub.unsubscribe(s.id) })
	return nil
}

// process-wide hubs for backends that have no native notification,
// so two views opened on the same database inside one process still see each other.
var (
	sharedHubsMu sync.Mutex
	sharedHubs   = make(map[string]*hub)
)

func sharedHub(key string) *hub {
	sharedHubsMu.Lock()
	defer sharedHubsMu.Unlock()

	h, ok := sharedHubs[key]
	if !ok {
		h = newHub()
		sharedHubs[key] = h
	}
	return h
}

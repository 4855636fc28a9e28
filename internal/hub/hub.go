package hub

import "sync"

const subscriberBuffer = 16

// Hub fans broadcast messages out to every registered display client.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan string
}

func New() *Hub {
	return &Hub{subscribers: make(map[string]chan string)}
}

// Subscribe registers a client channel under id. Subscribing an id that
// is already registered returns the existing channel.
func (h *Hub) Subscribe(id string) <-chan string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		return ch
	}
	ch := make(chan string, subscriberBuffer)
	h.subscribers[id] = ch
	return ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Broadcast delivers msg to every current subscriber. A subscriber whose
// buffer is full is skipped so one stalled client cannot block the rest.
func (h *Hub) Broadcast(msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}

package transfer

import (
	"sync"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// Hub fans snapshots out to subscribers. A subscriber that falls behind
// loses older snapshots but always receives the latest one.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan domain.Snapshot
	nextID int
	buffer int
}

// NewHub creates a Hub whose subscriber channels hold up to buffer snapshots
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[int]chan domain.Snapshot),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe() (<-chan domain.Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan domain.Snapshot, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the snapshot to every subscriber without blocking
func (h *Hub) Publish(snapshot domain.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- snapshot:
		default:
			// Full: drop the oldest queued snapshot to make room
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Len returns the number of active subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

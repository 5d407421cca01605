// Package stream fans ranked hazard views out to connected subscribers.
package stream

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
)

const DefaultBuffer = 16

// Update is published whenever the ranked view is recomputed.
type Update struct {
	Location models.UserLocation `json:"location"`
	View     ranking.View        `json:"view"`
	Source   string              `json:"source"`
	RankedAt time.Time           `json:"ranked_at"`
}

// Hub delivers updates to every subscriber without blocking on slow readers.
type Hub struct {
	buffer  int
	onCount func(int)

	mu          sync.RWMutex
	subscribers map[uint64]chan Update
	nextID      atomic.Uint64
	dropped     atomic.Uint64
}

// NewHub creates a hub whose subscriber channels hold buffer updates.
// onCount, if set, is called with the subscriber count after each change.
func NewHub(buffer int, onCount func(int)) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer:      buffer,
		onCount:     onCount,
		subscribers: make(map[uint64]chan Update),
	}
}

func (h *Hub) Subscribe() (uint64, <-chan Update) {
	id := h.nextID.Add(1)
	ch := make(chan Update, h.buffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	n := len(h.subscribers)
	h.mu.Unlock()

	h.notify(n)
	return id, ch
}

func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	if ok {
		close(ch)
		delete(h.subscribers, id)
	}
	n := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		h.notify(n)
	}
}

// Publish sends u to every subscriber. Subscribers with a full buffer miss it.
func (h *Hub) Publish(u Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- u:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped is the number of deliveries skipped because a subscriber was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close closes every subscriber channel so stream handlers can return.
func (h *Hub) Close() {
	h.mu.Lock()
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	h.notify(0)
}

func (h *Hub) notify(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

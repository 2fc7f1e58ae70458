package events

import (
	"log/slog"
	"sync"
)

const DefaultOutboxCapacity = 1024

// Outbox buffers events between the request path and the dispatch worker.
// When full, the oldest event is dropped.
type Outbox struct {
	mu       sync.Mutex
	events   []Event
	capacity int
}

func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = DefaultOutboxCapacity
	}
	return &Outbox{capacity: capacity}
}

func (o *Outbox) Add(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.events) >= o.capacity {
		slog.Warn("outbox full, dropping oldest event", "event_id", o.events[0].ID, "type", o.events[0].Type)
		o.events = o.events[1:]
	}
	o.events = append(o.events, e)
}

// Take removes and returns up to n events in insertion order.
func (o *Outbox) Take(n int) []Event {
	o.mu.Lock()
	defer o.mu.Unlock()

	if n > len(o.events) {
		n = len(o.events)
	}
	batch := make([]Event, n)
	copy(batch, o.events[:n])
	o.events = o.events[n:]
	return batch
}

// Requeue puts a failed batch back at the head of the outbox.
func (o *Outbox) Requeue(batch []Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	merged := make([]Event, 0, len(batch)+len(o.events))
	merged = append(merged, batch...)
	merged = append(merged, o.events...)
	if over := len(merged) - o.capacity; over > 0 {
		slog.Warn("outbox full on requeue, dropping oldest events", "dropped", over)
		merged = merged[over:]
	}
	o.events = merged
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

package listview

import (
	"context"
	"sync"
	"time"
)

// EventType classifies controller state changes.
type EventType string

const (
	EventLoading      EventType = "loading"
	EventLoaded       EventType = "loaded"
	EventLoadFailed   EventType = "load_failed"
	EventStale        EventType = "stale_discarded"
	EventModalChanged EventType = "modal_changed"
	EventMutated      EventType = "mutated"
	EventMutateFailed EventType = "mutate_failed"
)

// ViewEvent describes a state change of one controller.
type ViewEvent struct {
	Kind       EntityKind     `json:"kind"`
	Type       EventType      `json:"type"`
	Generation uint64         `json:"generation"`
	Count      int            `json:"count,omitempty"`
	Modal      Modal          `json:"modal,omitempty"`
	RecordID   string         `json:"record_id,omitempty"`
	Message    string         `json:"message,omitempty"`
	At         time.Time      `json:"at"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// EventHook is notified after every controller transition.
type EventHook interface {
	ViewChanged(ctx context.Context, event ViewEvent) error
}

type noopHook struct{}

func (noopHook) ViewChanged(context.Context, ViewEvent) error { return nil }

// BroadcastHook fans out view events to in-process subscribers.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]chan ViewEvent
	next int
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]chan ViewEvent)}
}

// ViewChanged broadcasts the event. Slow subscribers miss events.
func (h *BroadcastHook) ViewChanged(_ context.Context, event ViewEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of view events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan ViewEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan ViewEvent, 16)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Package events carries one-way observability events out of the AI core.
// Emission never feeds back into control flow.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Well-known event names emitted by the AI coordinator.
const (
	AIEntityAdded   = "ai:entityAdded"
	AIEntityRemoved = "ai:entityRemoved"
	AITick          = "ai:tick"
)

// Event is one emitted observability record.
type Event struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// Emitter is the narrow surface the AI core emits through.
type Emitter interface {
	Emit(name string, payload map[string]any)
}

// Handler consumes events delivered by a Bus.
type Handler func(Event)

// Bus is an in-process emitter with per-name and catch-all subscribers and
// a bounded history of recent events. Delivery is synchronous and in
// subscription order.
type Bus struct {
	byName  map[string][]Handler
	all     []Handler
	history []Event
	keep    int
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewBus creates a bus retaining up to keep recent events (0 disables
// history).
func NewBus(keep int, logger *zap.Logger) *Bus {
	return &Bus{
		byName: make(map[string][]Handler),
		keep:   keep,
		logger: logger,
	}
}

// Subscribe registers a handler for one event name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byName[name] = append(b.byName[name], h)
}

// SubscribeAll registers a handler for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Emit implements Emitter.
func (b *Bus) Emit(name string, payload map[string]any) {
	ev := Event{Name: name, Payload: payload, At: time.Now()}

	b.mu.Lock()
	if b.keep > 0 {
		b.history = append(b.history, ev)
		if len(b.history) > b.keep {
			b.history = b.history[len(b.history)-b.keep:]
		}
	}
	handlers := make([]Handler, 0, len(b.byName[name])+len(b.all))
	handlers = append(handlers, b.byName[name]...)
	handlers = append(handlers, b.all...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// History returns up to limit recent events, newest last.
func (b *Bus) History(limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 || limit > len(b.history) {
		limit = len(b.history)
	}
	out := make([]Event, limit)
	copy(out, b.history[len(b.history)-limit:])
	return out
}

package events

import (
	"sync"

	"github.com/teamarr/teamarr/internal/telemetry"
)

// Handler processes an event. Returning an error logs it but does not
// stop dispatch.
type Handler func(Event) error

// Bus is a synchronous in-process event bus. Subscribers run in
// registration order on the publisher's goroutine; handlers that need
// async processing should hand off to their own channel.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type. The status
// feed uses this to mirror the whole progress stream.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish dispatches an event to its type's handlers, then to the
// wildcard handlers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	typed := b.handlers[e.Type]
	all := b.all
	b.mu.RUnlock()

	for _, h := range typed {
		if err := h(e); err != nil {
			telemetry.Warnf("events: %s handler: %v", e.Type, err)
		}
	}
	for _, h := range all {
		if err := h(e); err != nil {
			telemetry.Warnf("events: wildcard handler: %v", err)
		}
	}
}

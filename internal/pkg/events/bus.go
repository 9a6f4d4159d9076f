package events

import (
	"context"
	"log/slog"
	"sync"
)

// Event is a domain fact published after a successful commit.
type Event interface {
	Name() string
}

// Handler consumes an event. Handlers must be idempotent: the same
// event can legitimately be published more than once for one change.
type Handler func(ctx context.Context, e Event)

// Bus is a synchronous in-process dispatcher. Registration happens at
// wiring time; Publish fans out in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for the named event.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
	slog.Debug("Event handler registered", "event", name)
}

// Publish delivers the event to every registered handler, recovering
// handler panics so one consumer cannot take down the publisher.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	hs := b.handlers[e.Name()]
	b.mu.RUnlock()

	for _, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Event handler panicked", "event", e.Name(), "panic", r)
				}
			}()
			h(ctx, e)
		}()
	}
}

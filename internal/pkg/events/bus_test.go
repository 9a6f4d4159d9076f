package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_FanOutInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.Subscribe("thing.changed", func(_ context.Context, _ Event) { order = append(order, "first") })
	bus.Subscribe("thing.changed", func(_ context.Context, _ Event) { order = append(order, "second") })
	bus.Subscribe("other.changed", func(_ context.Context, _ Event) { order = append(order, "wrong") })

	bus.Publish(context.Background(), testEvent{name: "thing.changed"})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	var reached bool

	bus.Subscribe("thing.changed", func(_ context.Context, _ Event) { panic("boom") })
	bus.Subscribe("thing.changed", func(_ context.Context, _ Event) { reached = true })

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), testEvent{name: "thing.changed"})
	})
	assert.True(t, reached)
}

func TestBus_NoHandlersIsANoOp(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), testEvent{name: "unheard"})
	})
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChangeBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewChangeBus()
	events, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(Event{Kind: EventMessage, ChatID: "a-b"})

	select {
	case ev := <-events:
		require.Equal(t, EventMessage, ev.Kind)
		require.Equal(t, "a-b", ev.ChatID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestChangeBus_CancelUnregisters(t *testing.T) {
	t.Parallel()

	bus := NewChangeBus()
	_, cancel := bus.Subscribe()
	require.Equal(t, 1, bus.SubscriberCount())

	cancel()
	cancel() // idempotent
	require.Equal(t, 0, bus.SubscriberCount())
}

func TestChangeBus_SlowConsumerDropsOldest(t *testing.T) {
	t.Parallel()

	bus := NewChangeBus()
	events, cancel := bus.Subscribe()
	defer cancel()

	// Overflow the buffer; Publish must never block.
	for i := 0; i < 100; i++ {
		bus.Publish(Event{Kind: EventChat, ChatID: "a-b"})
	}

	// The channel still holds the most recent events.
	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("no event available after overflow")
	}
}

func TestEvent_Concerns(t *testing.T) {
	t.Parallel()

	ev := Event{Kind: EventMembership, ChatID: "a-b", Users: []string{"alice", "bob"}}
	require.True(t, ev.Concerns("alice"))
	require.False(t, ev.Concerns("carol"))
}

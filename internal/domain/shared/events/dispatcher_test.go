package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	eventType   string
	aggregateID string
}

func (e testEvent) GetAggregateID() string   { return e.aggregateID }
func (e testEvent) GetEventType() string     { return e.eventType }
func (e testEvent) GetOccurredAt() time.Time { return time.Now() }
func (e testEvent) GetVersion() int          { return 1 }

func waitForEvent(t *testing.T, ch <-chan DomainEvent) DomainEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
		return nil
	}
}

func TestDispatcher_PublishBeforeStart(t *testing.T) {
	d := NewInMemoryEventDispatcher(10)
	err := d.Publish(testEvent{eventType: "test.event"})
	assert.Error(t, err)
}

func TestDispatcher_DeliversToSubscribedHandler(t *testing.T) {
	d := NewInMemoryEventDispatcher(10)
	require.NoError(t, d.Start())
	defer d.Stop()

	received := make(chan DomainEvent, 1)
	handler := NewSimpleEventHandler("test.event", func(e DomainEvent) error {
		received <- e
		return nil
	})
	require.NoError(t, d.Subscribe("test.event", handler))

	require.NoError(t, d.Publish(testEvent{eventType: "test.event", aggregateID: "agg-1"}))

	event := waitForEvent(t, received)
	assert.Equal(t, "agg-1", event.GetAggregateID())
}

func TestDispatcher_IgnoresOtherEventTypes(t *testing.T) {
	d := NewInMemoryEventDispatcher(10)
	require.NoError(t, d.Start())
	defer d.Stop()

	received := make(chan DomainEvent, 1)
	handler := NewSimpleEventHandler("wanted.event", func(e DomainEvent) error {
		received <- e
		return nil
	})
	require.NoError(t, d.Subscribe("wanted.event", handler))

	require.NoError(t, d.Publish(testEvent{eventType: "other.event"}))
	require.NoError(t, d.Publish(testEvent{eventType: "wanted.event", aggregateID: "agg-2"}))

	event := waitForEvent(t, received)
	assert.Equal(t, "wanted.event", event.GetEventType())

	select {
	case extra := <-received:
		t.Fatalf("unexpected extra delivery: %s", extra.GetEventType())
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewInMemoryEventDispatcher(10)
	require.NoError(t, d.Start())
	defer d.Stop()

	received := make(chan DomainEvent, 1)
	handler := NewSimpleEventHandler("test.event", func(e DomainEvent) error {
		received <- e
		return nil
	})
	require.NoError(t, d.Subscribe("test.event", handler))
	require.NoError(t, d.Unsubscribe("test.event", handler))

	require.NoError(t, d.Publish(testEvent{eventType: "test.event"}))

	select {
	case <-received:
		t.Fatal("handler should not receive events after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcher_SubscribeValidation(t *testing.T) {
	d := NewInMemoryEventDispatcher(10)

	assert.Error(t, d.Subscribe("", NewSimpleEventHandler("x", nil)))
	assert.Error(t, d.Subscribe("test.event", nil))
}

func TestDispatcher_StartStopLifecycle(t *testing.T) {
	d := NewInMemoryEventDispatcher(10)

	require.NoError(t, d.Start())
	assert.Error(t, d.Start(), "double start must fail")

	require.NoError(t, d.Stop())
	assert.Error(t, d.Stop(), "double stop must fail")
}

package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) handledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	t.Run("delivers event to subscribed handler", func(t *testing.T) {
		handler := newTestHandler("test.created")
		bus.Subscribe(handler)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		bus.Wait()

		assert.Equal(t, 1, handler.handledCount())
		bus.Unsubscribe(handler)
	})

	t.Run("does not deliver to unrelated handler", func(t *testing.T) {
		handler := newTestHandler("test.created")
		bus.Subscribe(handler)

		err := bus.Publish(ctx, newTestEvent("test.deleted"))
		require.NoError(t, err)
		bus.Wait()

		assert.Equal(t, 0, handler.handledCount())
		bus.Unsubscribe(handler)
	})

	t.Run("publish returns before handlers complete", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		slow := &blockingHandler{eventTypes: []string{"test.slow"}, started: started, release: release}
		bus.Subscribe(slow)

		err := bus.Publish(ctx, newTestEvent("test.slow"))
		require.NoError(t, err)

		// The handler is still blocked; publishing already returned.
		<-started
		close(release)
		bus.Wait()
		bus.Unsubscribe(slow)
	})

	t.Run("handler error does not fail publish", func(t *testing.T) {
		handler := newTestHandler("test.created")
		handler.err = errors.New("handler boom")
		bus.Subscribe(handler)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		bus.Wait()

		assert.Equal(t, 1, handler.handledCount())
		bus.Unsubscribe(handler)
	})

	t.Run("handler panic does not fail publish", func(t *testing.T) {
		panicking := &panickingHandler{eventTypes: []string{"test.created"}}
		bus.Subscribe(panicking)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		bus.Wait()
		bus.Unsubscribe(panicking)
	})

	t.Run("delivers one event to multiple handlers", func(t *testing.T) {
		h1 := newTestHandler("test.created")
		h2 := newTestHandler("test.created")
		bus.Subscribe(h1)
		bus.Subscribe(h2)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		bus.Wait()

		assert.Equal(t, 1, h1.handledCount())
		assert.Equal(t, 1, h2.handledCount())
		bus.Unsubscribe(h1)
		bus.Unsubscribe(h2)
	})
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))

	handler := newTestHandler("test.created")
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(ctx, newTestEvent("test.created")))

	// Stop waits for the in-flight dispatch.
	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	assert.Equal(t, 1, handler.handledCount())
}

type blockingHandler struct {
	eventTypes []string
	started    chan struct{}
	release    chan struct{}
	once       sync.Once
}

func (h *blockingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.once.Do(func() { close(h.started) })
	<-h.release
	return nil
}

func (h *blockingHandler) EventTypes() []string {
	return h.eventTypes
}

type panickingHandler struct {
	eventTypes []string
}

func (h *panickingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	panic("handler exploded")
}

func (h *panickingHandler) EventTypes() []string {
	return h.eventTypes
}

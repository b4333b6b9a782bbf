package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hotelier/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// dispatchTimeout bounds one handler invocation after the publishing
// request has already returned
const dispatchTimeout = 30 * time.Second

// InMemoryEventBus implements EventBus with in-process pub/sub.
// Publishing is fire-and-forget: handlers run on their own goroutines so
// a slow balance recomputation never blocks the mutation that caused it.
// Handler errors are logged, never surfaced to the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish dispatches events to all registered handlers asynchronously.
// It never returns a handler error; once the bus accepts the events the
// publisher is done with them.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		handlers := b.registry.GetHandlers(event.EventType())

		for _, handler := range handlers {
			b.wg.Add(1)
			go func(handler shared.EventHandler, event shared.DomainEvent) {
				defer b.wg.Done()

				// Detach from the publisher's context: the mutation request
				// may complete before the handler runs.
				hctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
				defer cancel()

				if err := b.dispatchToHandler(hctx, handler, event); err != nil {
					b.logger.Error("handler failed to process event",
						zap.String("event_type", event.EventType()),
						zap.String("event_id", event.EventID().String()),
						zap.Error(err),
					)
				}
			}(handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop waits for in-flight handlers to finish
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("event bus stopped with handlers still in flight")
		return ctx.Err()
	}

	b.logger.Info("event bus stopped")
	return nil
}

// dispatchToHandler invokes a handler, converting panics into logged errors
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

// Wait blocks until all in-flight handlers have finished. Test helper.
func (b *InMemoryEventBus) Wait() {
	b.wg.Wait()
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)

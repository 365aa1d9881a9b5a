// Package messaging delivers domain events to in-process subscribers.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/ports"
	"github.com/nate123456/proof-editor-sub008/domain/events"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

// EventBus is an in-memory event bus for single-instance deployments.
// Delivery is synchronous and in publish order, so subscribers observe a
// document's events in version order. Handler pointers must be comparable
// for Unsubscribe to find them.
type EventBus struct {
	handlers map[string][]ports.EventHandler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewEventBus creates a new event bus instance
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		handlers: make(map[string][]ports.EventHandler),
		logger:   logger,
	}
}

var _ ports.EventBus = (*EventBus)(nil)

// Subscribe registers a handler for an event type
func (eb *EventBus) Subscribe(eventType string, handler ports.EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("Event handler subscribed",
		zap.String("event_type", eventType),
		zap.Int("total_handlers", len(eb.handlers[eventType])))
	return nil
}

// Unsubscribe removes a handler from an event type
func (eb *EventBus) Unsubscribe(eventType string, handler ports.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			eb.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("handler not subscribed to %s", eventType)
}

// Publish delivers one event to every interested handler. Every handler runs
// even when an earlier one fails; the failures are joined.
func (eb *EventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	eventType := event.GetEventType()

	eb.mu.RLock()
	handlers := make([]ports.EventHandler, 0, len(eb.handlers[eventType])+len(eb.handlers[AllEvents]))
	handlers = append(handlers, eb.handlers[eventType]...)
	handlers = append(handlers, eb.handlers[AllEvents]...)
	eb.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if !handler.CanHandle(eventType) {
			continue
		}
		if err := handler.Handle(ctx, event); err != nil {
			eb.logger.Error("Event handler failed",
				zap.String("event_type", eventType),
				zap.String("aggregate_id", event.GetAggregateID()),
				zap.Int("version", event.GetVersion()),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishBatch delivers events in order. Delivery stops early only when the
// context is done.
func (eb *EventBus) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	var errs []error
	for _, event := range batch {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := eb.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetHandlerCount returns the number of handlers for a given event type
func (eb *EventBus) GetHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.handlers[eventType])
}

package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/ports"
	"github.com/nate123456/proof-editor-sub008/domain/events"
)

// EventLogger writes one debug line per published event
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger creates an event logger
func NewEventLogger(logger *zap.Logger) *EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLogger{logger: logger}
}

var _ ports.EventHandler = (*EventLogger)(nil)

// Handle logs the event
func (l *EventLogger) Handle(ctx context.Context, event events.DomainEvent) error {
	l.logger.Debug("Domain event",
		zap.String("event_type", event.GetEventType()),
		zap.String("document_id", event.GetAggregateID()),
		zap.Int("version", event.GetVersion()),
	)
	return nil
}

// CanHandle accepts every event type
func (l *EventLogger) CanHandle(eventType string) bool {
	return true
}

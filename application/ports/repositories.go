package ports

import (
	"context"

	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/events"
)

// DocumentRepository defines the interface for proof document persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation.
type DocumentRepository interface {
	// Create stores a new document; it fails if the id is already taken
	Create(ctx context.Context, doc *aggregates.ProofAggregate) error

	// GetByID loads and re-validates a document
	GetByID(ctx context.Context, id valueobjects.DocumentID) (*aggregates.ProofAggregate, error)

	// Version returns the stored version without loading the document
	Version(ctx context.Context, id valueobjects.DocumentID) (int, error)

	// Save replaces the stored document if it is still at expectedVersion
	Save(ctx context.Context, doc *aggregates.ProofAggregate, expectedVersion int) error

	// Delete removes a document
	Delete(ctx context.Context, id valueobjects.DocumentID) error

	// List returns stored document summaries in creation order
	List(ctx context.Context, offset, limit int) ([]DocumentSummary, int, error)
}

// DocumentSummary is the listing shape of a stored document
type DocumentSummary struct {
	ID             valueobjects.DocumentID `json:"id"`
	Version        int                     `json:"version"`
	StatementCount int                     `json:"statement_count"`
	ArgumentCount  int                     `json:"argument_count"`
	TreeCount      int                     `json:"tree_count"`
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type; "*" receives every event
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler
	Unsubscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

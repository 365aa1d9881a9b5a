package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields. Version is the document
// version produced by the mutation that raised the event.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(documentID, eventType string, version int, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: documentID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     version,
	}
}

// Event type names
const (
	TypeStatementCreated      = "statement.created"
	TypeStatementEdited       = "statement.edited"
	TypeStatementRemoved      = "statement.removed"
	TypeArgumentCreated       = "argument.created"
	TypeArgumentStatementsSet = "argument.statements_updated"
	TypeArgumentSideLabelsSet = "argument.side_labels_updated"
	TypeArgumentRemoved       = "argument.removed"
	TypeTreeCreated           = "tree.created"
	TypeTreeMoved             = "tree.moved"
	TypeTreeRemoved           = "tree.removed"
	TypeNodeAttached          = "node.attached"
	TypeNodeDetached          = "node.detached"
	TypeNodeReattached        = "node.reattached"
)

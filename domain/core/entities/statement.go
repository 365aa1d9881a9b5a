package entities

import (
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// Statement is a reusable unit of text referenced by arguments.
// Its usage count is maintained by the owning aggregate.
type Statement struct {
	id         valueobjects.StatementID
	content    valueobjects.StatementContent
	usageCount int
	createdAt  time.Time
	modifiedAt time.Time
}

// NewStatement creates an unreferenced statement
func NewStatement(content valueobjects.StatementContent, now time.Time) (*Statement, error) {
	if content.IsEmpty() {
		return nil, pkgerrors.NewInvalidContent("statement content cannot be empty")
	}
	return &Statement{
		id:         valueobjects.NewStatementID(),
		content:    content,
		createdAt:  now,
		modifiedAt: now,
	}, nil
}

// ReconstructStatement rebuilds a statement from persisted data
func ReconstructStatement(
	id valueobjects.StatementID,
	content valueobjects.StatementContent,
	usageCount int,
	createdAt, modifiedAt time.Time,
) (*Statement, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidContent("statement id cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewInvalidContent("statement content cannot be empty").
			WithDetail("statement_id", id.String())
	}
	if usageCount < 0 {
		return nil, pkgerrors.NewInvalidContent("usage count cannot be negative").
			WithDetail("statement_id", id.String())
	}
	return &Statement{
		id:         id,
		content:    content,
		usageCount: usageCount,
		createdAt:  createdAt,
		modifiedAt: modifiedAt,
	}, nil
}

func (s *Statement) ID() valueobjects.StatementID           { return s.id }
func (s *Statement) Content() valueobjects.StatementContent { return s.content }
func (s *Statement) UsageCount() int                        { return s.usageCount }
func (s *Statement) CreatedAt() time.Time                   { return s.createdAt }
func (s *Statement) ModifiedAt() time.Time                  { return s.modifiedAt }

// IsUnused reports whether no argument references the statement
func (s *Statement) IsUnused() bool { return s.usageCount == 0 }

// EditContent replaces the text and stamps the modification time
func (s *Statement) EditContent(content valueobjects.StatementContent, now time.Time) {
	s.content = content
	s.modifiedAt = now
}

// AdjustUsage shifts the usage count by delta, never below zero
func (s *Statement) AdjustUsage(delta int) {
	s.usageCount += delta
	if s.usageCount < 0 {
		s.usageCount = 0
	}
}

// Clone returns an independent copy
func (s *Statement) Clone() *Statement {
	c := *s
	return &c
}

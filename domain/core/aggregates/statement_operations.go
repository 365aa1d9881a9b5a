package aggregates

import (
	"fmt"

	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/events"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// AddStatement registers a new statement with usage count 0
func (p *ProofAggregate) AddStatement(expectedVersion int, text string) (valueobjects.StatementID, error) {
	var id valueobjects.StatementID
	err := p.apply(expectedVersion, func(m *mutation) error {
		content, err := valueobjects.NewStatementContentWithConfig(text, m.config)
		if err != nil {
			return err
		}
		if len(m.state.statements) >= m.config.MaxStatementsPerDocument {
			return limitExceeded("statements per document", m.config.MaxStatementsPerDocument)
		}

		statement, err := entities.NewStatement(content, m.now)
		if err != nil {
			return err
		}
		id = statement.ID()
		m.state.statements[id] = statement
		m.state.statementOrder = append(m.state.statementOrder, id)

		m.raise(events.NewStatementCreated(m.documentID, m.version, id, content.String(), m.now))
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// EditStatement replaces a statement's text. Identity and usage are unchanged.
func (p *ProofAggregate) EditStatement(expectedVersion int, id valueobjects.StatementID, text string) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		statement, err := m.mutableStatement(id)
		if err != nil {
			return err
		}
		content, err := valueobjects.NewStatementContentWithConfig(text, m.config)
		if err != nil {
			return err
		}

		old := statement.Content().String()
		statement.EditContent(content, m.now)

		m.raise(events.NewStatementEdited(m.documentID, m.version, id, old, content.String(), m.now))
		return nil
	})
}

// RemoveStatement deletes an unreferenced statement
func (p *ProofAggregate) RemoveStatement(expectedVersion int, id valueobjects.StatementID) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		statement, ok := m.state.statements[id]
		if !ok {
			return pkgerrors.NewNotFound("statement", id.String())
		}
		if statement.UsageCount() > 0 {
			return pkgerrors.NewStatementInUse(id.String(), statement.UsageCount())
		}

		delete(m.state.statements, id)
		m.state.statementOrder = removeID(m.state.statementOrder, id)

		m.raise(events.NewStatementRemoved(m.documentID, m.version, id, m.now))
		return nil
	})
}

// mutableStatement swaps in a private clone of the statement so it can be changed
func (m *mutation) mutableStatement(id valueobjects.StatementID) (*entities.Statement, error) {
	statement, ok := m.state.statements[id]
	if !ok {
		return nil, pkgerrors.NewNotFound("statement", id.String())
	}
	clone := statement.Clone()
	m.state.statements[id] = clone
	return clone, nil
}

// adjustUsage shifts usage counts for each (argument, role) reference
func (m *mutation) adjustUsage(refs []valueobjects.StatementID, delta int) error {
	for _, ref := range refs {
		statement, err := m.mutableStatement(ref)
		if err != nil {
			return pkgerrors.NewUnknownStatement(ref.String())
		}
		statement.AdjustUsage(delta)
	}
	return nil
}

// requireStatements fails with UnknownStatement on the first absent id
func (m *mutation) requireStatements(groups ...[]valueobjects.StatementID) error {
	for _, ids := range groups {
		for _, id := range ids {
			if _, ok := m.state.statements[id]; !ok {
				return pkgerrors.NewUnknownStatement(id.String())
			}
		}
	}
	return nil
}

func limitExceeded(what string, limit int) error {
	return pkgerrors.NewDomainError(pkgerrors.KindInvalidContent, "LIMIT_EXCEEDED",
		fmt.Sprintf("maximum %s (%d) reached", what, limit)).
		WithDetail("limit", limit)
}

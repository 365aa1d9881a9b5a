package aggregates

import (
	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/events"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// AddArgument registers an atomic argument. Both sequences may be empty,
// which makes it a bootstrap argument. A statement may appear as both premise
// and conclusion (restatement). Every referenced statement must exist.
func (p *ProofAggregate) AddArgument(
	expectedVersion int,
	premises, conclusions []valueobjects.StatementID,
	labels valueobjects.SideLabelsUpdate,
) (valueobjects.ArgumentID, error) {
	var id valueobjects.ArgumentID
	err := p.apply(expectedVersion, func(m *mutation) error {
		if err := m.requireStatements(premises, conclusions); err != nil {
			return err
		}
		if err := m.checkArgumentLimits(premises, conclusions); err != nil {
			return err
		}
		if len(m.state.arguments) >= m.config.MaxArgumentsPerDocument {
			return limitExceeded("arguments per document", m.config.MaxArgumentsPerDocument)
		}

		sideLabels, err := valueobjects.SideLabels{}.Apply(labels, m.config)
		if err != nil {
			return err
		}
		argument, err := entities.NewAtomicArgument(premises, conclusions, sideLabels, m.now)
		if err != nil {
			return err
		}
		if err := m.adjustUsage(argument.References(), 1); err != nil {
			return err
		}

		id = argument.ID()
		m.state.arguments[id] = argument
		m.state.argumentOrder = append(m.state.argumentOrder, id)

		m.raise(events.NewArgumentCreated(m.documentID, m.version, id, argument.Premises(), argument.Conclusions(), m.now))
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateArgumentStatements replaces an argument's premises and conclusions.
// Usage counts move from the old references to the new ones, and every tree
// the argument is placed in is re-checked for connection cycles.
func (p *ProofAggregate) UpdateArgumentStatements(
	expectedVersion int,
	id valueobjects.ArgumentID,
	premises, conclusions []valueobjects.StatementID,
) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		argument, err := m.mutableArgument(id)
		if err != nil {
			return err
		}
		if err := m.requireStatements(premises, conclusions); err != nil {
			return err
		}
		if err := m.checkArgumentLimits(premises, conclusions); err != nil {
			return err
		}

		if err := m.adjustUsage(argument.References(), -1); err != nil {
			return err
		}
		if err := argument.ReplaceStatements(premises, conclusions, m.now); err != nil {
			return err
		}
		if err := m.adjustUsage(argument.References(), 1); err != nil {
			return err
		}

		for _, treeID := range m.state.treesContaining(id) {
			if err := m.checkTreePositions(treeID); err != nil {
				return err
			}
			if err := checkTreeAcyclic(m.state, treeID); err != nil {
				return err
			}
		}

		m.raise(events.NewArgumentStatementsUpdated(m.documentID, m.version, id, argument.Premises(), argument.Conclusions(), m.now))
		return nil
	})
}

// UpdateSideLabels changes the left and/or right label independently
func (p *ProofAggregate) UpdateSideLabels(expectedVersion int, id valueobjects.ArgumentID, update valueobjects.SideLabelsUpdate) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		argument, err := m.mutableArgument(id)
		if err != nil {
			return err
		}
		labels, err := argument.SideLabels().Apply(update, m.config)
		if err != nil {
			return err
		}
		argument.SetSideLabels(labels, m.now)

		m.raise(events.NewArgumentSideLabelsUpdated(m.documentID, m.version, id, labels, m.now))
		return nil
	})
}

// RemoveArgument deletes an argument and releases its statement references.
// An argument still placed in a tree cannot be removed.
func (p *ProofAggregate) RemoveArgument(expectedVersion int, id valueobjects.ArgumentID) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		argument, ok := m.state.arguments[id]
		if !ok {
			return pkgerrors.NewUnknownArgument(id.String())
		}
		if placed := m.state.placements(id); len(placed) > 0 {
			return pkgerrors.NewHasChildren("argument", id.String(), len(placed))
		}

		if err := m.adjustUsage(argument.References(), -1); err != nil {
			return err
		}
		delete(m.state.arguments, id)
		m.state.argumentOrder = removeID(m.state.argumentOrder, id)

		m.raise(events.NewArgumentRemoved(m.documentID, m.version, id, m.now))
		return nil
	})
}

func (m *mutation) mutableArgument(id valueobjects.ArgumentID) (*entities.AtomicArgument, error) {
	argument, ok := m.state.arguments[id]
	if !ok {
		return nil, pkgerrors.NewUnknownArgument(id.String())
	}
	clone := argument.Clone()
	m.state.arguments[id] = clone
	return clone, nil
}

func (m *mutation) checkArgumentLimits(premises, conclusions []valueobjects.StatementID) error {
	if limit := m.config.MaxStatementsPerArgument; len(premises) > limit || len(conclusions) > limit {
		return limitExceeded("statements per argument side", limit)
	}
	return nil
}

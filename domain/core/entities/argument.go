package entities

import (
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// AtomicArgument is one inference step from premises to conclusions.
// Order within both sequences is significant and preserved.
type AtomicArgument struct {
	id          valueobjects.ArgumentID
	premises    []valueobjects.StatementID
	conclusions []valueobjects.StatementID
	sideLabels  valueobjects.SideLabels
	createdAt   time.Time
	modifiedAt  time.Time
}

// NewAtomicArgument creates an argument. Either sequence may be empty.
func NewAtomicArgument(
	premises, conclusions []valueobjects.StatementID,
	labels valueobjects.SideLabels,
	now time.Time,
) (*AtomicArgument, error) {
	return newArgument(valueobjects.NewArgumentID(), premises, conclusions, labels, now, now)
}

// ReconstructAtomicArgument rebuilds an argument from persisted data
func ReconstructAtomicArgument(
	id valueobjects.ArgumentID,
	premises, conclusions []valueobjects.StatementID,
	labels valueobjects.SideLabels,
	createdAt, modifiedAt time.Time,
) (*AtomicArgument, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidContent("argument id cannot be empty")
	}
	return newArgument(id, premises, conclusions, labels, createdAt, modifiedAt)
}

func newArgument(
	id valueobjects.ArgumentID,
	premises, conclusions []valueobjects.StatementID,
	labels valueobjects.SideLabels,
	createdAt, modifiedAt time.Time,
) (*AtomicArgument, error) {
	if err := checkStatementRefs(premises); err != nil {
		return nil, err
	}
	if err := checkStatementRefs(conclusions); err != nil {
		return nil, err
	}
	return &AtomicArgument{
		id:          id,
		premises:    copyIDs(premises),
		conclusions: copyIDs(conclusions),
		sideLabels:  labels,
		createdAt:   createdAt,
		modifiedAt:  modifiedAt,
	}, nil
}

func (a *AtomicArgument) ID() valueobjects.ArgumentID         { return a.id }
func (a *AtomicArgument) SideLabels() valueobjects.SideLabels { return a.sideLabels }
func (a *AtomicArgument) CreatedAt() time.Time                { return a.createdAt }
func (a *AtomicArgument) ModifiedAt() time.Time               { return a.modifiedAt }

// Premises returns a copy of the premise ids in order
func (a *AtomicArgument) Premises() []valueobjects.StatementID { return copyIDs(a.premises) }

// Conclusions returns a copy of the conclusion ids in order
func (a *AtomicArgument) Conclusions() []valueobjects.StatementID { return copyIDs(a.conclusions) }

func (a *AtomicArgument) PremiseCount() int    { return len(a.premises) }
func (a *AtomicArgument) ConclusionCount() int { return len(a.conclusions) }

// IsBootstrap reports whether the argument has neither premises nor conclusions
func (a *AtomicArgument) IsBootstrap() bool {
	return len(a.premises) == 0 && len(a.conclusions) == 0
}

// References returns one entry per (role, statement) pair: distinct premises
// followed by distinct conclusions. A restated statement appears once per role.
func (a *AtomicArgument) References() []valueobjects.StatementID {
	refs := make([]valueobjects.StatementID, 0, len(a.premises)+len(a.conclusions))
	refs = append(refs, distinct(a.premises)...)
	return append(refs, distinct(a.conclusions)...)
}

// AllStatementIDs returns every referenced statement once, premises first
func (a *AtomicArgument) AllStatementIDs() []valueobjects.StatementID {
	return distinct(append(copyIDs(a.premises), a.conclusions...))
}

// SharedWith returns the conclusion ids of a that appear among consumer's premises,
// in a's conclusion order without duplicates. Empty when a does not provide for consumer.
func (a *AtomicArgument) SharedWith(consumer *AtomicArgument) []valueobjects.StatementID {
	if a.id == consumer.id {
		return nil
	}
	premises := make(map[valueobjects.StatementID]struct{}, len(consumer.premises))
	for _, p := range consumer.premises {
		premises[p] = struct{}{}
	}
	var shared []valueobjects.StatementID
	seen := make(map[valueobjects.StatementID]struct{})
	for _, c := range a.conclusions {
		if _, ok := premises[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		shared = append(shared, c)
	}
	return shared
}

// ReplaceStatements swaps both sequences
func (a *AtomicArgument) ReplaceStatements(premises, conclusions []valueobjects.StatementID, now time.Time) error {
	if err := checkStatementRefs(premises); err != nil {
		return err
	}
	if err := checkStatementRefs(conclusions); err != nil {
		return err
	}
	a.premises = copyIDs(premises)
	a.conclusions = copyIDs(conclusions)
	a.modifiedAt = now
	return nil
}

// SetSideLabels replaces the side labels
func (a *AtomicArgument) SetSideLabels(labels valueobjects.SideLabels, now time.Time) {
	a.sideLabels = labels
	a.modifiedAt = now
}

// Clone returns an independent copy
func (a *AtomicArgument) Clone() *AtomicArgument {
	c := *a
	c.premises = copyIDs(a.premises)
	c.conclusions = copyIDs(a.conclusions)
	return &c
}

func checkStatementRefs(ids []valueobjects.StatementID) error {
	for _, id := range ids {
		if id.IsZero() {
			return pkgerrors.NewUnknownStatement("")
		}
	}
	return nil
}

func distinct(ids []valueobjects.StatementID) []valueobjects.StatementID {
	seen := make(map[valueobjects.StatementID]struct{}, len(ids))
	out := make([]valueobjects.StatementID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func copyIDs(ids []valueobjects.StatementID) []valueobjects.StatementID {
	out := make([]valueobjects.StatementID, len(ids))
	copy(out, ids)
	return out
}

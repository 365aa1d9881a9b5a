package aggregates

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/events"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func createTestAggregate(t *testing.T) *ProofAggregate {
	t.Helper()
	return NewProofAggregate(config.DefaultDomainConfig(), WithClock(func() time.Time { return fixedNow }))
}

func addStatement(t *testing.T, p *ProofAggregate, text string) valueobjects.StatementID {
	t.Helper()
	id, err := p.AddStatement(p.Version(), text)
	require.NoError(t, err)
	return id
}

func addArgument(t *testing.T, p *ProofAggregate, premises, conclusions []valueobjects.StatementID) valueobjects.ArgumentID {
	t.Helper()
	id, err := p.AddArgument(p.Version(), premises, conclusions, valueobjects.SideLabelsUpdate{})
	require.NoError(t, err)
	return id
}

func createTree(t *testing.T, p *ProofAggregate) valueobjects.TreeID {
	t.Helper()
	id, err := p.CreateTree(p.Version(), valueobjects.Position{}, nil)
	require.NoError(t, err)
	return id
}

func attach(t *testing.T, p *ProofAggregate, tree valueobjects.TreeID, arg valueobjects.ArgumentID, parent valueobjects.NodeID, pos int) valueobjects.NodeID {
	t.Helper()
	id, err := p.AttachNode(p.Version(), tree, arg, parent, pos, nil)
	require.NoError(t, err)
	return id
}

func sids(ids ...valueobjects.StatementID) []valueobjects.StatementID { return ids }

func usage(t *testing.T, p *ProofAggregate, id valueobjects.StatementID) int {
	t.Helper()
	s, ok := p.Snapshot().Statement(id)
	require.True(t, ok)
	return s.UsageCount()
}

func requireKind(t *testing.T, err error, kind pkgerrors.DomainErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, pkgerrors.KindOf(err), "unexpected error: %v", err)
}

func TestNewProofAggregate(t *testing.T) {
	p := createTestAggregate(t)

	assert.NotEmpty(t, p.ID())
	assert.Equal(t, 0, p.Version())
	assert.Empty(t, p.GetUncommittedEvents())
	assert.NoError(t, p.Validate())

	fixed := valueobjects.NewDocumentID()
	q := NewProofAggregate(nil, WithDocumentID(fixed))
	assert.Equal(t, fixed, q.ID())
	assert.NotNil(t, q.Config())

	generated := NewProofAggregate(nil, WithDocumentID(""))
	assert.False(t, generated.ID().IsZero())
}

func TestProofAggregate_AddStatement(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		kind    pkgerrors.DomainErrorKind
	}{
		{name: "valid", content: "P implies Q", want: "P implies Q"},
		{name: "trimmed", content: "  Q  ", want: "Q"},
		{name: "empty", content: "", kind: pkgerrors.KindInvalidContent},
		{name: "whitespace", content: "\t ", kind: pkgerrors.KindInvalidContent},
		{name: "too long", content: strings.Repeat("x", 10001), kind: pkgerrors.KindInvalidContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestAggregate(t)

			id, err := p.AddStatement(0, tt.content)

			if tt.kind != "" {
				requireKind(t, err, tt.kind)
				assert.Equal(t, 0, p.Version())
				assert.Empty(t, p.GetUncommittedEvents())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, p.Version())

			s, ok := p.Snapshot().Statement(id)
			require.True(t, ok)
			assert.Equal(t, tt.want, s.Content().String())
			assert.Equal(t, 0, s.UsageCount())
			assert.Equal(t, fixedNow, s.CreatedAt())

			evts := p.GetUncommittedEvents()
			require.Len(t, evts, 1)
			assert.Equal(t, events.TypeStatementCreated, evts[0].GetEventType())
			assert.Equal(t, 1, evts[0].GetVersion())
			assert.Equal(t, p.ID().String(), evts[0].GetAggregateID())
		})
	}
}

func TestProofAggregate_EditStatement(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "original")
	s2 := addStatement(t, p, "other")
	addArgument(t, p, sids(s1), sids(s2))

	before, _ := p.Snapshot().Statement(s1)

	require.NoError(t, p.EditStatement(p.Version(), s1, "edited"))

	after, ok := p.Snapshot().Statement(s1)
	require.True(t, ok)
	assert.Equal(t, "edited", after.Content().String())
	assert.Equal(t, before.ID(), after.ID())
	assert.Equal(t, before.UsageCount(), after.UsageCount())
	assert.Equal(t, "original", before.Content().String(), "earlier snapshot copy must not change")

	requireKind(t, p.EditStatement(p.Version(), "missing", "x"), pkgerrors.KindNotFound)
	requireKind(t, p.EditStatement(p.Version(), s1, " "), pkgerrors.KindInvalidContent)
}

func TestProofAggregate_RemoveStatement(t *testing.T) {
	p := createTestAggregate(t)
	used := addStatement(t, p, "used")
	free := addStatement(t, p, "free")
	addArgument(t, p, sids(used), nil)

	version := p.Version()
	err := p.RemoveStatement(version, used)
	requireKind(t, err, pkgerrors.KindStatementInUse)
	assert.True(t, errors.Is(err, pkgerrors.ErrStatementInUse))
	assert.Equal(t, version, p.Version())

	require.NoError(t, p.RemoveStatement(p.Version(), free))
	_, ok := p.Snapshot().Statement(free)
	assert.False(t, ok)
	assert.Equal(t, 1, p.Snapshot().StatementCount())

	requireKind(t, p.RemoveStatement(p.Version(), free), pkgerrors.KindNotFound)
}

func TestProofAggregate_AddArgument(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "s1")
	s2 := addStatement(t, p, "s2")

	t.Run("usage counts increase by one per role", func(t *testing.T) {
		addArgument(t, p, sids(s1), sids(s2))
		assert.Equal(t, 1, usage(t, p, s1))
		assert.Equal(t, 1, usage(t, p, s2))
	})

	t.Run("restatement is allowed", func(t *testing.T) {
		id, err := p.AddArgument(p.Version(), sids(s1), sids(s1), valueobjects.SideLabelsUpdate{})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, 3, usage(t, p, s1))
	})

	t.Run("bootstrap argument", func(t *testing.T) {
		id, err := p.AddArgument(p.Version(), nil, nil, valueobjects.SideLabelsUpdate{})
		require.NoError(t, err)
		arg, ok := p.Snapshot().Argument(id)
		require.True(t, ok)
		assert.True(t, arg.IsBootstrap())
	})

	t.Run("unknown statement leaves aggregate unchanged", func(t *testing.T) {
		version := p.Version()
		count := p.Snapshot().ArgumentCount()

		_, err := p.AddArgument(version, sids(s1, "ghost"), nil, valueobjects.SideLabelsUpdate{})

		requireKind(t, err, pkgerrors.KindUnknownStatement)
		assert.Equal(t, version, p.Version())
		assert.Equal(t, count, p.Snapshot().ArgumentCount())
		assert.Equal(t, 3, usage(t, p, s1))
	})

	t.Run("side labels", func(t *testing.T) {
		left := "MP"
		id, err := p.AddArgument(p.Version(), sids(s2), nil, valueobjects.SideLabelsUpdate{Left: &left})
		require.NoError(t, err)
		arg, _ := p.Snapshot().Argument(id)
		assert.Equal(t, "MP", arg.SideLabels().Left())
		assert.Equal(t, "", arg.SideLabels().Right())
	})

	assert.NoError(t, p.Validate())
}

func TestProofAggregate_UpdateSideLabels(t *testing.T) {
	p := NewProofAggregate(&config.DomainConfig{
		MaxStatementLength:       100,
		MaxStatementsPerDocument: 10,
		MaxSideLabelLength:       5,
		MaxArgumentsPerDocument:  10,
		MaxStatementsPerArgument: 10,
		MaxNodesPerTree:          10,
		DefaultMaxPathDepth:      3,
		MaxPathResults:           10,
	})
	arg := addArgument(t, p, nil, nil)

	left, right := "MP", "1,2"
	require.NoError(t, p.UpdateSideLabels(p.Version(), arg, valueobjects.SideLabelsUpdate{Left: &left, Right: &right}))

	newRight := "3"
	require.NoError(t, p.UpdateSideLabels(p.Version(), arg, valueobjects.SideLabelsUpdate{Right: &newRight}))

	got, _ := p.Snapshot().Argument(arg)
	assert.Equal(t, "MP", got.SideLabels().Left())
	assert.Equal(t, "3", got.SideLabels().Right())

	long := "too long label"
	requireKind(t, p.UpdateSideLabels(p.Version(), arg, valueobjects.SideLabelsUpdate{Left: &long}), pkgerrors.KindInvalidContent)
	requireKind(t, p.UpdateSideLabels(p.Version(), "missing", valueobjects.SideLabelsUpdate{}), pkgerrors.KindUnknownArgument)
}

func TestProofAggregate_UpdateArgumentStatements(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "s1")
	s2 := addStatement(t, p, "s2")
	s3 := addStatement(t, p, "s3")
	arg := addArgument(t, p, sids(s1), sids(s2))

	require.NoError(t, p.UpdateArgumentStatements(p.Version(), arg, sids(s2), sids(s3)))

	assert.Equal(t, 0, usage(t, p, s1))
	assert.Equal(t, 1, usage(t, p, s2))
	assert.Equal(t, 1, usage(t, p, s3))

	requireKind(t, p.UpdateArgumentStatements(p.Version(), arg, sids("ghost"), nil), pkgerrors.KindUnknownStatement)
	requireKind(t, p.UpdateArgumentStatements(p.Version(), "ghost", nil, nil), pkgerrors.KindUnknownArgument)
	assert.NoError(t, p.Validate())
}

func TestProofAggregate_UpdateArgumentStatements_RejectsCycleInPlacedTree(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "s1")
	s2 := addStatement(t, p, "s2")
	a := addArgument(t, p, sids(s1), sids(s2))
	b := addArgument(t, p, sids(s2), nil)
	tree := createTree(t, p)
	root := attach(t, p, tree, a, "", 0)
	attach(t, p, tree, b, root, 0)

	version := p.Version()
	err := p.UpdateArgumentStatements(version, b, sids(s2), sids(s1))

	requireKind(t, err, pkgerrors.KindCycleDetected)
	assert.Equal(t, version, p.Version())
	got, _ := p.Snapshot().Argument(b)
	assert.Empty(t, got.Conclusions())
	assert.Equal(t, 1, usage(t, p, s1))
}

func TestProofAggregate_UpdateArgumentStatements_RejectsOrphanedPosition(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "s1")
	s2 := addStatement(t, p, "s2")
	parent := addArgument(t, p, sids(s1, s2), nil)
	child := addArgument(t, p, nil, sids(s2))
	tree := createTree(t, p)
	root := attach(t, p, tree, parent, "", 0)
	attach(t, p, tree, child, root, 1)

	err := p.UpdateArgumentStatements(p.Version(), parent, sids(s1), nil)
	requireKind(t, err, pkgerrors.KindPositionOutOfRange)
}

func TestProofAggregate_RemoveArgument(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "s1")
	arg := addArgument(t, p, sids(s1), nil)
	tree := createTree(t, p)
	node := attach(t, p, tree, arg, "", 0)

	requireKind(t, p.RemoveArgument(p.Version(), arg), pkgerrors.KindHasChildren)

	_, err := p.DetachNode(p.Version(), node, false)
	require.NoError(t, err)
	require.NoError(t, p.RemoveArgument(p.Version(), arg))

	assert.Equal(t, 0, usage(t, p, s1))
	assert.Equal(t, 0, p.Snapshot().ArgumentCount())
	require.NoError(t, p.RemoveStatement(p.Version(), s1))
	requireKind(t, p.RemoveArgument(p.Version(), arg), pkgerrors.KindUnknownArgument)
}

func TestProofAggregate_VersionConflict(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "s1")
	stale := p.Version()
	addStatement(t, p, "s2")

	operations := map[string]func() error{
		"add statement": func() error { _, err := p.AddStatement(stale, "x"); return err },
		"edit statement": func() error { return p.EditStatement(stale, s1, "y") },
		"remove statement": func() error { return p.RemoveStatement(stale, s1) },
		"add argument": func() error {
			_, err := p.AddArgument(stale, nil, nil, valueobjects.SideLabelsUpdate{})
			return err
		},
		"create tree": func() error { _, err := p.CreateTree(stale, valueobjects.Position{}, nil); return err },
		"future version": func() error { _, err := p.AddStatement(p.Version()+1, "x"); return err },
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			before := p.Export()

			err := op()

			requireKind(t, err, pkgerrors.KindVersionConflict)
			assert.True(t, errors.Is(err, pkgerrors.ErrVersionConflict))
			assert.Equal(t, before, p.Export())
		})
	}
}

func TestProofAggregate_VersionMonotonicity(t *testing.T) {
	p := createTestAggregate(t)

	versions := []int{p.Version()}
	s1 := addStatement(t, p, "a")
	versions = append(versions, p.Version())
	s2 := addStatement(t, p, "b")
	versions = append(versions, p.Version())
	arg := addArgument(t, p, sids(s1), sids(s2))
	versions = append(versions, p.Version())
	tree := createTree(t, p)
	versions = append(versions, p.Version())
	attach(t, p, tree, arg, "", 0)
	versions = append(versions, p.Version())

	for i := 1; i < len(versions); i++ {
		assert.Equal(t, versions[i-1]+1, versions[i])
	}

	_, err := p.AddStatement(p.Version(), "")
	require.Error(t, err)
	assert.Equal(t, versions[len(versions)-1], p.Version(), "failed mutation must not bump version")
}

func TestProofAggregate_GetUncommittedEvents(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "a")
	arg := addArgument(t, p, sids(s1), nil)
	tree := createTree(t, p)
	attach(t, p, tree, arg, "", 0)

	var types []string
	for _, e := range p.GetUncommittedEvents() {
		types = append(types, e.GetEventType())
	}
	assert.Equal(t, []string{
		events.TypeStatementCreated,
		events.TypeArgumentCreated,
		events.TypeTreeCreated,
		events.TypeNodeAttached,
	}, types)

	p.MarkEventsAsCommitted()
	assert.Empty(t, p.GetUncommittedEvents())
}

func TestProofAggregate_ConcurrentReaders(t *testing.T) {
	p := createTestAggregate(t)
	s1 := addStatement(t, p, "seed")

	var wg sync.WaitGroup
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := p.Snapshot()
				for _, s := range snap.Statements() {
					_ = s.UsageCount()
				}
				_ = snap.ConnectionGraph()
			}
		}()
	}

	for i := 0; i < 100; i++ {
		_, err := p.AddArgument(p.Version(), sids(s1), nil, valueobjects.SideLabelsUpdate{})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, 100, usage(t, p, s1))
	assert.NoError(t, p.Validate())
}

func TestProofAggregate_ConcurrentWritersConflict(t *testing.T) {
	p := createTestAggregate(t)
	version := p.Version()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := p.AddStatement(version, fmt.Sprintf("s%d", i))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, pkgerrors.ErrVersionConflict))
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, version+1, p.Version())
}

package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
)

func ids(raw ...string) []valueobjects.StatementID {
	return valueobjects.StatementIDs(raw)
}

func TestStatement(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	content, err := valueobjects.NewStatementContent("P")
	require.NoError(t, err)

	s, err := NewStatement(content, now)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.True(t, s.IsUnused())

	clone := s.Clone()
	clone.AdjustUsage(2)
	assert.Equal(t, 0, s.UsageCount(), "clone must not share state")
	assert.Equal(t, 2, clone.UsageCount())

	clone.AdjustUsage(-5)
	assert.Equal(t, 0, clone.UsageCount())

	edited, err := valueobjects.NewStatementContent("Q")
	require.NoError(t, err)
	later := now.Add(time.Minute)
	s.EditContent(edited, later)
	assert.Equal(t, "Q", s.Content().String())
	assert.Equal(t, later, s.ModifiedAt())
	assert.Equal(t, now, s.CreatedAt())

	_, err = NewStatement(valueobjects.StatementContent{}, now)
	assert.Error(t, err)

	_, err = ReconstructStatement("s1", content, -1, now, now)
	assert.Error(t, err)
}

func TestAtomicArgument_References(t *testing.T) {
	tests := []struct {
		name        string
		premises    []valueobjects.StatementID
		conclusions []valueobjects.StatementID
		want        []valueobjects.StatementID
		bootstrap   bool
	}{
		{
			name:      "bootstrap",
			bootstrap: true,
			want:      []valueobjects.StatementID{},
		},
		{
			name:        "simple",
			premises:    ids("p1", "p2"),
			conclusions: ids("c1"),
			want:        ids("p1", "p2", "c1"),
		},
		{
			name:        "restatement counts once per role",
			premises:    ids("s"),
			conclusions: ids("s"),
			want:        ids("s", "s"),
		},
		{
			name:     "duplicate premise counts once",
			premises: ids("s", "s"),
			want:     ids("s"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, err := NewAtomicArgument(tt.premises, tt.conclusions, valueobjects.SideLabels{}, time.Now())
			require.NoError(t, err)

			assert.Equal(t, tt.want, arg.References())
			assert.Equal(t, tt.bootstrap, arg.IsBootstrap())
		})
	}
}

func TestAtomicArgument_SharedWith(t *testing.T) {
	now := time.Now()
	provider, err := NewAtomicArgument(ids("a"), ids("b", "c", "b"), valueobjects.SideLabels{}, now)
	require.NoError(t, err)
	consumer, err := NewAtomicArgument(ids("c", "b"), ids("d"), valueobjects.SideLabels{}, now)
	require.NoError(t, err)
	unrelated, err := NewAtomicArgument(ids("x"), ids("y"), valueobjects.SideLabels{}, now)
	require.NoError(t, err)

	assert.Equal(t, ids("b", "c"), provider.SharedWith(consumer))
	assert.Empty(t, consumer.SharedWith(provider))
	assert.Empty(t, provider.SharedWith(unrelated))

	restate, err := NewAtomicArgument(ids("s"), ids("s"), valueobjects.SideLabels{}, now)
	require.NoError(t, err)
	assert.Empty(t, restate.SharedWith(restate), "an argument never provides for itself")
}

func TestAtomicArgument_CloneIsIndependent(t *testing.T) {
	arg, err := NewAtomicArgument(ids("a"), ids("b"), valueobjects.SideLabels{}, time.Now())
	require.NoError(t, err)

	clone := arg.Clone()
	require.NoError(t, clone.ReplaceStatements(ids("x"), nil, time.Now()))

	assert.Equal(t, ids("a"), arg.Premises())
	assert.Equal(t, ids("x"), clone.Premises())

	premises := arg.Premises()
	premises[0] = "mutated"
	assert.Equal(t, ids("a"), arg.Premises())
}

func TestNodeAndTree(t *testing.T) {
	now := time.Now()
	tree := NewTree(valueobjects.Position{X: 1, Y: 2}, nil, now)

	root, err := NewRootNode(tree.ID(), "arg-1", now)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.True(t, root.ParentID().IsZero())

	from := 0
	child, err := NewChildNode(tree.ID(), "arg-2", Attachment{ParentNodeID: root.ID(), PremisePosition: 1, FromPosition: &from}, now)
	require.NoError(t, err)
	assert.False(t, child.IsRoot())
	assert.Equal(t, root.ID(), child.ParentID())

	attachment, ok := child.Attachment()
	require.True(t, ok)
	*attachment.FromPosition = 7
	again, _ := child.Attachment()
	assert.Equal(t, 0, *again.FromPosition, "attachment copies must be independent")

	_, err = NewChildNode(tree.ID(), "arg-2", Attachment{}, now)
	assert.Error(t, err)

	tree.AddRoot(root.ID())
	tree.AddRoot(root.ID())
	assert.Equal(t, []valueobjects.NodeID{root.ID()}, tree.RootNodeIDs())

	clone := tree.Clone()
	clone.RemoveRoot(root.ID())
	assert.True(t, tree.HasRoot(root.ID()))
	assert.False(t, clone.HasRoot(root.ID()))
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

type docBuilder struct {
	t *testing.T
	p *aggregates.ProofAggregate
}

func newDoc(t *testing.T) *docBuilder {
	t.Helper()
	return &docBuilder{t: t, p: aggregates.NewProofAggregate(config.DefaultDomainConfig())}
}

func (d *docBuilder) statement(text string) valueobjects.StatementID {
	d.t.Helper()
	id, err := d.p.AddStatement(d.p.Version(), text)
	require.NoError(d.t, err)
	return id
}

func (d *docBuilder) argument(premises, conclusions []valueobjects.StatementID) valueobjects.ArgumentID {
	d.t.Helper()
	id, err := d.p.AddArgument(d.p.Version(), premises, conclusions, valueobjects.SideLabelsUpdate{})
	require.NoError(d.t, err)
	return id
}

func (d *docBuilder) tree() valueobjects.TreeID {
	d.t.Helper()
	id, err := d.p.CreateTree(d.p.Version(), valueobjects.Position{}, nil)
	require.NoError(d.t, err)
	return id
}

func (d *docBuilder) attach(tree valueobjects.TreeID, arg valueobjects.ArgumentID, parent valueobjects.NodeID, pos int) valueobjects.NodeID {
	d.t.Helper()
	id, err := d.p.AttachNode(d.p.Version(), tree, arg, parent, pos, nil)
	require.NoError(d.t, err)
	return id
}

func ids(list ...valueobjects.StatementID) []valueobjects.StatementID { return list }

// chainDoc builds a: [] -> [s1], b: [s1] -> [s2], c: [s2] -> [s3], d: [s1] -> [s3]
type chainDoc struct {
	*docBuilder
	s1, s2, s3 valueobjects.StatementID
	a, b, c, d valueobjects.ArgumentID
}

func newChainDoc(t *testing.T) *chainDoc {
	t.Helper()
	doc := &chainDoc{docBuilder: newDoc(t)}
	doc.s1 = doc.statement("s1")
	doc.s2 = doc.statement("s2")
	doc.s3 = doc.statement("s3")
	doc.a = doc.argument(nil, ids(doc.s1))
	doc.b = doc.argument(ids(doc.s1), ids(doc.s2))
	doc.c = doc.argument(ids(doc.s2), ids(doc.s3))
	doc.d = doc.argument(ids(doc.s1), ids(doc.s3))
	return doc
}

func TestStructuralAnalyzer_DepthAndBreadth(t *testing.T) {
	analyzer := NewStructuralAnalyzer(nil)

	t.Run("empty tree", func(t *testing.T) {
		doc := newDoc(t)
		tree := doc.tree()
		snap := doc.p.Snapshot()

		depth, err := analyzer.TreeDepth(snap, tree)
		require.NoError(t, err)
		breadth, err := analyzer.TreeBreadth(snap, tree)
		require.NoError(t, err)

		assert.Equal(t, 0, depth)
		assert.Equal(t, 0, breadth)
	})

	t.Run("single node", func(t *testing.T) {
		doc := newDoc(t)
		s := doc.statement("only")
		tree := doc.tree()
		doc.attach(tree, doc.argument(nil, ids(s)), "", 0)
		snap := doc.p.Snapshot()

		depth, err := analyzer.TreeDepth(snap, tree)
		require.NoError(t, err)
		breadth, err := analyzer.TreeBreadth(snap, tree)
		require.NoError(t, err)

		assert.Equal(t, 1, depth)
		assert.Equal(t, 1, breadth)
	})

	t.Run("root with two children", func(t *testing.T) {
		doc := newDoc(t)
		p1, p2, goal := doc.statement("p1"), doc.statement("p2"), doc.statement("goal")
		root := doc.argument(ids(p1, p2), ids(goal))
		left := doc.argument(nil, ids(p1))
		right := doc.argument(nil, ids(p2))
		tree := doc.tree()
		rootNode := doc.attach(tree, root, "", 0)
		doc.attach(tree, left, rootNode, 0)
		doc.attach(tree, right, rootNode, 1)
		snap := doc.p.Snapshot()

		depth, err := analyzer.TreeDepth(snap, tree)
		require.NoError(t, err)
		breadth, err := analyzer.TreeBreadth(snap, tree)
		require.NoError(t, err)

		assert.Equal(t, 2, depth)
		assert.Equal(t, 2, breadth)
	})

	t.Run("unknown tree", func(t *testing.T) {
		snap := newDoc(t).p.Snapshot()

		_, err := analyzer.TreeDepth(snap, "nope")
		assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
		_, err = analyzer.TreeBreadth(snap, "nope")
		assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
	})
}

func TestStructuralAnalyzer_TreeStructure(t *testing.T) {
	doc := newChainDoc(t)
	tree := doc.tree()
	// c <- b <- a, plus a second root d with no children
	cNode := doc.attach(tree, doc.c, "", 0)
	bNode := doc.attach(tree, doc.b, cNode, 0)
	doc.attach(tree, doc.a, bNode, 0)
	dNode := doc.attach(tree, doc.d, "", 0)

	structure, err := NewStructuralAnalyzer(nil).TreeStructure(doc.p.Snapshot(), tree)
	require.NoError(t, err)

	assert.Equal(t, tree, structure.TreeID)
	assert.Equal(t, 4, structure.NodeCount)
	assert.Equal(t, 3, structure.Depth)
	assert.Equal(t, 2, structure.Breadth)
	assert.Equal(t, []int{2, 1, 1}, structure.LevelWidths)
	assert.Equal(t, 2, structure.LeafCount)
	assert.Equal(t, []valueobjects.NodeID{cNode, dNode}, structure.RootNodeIDs)
	assert.False(t, structure.Cycle.HasCycle)
}

func TestStructuralAnalyzer_BranchesOf(t *testing.T) {
	doc := newDoc(t)
	p1, p2, goal := doc.statement("p1"), doc.statement("p2"), doc.statement("goal")
	root := doc.argument(ids(p1, p2), ids(goal))
	left := doc.argument(nil, ids(p1))
	right := doc.argument(nil, ids(p2))
	tree := doc.tree()
	rootNode := doc.attach(tree, root, "", 0)
	rightNode := doc.attach(tree, right, rootNode, 1)
	leftNode := doc.attach(tree, left, rootNode, 0)

	analyzer := NewStructuralAnalyzer(nil)
	snap := doc.p.Snapshot()

	children, err := analyzer.BranchesOf(snap, tree, rootNode)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, rightNode, children[0].ID())
	assert.Equal(t, leftNode, children[1].ID())

	leaves, err := analyzer.BranchesOf(snap, tree, leftNode)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	_, err = analyzer.BranchesOf(snap, tree, "ghost")
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
}

func TestStructuralAnalyzer_CycleDetect(t *testing.T) {
	doc := newChainDoc(t)
	tree := doc.tree()
	cNode := doc.attach(tree, doc.c, "", 0)
	doc.attach(tree, doc.b, cNode, 0)

	analyzer := NewStructuralAnalyzer(nil)
	result, err := analyzer.CycleDetect(doc.p.Snapshot(), tree)
	require.NoError(t, err)
	assert.Equal(t, CycleResult{TreeID: tree}, result)

	_, err = analyzer.CycleDetect(doc.p.Snapshot(), "nope")
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
}

func TestStructuralAnalyzer_ConnectionPaths(t *testing.T) {
	doc := newChainDoc(t)
	snap := doc.p.Snapshot()
	analyzer := NewStructuralAnalyzer(nil)

	args := func(list ...valueobjects.ArgumentID) []valueobjects.ArgumentID { return list }
	shared := func(list ...[]valueobjects.StatementID) [][]valueobjects.StatementID { return list }

	tests := []struct {
		name     string
		from, to valueobjects.ArgumentID
		maxDepth int
		want     []ConnectionPath
		kind     pkgerrors.DomainErrorKind
	}{
		{
			name: "shortest path to target",
			from: doc.a, to: doc.c,
			want: []ConnectionPath{{Arguments: args(doc.a, doc.b, doc.c), Shared: shared(ids(doc.s1), ids(doc.s2)), Hops: 2}},
		},
		{
			name: "target beyond depth bound",
			from: doc.a, to: doc.c, maxDepth: 1,
			want: []ConnectionPath{},
		},
		{
			name: "unreachable target",
			from: doc.c, to: doc.a,
			want: []ConnectionPath{},
		},
		{
			name: "all paths in breadth-first order",
			from: doc.a,
			want: []ConnectionPath{
				{Arguments: args(doc.a, doc.b), Shared: shared(ids(doc.s1)), Hops: 1},
				{Arguments: args(doc.a, doc.d), Shared: shared(ids(doc.s1)), Hops: 1},
				{Arguments: args(doc.a, doc.b, doc.c), Shared: shared(ids(doc.s1), ids(doc.s2)), Hops: 2},
			},
		},
		{
			name: "all paths pruned by depth",
			from: doc.a, maxDepth: 1,
			want: []ConnectionPath{
				{Arguments: args(doc.a, doc.b), Shared: shared(ids(doc.s1)), Hops: 1},
				{Arguments: args(doc.a, doc.d), Shared: shared(ids(doc.s1)), Hops: 1},
			},
		},
		{
			name: "sink has no paths",
			from: doc.c,
			want: []ConnectionPath{},
		},
		{name: "unknown source", from: "ghost", kind: pkgerrors.KindUnknownArgument},
		{name: "unknown target", from: doc.a, to: "ghost", kind: pkgerrors.KindUnknownArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := analyzer.ConnectionPaths(snap, tt.from, tt.to, tt.maxDepth)
			if tt.kind != "" {
				assert.Equal(t, tt.kind, pkgerrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestStructuralAnalyzer_ConnectionPathsRespectsResultLimit(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxPathResults = 2
	doc := newChainDoc(t)

	paths, err := NewStructuralAnalyzer(cfg).ConnectionPaths(doc.p.Snapshot(), doc.a, "", 0)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestStructuralAnalyzer_UsageStatistics(t *testing.T) {
	doc := newChainDoc(t)
	spare := doc.statement("spare")
	tree := doc.tree()
	bNode := doc.attach(tree, doc.b, "", 0)
	doc.attach(tree, doc.a, bNode, 0)

	stats := NewStructuralAnalyzer(nil).UsageStatistics(doc.p.Snapshot())

	assert.Equal(t, 4, stats.TotalStatements)
	assert.Equal(t, 4, stats.TotalArguments)
	assert.Equal(t, 1, stats.TotalTrees)
	assert.Equal(t, 2, stats.TotalNodes)
	assert.Equal(t, 3, stats.TotalConnections)
	assert.Equal(t, []valueobjects.StatementID{spare}, stats.UnusedStatements)
	assert.Equal(t, []valueobjects.ArgumentID{doc.c, doc.d}, stats.UnconnectedArguments)
}

func TestValidationEngine_Validate(t *testing.T) {
	t.Run("healthy document", func(t *testing.T) {
		doc := newDoc(t)
		p, q := doc.statement("p"), doc.statement("q")
		first := doc.argument(nil, ids(p))
		second := doc.argument(ids(p), ids(q))
		tree := doc.tree()
		root := doc.attach(tree, second, "", 0)
		doc.attach(tree, first, root, 0)

		result := NewValidationEngine(nil, nil).Validate(doc.p.Snapshot())

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.Empty(t, result.Warnings)
		assert.False(t, HasValidationErrors(result))
	})

	t.Run("warnings enumerate every finding", func(t *testing.T) {
		doc := newChainDoc(t)
		spare := doc.statement("spare")

		result := NewValidationEngine(nil, nil).Validate(doc.p.Snapshot())

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		require.Len(t, result.Warnings, 5)
		assert.Equal(t, CodeUnusedStatement, result.Warnings[0].Code)
		assert.Equal(t, spare, result.Warnings[0].Location.StatementID)
		for i, arg := range []valueobjects.ArgumentID{doc.a, doc.b, doc.c, doc.d} {
			w := result.Warnings[i+1]
			assert.Equal(t, CodeUnconnectedArgument, w.Code)
			assert.Equal(t, SeverityWarning, w.Severity)
			assert.Equal(t, []valueobjects.ArgumentID{arg}, w.Location.ArgumentIDs)
		}
		assert.False(t, HasValidationErrors(result))
	})

	t.Run("warnings can be switched off", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		cfg.WarnOnUnusedStatements = false
		cfg.WarnOnUnconnectedArguments = false
		doc := newChainDoc(t)
		doc.statement("spare")

		result := NewValidationEngine(nil, cfg).Validate(doc.p.Snapshot())

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Warnings)
	})
}

func TestCircularDependencyIssue(t *testing.T) {
	path := []valueobjects.ArgumentID{"a", "b", "a"}
	issue := circularDependency(CycleResult{TreeID: "t1", HasCycle: true, Path: path})

	assert.Equal(t, CodeCircularDependency, issue.Code)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Equal(t, valueobjects.TreeID("t1"), issue.Location.TreeID)
	assert.Equal(t, path, issue.Location.ArgumentIDs)
	assert.Contains(t, issue.Message, "2 argument(s)")
}

func TestMergeValidationResults(t *testing.T) {
	errA := ValidationIssue{Code: "A", Severity: SeverityError}
	errB := ValidationIssue{Code: "B", Severity: SeverityError}
	warn := ValidationIssue{Code: "W", Severity: SeverityWarning}

	t.Run("no inputs", func(t *testing.T) {
		merged := MergeValidationResults()

		assert.True(t, merged.IsValid)
		assert.NotNil(t, merged.Errors)
		assert.Empty(t, merged.Errors)
		assert.NotNil(t, merged.Warnings)
		assert.Empty(t, merged.Warnings)
		assert.False(t, HasValidationErrors(merged))
	})

	t.Run("concatenates left to right", func(t *testing.T) {
		first := ValidationResult{IsValid: false, Errors: []ValidationIssue{errA}}
		second := ValidationResult{IsValid: true, Warnings: []ValidationIssue{warn}}
		third := ValidationResult{IsValid: false, Errors: []ValidationIssue{errB}}

		merged := MergeValidationResults(first, second, third)

		assert.False(t, merged.IsValid)
		assert.Equal(t, []ValidationIssue{errA, errB}, merged.Errors)
		assert.Equal(t, []ValidationIssue{warn}, merged.Warnings)
	})

	t.Run("merging with itself duplicates", func(t *testing.T) {
		r := ValidationResult{IsValid: false, Errors: []ValidationIssue{errA}, Warnings: []ValidationIssue{warn}}

		merged := MergeValidationResults(r, r)

		assert.Equal(t, []ValidationIssue{errA, errA}, merged.Errors)
		assert.Equal(t, []ValidationIssue{warn, warn}, merged.Warnings)
	})

	t.Run("all valid stays valid", func(t *testing.T) {
		merged := MergeValidationResults(
			ValidationResult{IsValid: true, Warnings: []ValidationIssue{warn}},
			ValidationResult{IsValid: true},
		)

		assert.True(t, merged.IsValid)
		assert.False(t, HasValidationErrors(merged))
	})
}

func TestCustomScripts(t *testing.T) {
	passed := CustomScriptResult{ScriptID: "style", Passed: true}
	failed := CustomScriptResult{ScriptID: "naming", Passed: false, Messages: []string{"bad name"}}

	t.Run("failed script counts as an error", func(t *testing.T) {
		result := CustomScriptsResult(passed, failed)

		assert.False(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.True(t, HasValidationErrors(result))
		assert.Equal(t, []CustomScriptResult{passed, failed}, result.CustomScripts)
	})

	t.Run("merged with engine output", func(t *testing.T) {
		merged := MergeValidationResults(
			ValidationResult{IsValid: true},
			CustomScriptsResult(passed),
			CustomScriptsResult(failed),
		)

		assert.False(t, merged.IsValid)
		assert.Equal(t, []CustomScriptResult{passed, failed}, merged.CustomScripts)
	})

	t.Run("run checks against a snapshot", func(t *testing.T) {
		doc := newChainDoc(t)
		countArgs := CustomCheckFunc(func(_ context.Context, snap *aggregates.Snapshot) CustomScriptResult {
			return CustomScriptResult{ScriptID: "count", Passed: snap.ArgumentCount() == 4}
		})

		result, err := RunCustomChecks(context.Background(), doc.p.Snapshot(), countArgs)
		require.NoError(t, err)
		assert.True(t, result.IsValid)
		assert.Equal(t, []CustomScriptResult{{ScriptID: "count", Passed: true}}, result.CustomScripts)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		never := CustomCheckFunc(func(context.Context, *aggregates.Snapshot) CustomScriptResult {
			t.Fatal("check should not run")
			return CustomScriptResult{}
		})

		_, err := RunCustomChecks(ctx, newDoc(t).p.Snapshot(), never)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBootstrapClassifier_Progression(t *testing.T) {
	classifier := NewBootstrapClassifier()
	doc := newDoc(t)

	status := classifier.Classify(doc.p.Snapshot())
	assert.Equal(t, PhaseEmpty, status.Phase)
	assert.True(t, status.IsInBootstrapState)
	assert.NotEmpty(t, status.NextSteps)

	first, err := doc.p.AddArgument(doc.p.Version(), nil, nil, valueobjects.SideLabelsUpdate{})
	require.NoError(t, err)
	status = classifier.Classify(doc.p.Snapshot())
	assert.Equal(t, PhaseFirstArgument, status.Phase)
	assert.Equal(t, 1, status.BootstrapArgumentCount)
	assert.True(t, classifier.IsInBootstrapState(doc.p.Snapshot()))

	p, q := doc.statement("p"), doc.statement("q")
	require.NoError(t, doc.p.UpdateArgumentStatements(doc.p.Version(), first, ids(p), ids(q)))
	status = classifier.Classify(doc.p.Snapshot())
	assert.Equal(t, PhasePopulating, status.Phase)
	assert.True(t, status.IsInBootstrapState)
	assert.Equal(t, 0, status.ConnectionCount)

	r := doc.statement("r")
	second := doc.argument(ids(q), ids(r))
	tree := doc.tree()
	root := doc.attach(tree, second, "", 0)
	doc.attach(tree, first, root, 0)
	status = classifier.Classify(doc.p.Snapshot())
	assert.Equal(t, PhaseComplete, status.Phase)
	assert.False(t, status.IsInBootstrapState)
	assert.False(t, classifier.IsInBootstrapState(doc.p.Snapshot()))
	assert.Equal(t, 1, status.ConnectionCount)
	assert.Equal(t, 3, status.StatementCount)
	assert.Equal(t, 2, status.ArgumentCount)
}

func TestBootstrapPhase_IsInBootstrapState(t *testing.T) {
	tests := []struct {
		phase BootstrapPhase
		want  bool
	}{
		{PhaseEmpty, true},
		{PhaseFirstArgument, true},
		{PhasePopulating, true},
		{PhaseComplete, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phase.IsInBootstrapState())
		})
	}
}

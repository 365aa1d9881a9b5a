package services

import (
	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/aggregates"
	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// StructuralAnalyzer answers structural questions about a document snapshot.
// It holds no state of its own and is safe for concurrent use; every result
// is recomputed from the snapshot it is given.
type StructuralAnalyzer struct {
	config *config.DomainConfig
}

// NewStructuralAnalyzer creates a new structural analyzer
func NewStructuralAnalyzer(cfg *config.DomainConfig) *StructuralAnalyzer {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &StructuralAnalyzer{config: cfg}
}

// CycleResult reports the outcome of a cycle search. Path is closed: its
// first argument is repeated at the end.
type CycleResult struct {
	TreeID   valueobjects.TreeID       `json:"tree_id"`
	HasCycle bool                      `json:"has_cycle"`
	Path     []valueobjects.ArgumentID `json:"path,omitempty"`
}

// ConnectionPath is one walk through the connection graph. Shared[i] holds
// the statements passed from Arguments[i] to Arguments[i+1].
type ConnectionPath struct {
	Arguments []valueobjects.ArgumentID    `json:"arguments"`
	Shared    [][]valueobjects.StatementID `json:"shared_statements"`
	Hops      int                          `json:"hops"`
}

// UsageStatistics summarizes how statements and arguments are used
type UsageStatistics struct {
	TotalStatements      int                        `json:"total_statements"`
	TotalArguments       int                        `json:"total_arguments"`
	TotalTrees           int                        `json:"total_trees"`
	TotalNodes           int                        `json:"total_nodes"`
	TotalConnections     int                        `json:"total_connections"`
	UnusedStatements     []valueobjects.StatementID `json:"unused_statements"`
	UnconnectedArguments []valueobjects.ArgumentID  `json:"unconnected_arguments"`
}

// TreeStructure bundles the shape metrics of a single tree
type TreeStructure struct {
	TreeID      valueobjects.TreeID   `json:"tree_id"`
	NodeCount   int                   `json:"node_count"`
	Depth       int                   `json:"depth"`
	Breadth     int                   `json:"breadth"`
	LevelWidths []int                 `json:"level_widths"`
	LeafCount   int                   `json:"leaf_count"`
	RootNodeIDs []valueobjects.NodeID `json:"root_node_ids"`
	Cycle       CycleResult           `json:"cycle"`
}

// CycleDetect searches the provider→consumer graph of a tree's arguments
func (a *StructuralAnalyzer) CycleDetect(snap *aggregates.Snapshot, treeID valueobjects.TreeID) (CycleResult, error) {
	g, err := snap.TreeConnectionGraph(treeID)
	if err != nil {
		return CycleResult{}, err
	}
	result := CycleResult{TreeID: treeID}
	if path, found := g.FindCycle(); found {
		result.HasCycle = true
		result.Path = path
	}
	return result, nil
}

// TreeDepth returns the number of nodes on the longest root-to-leaf path.
// An empty tree has depth 0 and a lone root has depth 1.
func (a *StructuralAnalyzer) TreeDepth(snap *aggregates.Snapshot, treeID valueobjects.TreeID) (int, error) {
	levels, err := a.levels(snap, treeID)
	if err != nil {
		return 0, err
	}
	return len(levels), nil
}

// TreeBreadth returns the largest number of nodes found on any one level
func (a *StructuralAnalyzer) TreeBreadth(snap *aggregates.Snapshot, treeID valueobjects.TreeID) (int, error) {
	levels, err := a.levels(snap, treeID)
	if err != nil {
		return 0, err
	}
	return maxWidth(levels), nil
}

// BranchesOf returns the direct children of a node in attachment order
func (a *StructuralAnalyzer) BranchesOf(
	snap *aggregates.Snapshot,
	treeID valueobjects.TreeID,
	nodeID valueobjects.NodeID,
) ([]*entities.Node, error) {
	nodes, err := snap.TreeNodes(treeID)
	if err != nil {
		return nil, err
	}

	found := false
	children := make([]*entities.Node, 0)
	for _, n := range nodes {
		if n.ID() == nodeID {
			found = true
		}
		if n.ParentID() == nodeID {
			children = append(children, n)
		}
	}
	if !found {
		return nil, pkgerrors.NewNotFound("node", nodeID.String()).WithDetail("tree_id", treeID.String())
	}
	return children, nil
}

// ConnectionPaths walks the document connection graph breadth-first from one
// argument. With a target it returns the single shortest path (or none);
// without one it returns every simple path of at most maxDepth hops, capped
// at the configured result limit. maxDepth <= 0 uses the configured default.
func (a *StructuralAnalyzer) ConnectionPaths(
	snap *aggregates.Snapshot,
	from, to valueobjects.ArgumentID,
	maxDepth int,
) ([]ConnectionPath, error) {
	if _, ok := snap.Argument(from); !ok {
		return nil, pkgerrors.NewUnknownArgument(from.String())
	}
	if !to.IsZero() {
		if _, ok := snap.Argument(to); !ok {
			return nil, pkgerrors.NewUnknownArgument(to.String())
		}
	}
	if maxDepth <= 0 {
		maxDepth = a.config.DefaultMaxPathDepth
	}

	g := snap.ConnectionGraph()
	paths := make([]ConnectionPath, 0)

	if !to.IsZero() {
		if p, ok := g.ShortestPath(from, to, maxDepth); ok {
			paths = append(paths, toConnectionPath(p.Vertices, p.Labels))
		}
		return paths, nil
	}

	for _, p := range g.AllPaths(from, maxDepth, a.config.MaxPathResults) {
		paths = append(paths, toConnectionPath(p.Vertices, p.Labels))
	}
	return paths, nil
}

// UsageStatistics reports unused statements and unconnected arguments. An
// argument is unconnected when no node places it, or when it is placed but
// neither provides to nor consumes from any other argument.
func (a *StructuralAnalyzer) UsageStatistics(snap *aggregates.Snapshot) UsageStatistics {
	g := snap.ConnectionGraph()
	stats := UsageStatistics{
		TotalStatements:      snap.StatementCount(),
		TotalArguments:       snap.ArgumentCount(),
		TotalTrees:           snap.TreeCount(),
		TotalNodes:           snap.NodeCount(),
		TotalConnections:     g.EdgeCount(),
		UnusedStatements:     make([]valueobjects.StatementID, 0),
		UnconnectedArguments: make([]valueobjects.ArgumentID, 0),
	}

	for _, s := range snap.Statements() {
		if s.IsUnused() {
			stats.UnusedStatements = append(stats.UnusedStatements, s.ID())
		}
	}
	for _, arg := range snap.Arguments() {
		id := arg.ID()
		if len(snap.Placements(id)) == 0 || g.InDegree(id)+g.OutDegree(id) == 0 {
			stats.UnconnectedArguments = append(stats.UnconnectedArguments, id)
		}
	}
	return stats
}

// TreeStructure computes depth, breadth and related metrics for one tree
func (a *StructuralAnalyzer) TreeStructure(snap *aggregates.Snapshot, treeID valueobjects.TreeID) (TreeStructure, error) {
	tree, ok := snap.Tree(treeID)
	if !ok {
		return TreeStructure{}, pkgerrors.NewNotFound("tree", treeID.String())
	}
	nodes, err := snap.TreeNodes(treeID)
	if err != nil {
		return TreeStructure{}, err
	}
	cycle, err := a.CycleDetect(snap, treeID)
	if err != nil {
		return TreeStructure{}, err
	}

	levels := levelOrder(nodes, tree.RootNodeIDs())
	widths := make([]int, len(levels))
	for i, level := range levels {
		widths[i] = len(level)
	}

	parents := make(map[valueobjects.NodeID]bool, len(nodes))
	for _, n := range nodes {
		if !n.IsRoot() {
			parents[n.ParentID()] = true
		}
	}

	return TreeStructure{
		TreeID:      treeID,
		NodeCount:   len(nodes),
		Depth:       len(levels),
		Breadth:     maxWidth(levels),
		LevelWidths: widths,
		LeafCount:   len(nodes) - len(parents),
		RootNodeIDs: tree.RootNodeIDs(),
		Cycle:       cycle,
	}, nil
}

func (a *StructuralAnalyzer) levels(snap *aggregates.Snapshot, treeID valueobjects.TreeID) ([][]valueobjects.NodeID, error) {
	tree, ok := snap.Tree(treeID)
	if !ok {
		return nil, pkgerrors.NewNotFound("tree", treeID.String())
	}
	nodes, err := snap.TreeNodes(treeID)
	if err != nil {
		return nil, err
	}
	return levelOrder(nodes, tree.RootNodeIDs()), nil
}

// levelOrder groups node ids by depth, starting from the given roots.
// Children within a level keep attachment order.
func levelOrder(nodes []*entities.Node, roots []valueobjects.NodeID) [][]valueobjects.NodeID {
	children := make(map[valueobjects.NodeID][]valueobjects.NodeID)
	for _, n := range nodes {
		if !n.IsRoot() {
			children[n.ParentID()] = append(children[n.ParentID()], n.ID())
		}
	}

	var levels [][]valueobjects.NodeID
	current := roots
	for len(current) > 0 {
		levels = append(levels, current)
		var next []valueobjects.NodeID
		for _, id := range current {
			next = append(next, children[id]...)
		}
		current = next
	}
	return levels
}

func maxWidth(levels [][]valueobjects.NodeID) int {
	widest := 0
	for _, level := range levels {
		if len(level) > widest {
			widest = len(level)
		}
	}
	return widest
}

func toConnectionPath(arguments []valueobjects.ArgumentID, shared [][]valueobjects.StatementID) ConnectionPath {
	if shared == nil {
		shared = make([][]valueobjects.StatementID, 0)
	}
	return ConnectionPath{
		Arguments: arguments,
		Shared:    shared,
		Hops:      len(shared),
	}
}

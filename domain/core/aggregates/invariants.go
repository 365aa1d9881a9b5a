package aggregates

import (
	"fmt"
	"strings"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// checkTreeAcyclic fails with CycleDetected when the provider→consumer graph
// over the arguments placed in a tree contains a cycle
func checkTreeAcyclic(s *documentState, treeID valueobjects.TreeID) error {
	g := buildConnectionGraph(s.treeArguments(treeID))
	cycle, found := g.FindCycle()
	if !found {
		return nil
	}
	path := make([]string, len(cycle))
	for i, id := range cycle {
		path[i] = id.String()
	}
	return pkgerrors.NewCycleDetected(treeID.String(), path)
}

// checkInvariants verifies every structural rule of a document state:
// referential integrity, usage counts, node placement, root bookkeeping and
// per-tree acyclicity. It returns the first violation found.
func checkInvariants(s *documentState, cfg *config.DomainConfig) error {
	if s.version < 0 {
		return corrupt("INVALID_VERSION", fmt.Sprintf("version cannot be negative, got %d", s.version))
	}
	if len(s.statementOrder) != len(s.statements) || len(s.argumentOrder) != len(s.arguments) ||
		len(s.treeOrder) != len(s.trees) || len(s.nodeOrder) != len(s.nodes) {
		return corrupt("DUPLICATE_ID", "document contains duplicate or dangling ids")
	}

	for _, id := range s.argumentOrder {
		argument := s.arguments[id]
		for _, ref := range argument.AllStatementIDs() {
			if _, ok := s.statements[ref]; !ok {
				return pkgerrors.NewUnknownStatement(ref.String()).WithDetail("argument_id", id.String())
			}
		}
		if _, err := valueobjects.NewSideLabelsWithConfig(argument.SideLabels().Left(), argument.SideLabels().Right(), cfg); err != nil {
			return err
		}
	}

	counts := s.usageCounts()
	for _, id := range s.statementOrder {
		statement := s.statements[id]
		if statement.UsageCount() != counts[id] {
			return corrupt("USAGE_COUNT_MISMATCH",
				fmt.Sprintf("statement %q records usage %d but is referenced %d time(s)", id, statement.UsageCount(), counts[id])).
				WithDetail("statement_id", id.String())
		}
	}

	if err := checkNodes(s); err != nil {
		return err
	}

	for _, treeID := range s.treeOrder {
		if err := checkTreeAcyclic(s, treeID); err != nil {
			return err
		}
	}
	return nil
}

func checkNodes(s *documentState) error {
	for _, id := range s.nodeOrder {
		node := s.nodes[id]
		tree, ok := s.trees[node.TreeID()]
		if !ok {
			return pkgerrors.NewNotFound("tree", node.TreeID().String()).WithDetail("node_id", id.String())
		}
		argument, ok := s.arguments[node.ArgumentID()]
		if !ok {
			return pkgerrors.NewUnknownArgument(node.ArgumentID().String()).WithDetail("node_id", id.String())
		}

		attachment, attached := node.Attachment()
		if !attached {
			if !tree.HasRoot(id) {
				return corrupt("ROOT_MISMATCH", fmt.Sprintf("root node %q is not listed by tree %q", id, tree.ID()))
			}
			continue
		}
		if tree.HasRoot(id) {
			return corrupt("ROOT_MISMATCH", fmt.Sprintf("attached node %q is listed as a root of tree %q", id, tree.ID()))
		}

		parent, ok := s.nodes[attachment.ParentNodeID]
		if !ok || parent.TreeID() != node.TreeID() {
			return pkgerrors.NewUnknownParent(attachment.ParentNodeID.String(), node.TreeID().String())
		}
		parentArgument, ok := s.arguments[parent.ArgumentID()]
		if !ok {
			return pkgerrors.NewUnknownArgument(parent.ArgumentID().String())
		}
		if attachment.PremisePosition < 0 || attachment.PremisePosition >= parentArgument.PremiseCount() {
			return pkgerrors.NewPositionOutOfRange("premise position", attachment.PremisePosition, parentArgument.PremiseCount()).
				WithDetail("node_id", id.String())
		}
		if f := attachment.FromPosition; f != nil && (*f < 0 || *f >= argument.ConclusionCount()) {
			return pkgerrors.NewPositionOutOfRange("from position", *f, argument.ConclusionCount()).
				WithDetail("node_id", id.String())
		}
	}

	for _, treeID := range s.treeOrder {
		for _, rootID := range s.trees[treeID].RootNodeIDs() {
			root, ok := s.nodes[rootID]
			if !ok || root.TreeID() != treeID || !root.IsRoot() {
				return corrupt("ROOT_MISMATCH", fmt.Sprintf("tree %q lists %q which is not one of its root nodes", treeID, rootID))
			}
		}
	}

	// Parent pointers must form a forest.
	for _, id := range s.nodeOrder {
		if loop := parentLoop(s, id); loop != nil {
			treeID := s.nodes[id].TreeID().String()
			return corrupt("PARENT_CYCLE",
				fmt.Sprintf("parent pointers in tree %q form a loop: %s", treeID, strings.Join(loop, " -> "))).
				WithDetail("tree_id", treeID).
				WithDetail("path", loop)
		}
	}
	return nil
}

// parentLoop follows parent pointers from id and returns the loop it runs
// into, closed on its first node, or nil when the walk reaches a root.
func parentLoop(s *documentState, id valueobjects.NodeID) []string {
	index := map[valueobjects.NodeID]int{id: 0}
	walk := []valueobjects.NodeID{id}
	for current := s.nodes[id].ParentID(); !current.IsZero(); current = s.nodes[current].ParentID() {
		if start, seen := index[current]; seen {
			loop := make([]string, 0, len(walk)-start+1)
			for _, n := range walk[start:] {
				loop = append(loop, n.String())
			}
			return append(loop, current.String())
		}
		index[current] = len(walk)
		walk = append(walk, current)
	}
	return nil
}

func corrupt(code, message string) *pkgerrors.DomainError {
	return pkgerrors.NewDomainError(pkgerrors.KindInvalidContent, code, message)
}

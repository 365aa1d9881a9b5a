package aggregates

import (
	"sort"

	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/graph"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
)

// ConnectionGraph is the provider→consumer graph over arguments. Each edge
// is labelled with the statement ids the provider concludes and the consumer
// takes as premises.
type ConnectionGraph = graph.Digraph[valueobjects.ArgumentID, []valueobjects.StatementID]

// documentState is one immutable version of the document. Published states
// are never mutated; a mutation clones the maps and replaces changed entities
// with modified clones.
type documentState struct {
	version int

	statements     map[valueobjects.StatementID]*entities.Statement
	statementOrder []valueobjects.StatementID

	arguments     map[valueobjects.ArgumentID]*entities.AtomicArgument
	argumentOrder []valueobjects.ArgumentID

	trees     map[valueobjects.TreeID]*entities.Tree
	treeOrder []valueobjects.TreeID

	nodes     map[valueobjects.NodeID]*entities.Node
	nodeOrder []valueobjects.NodeID
}

func emptyState() *documentState {
	return &documentState{
		statements: make(map[valueobjects.StatementID]*entities.Statement),
		arguments:  make(map[valueobjects.ArgumentID]*entities.AtomicArgument),
		trees:      make(map[valueobjects.TreeID]*entities.Tree),
		nodes:      make(map[valueobjects.NodeID]*entities.Node),
	}
}

func (s *documentState) clone() *documentState {
	c := &documentState{
		version:        s.version,
		statements:     make(map[valueobjects.StatementID]*entities.Statement, len(s.statements)),
		statementOrder: append([]valueobjects.StatementID(nil), s.statementOrder...),
		arguments:      make(map[valueobjects.ArgumentID]*entities.AtomicArgument, len(s.arguments)),
		argumentOrder:  append([]valueobjects.ArgumentID(nil), s.argumentOrder...),
		trees:          make(map[valueobjects.TreeID]*entities.Tree, len(s.trees)),
		treeOrder:      append([]valueobjects.TreeID(nil), s.treeOrder...),
		nodes:          make(map[valueobjects.NodeID]*entities.Node, len(s.nodes)),
		nodeOrder:      append([]valueobjects.NodeID(nil), s.nodeOrder...),
	}
	for k, v := range s.statements {
		c.statements[k] = v
	}
	for k, v := range s.arguments {
		c.arguments[k] = v
	}
	for k, v := range s.trees {
		c.trees[k] = v
	}
	for k, v := range s.nodes {
		c.nodes[k] = v
	}
	return c
}

// orderedArguments returns arguments in registration order
func (s *documentState) orderedArguments() []*entities.AtomicArgument {
	out := make([]*entities.AtomicArgument, 0, len(s.argumentOrder))
	for _, id := range s.argumentOrder {
		out = append(out, s.arguments[id])
	}
	return out
}

// treeNodes returns the nodes of a tree in attachment order
func (s *documentState) treeNodes(treeID valueobjects.TreeID) []*entities.Node {
	var out []*entities.Node
	for _, id := range s.nodeOrder {
		if n := s.nodes[id]; n.TreeID() == treeID {
			out = append(out, n)
		}
	}
	return out
}

// children returns the direct children of a node in attachment order
func (s *documentState) children(parentID valueobjects.NodeID) []*entities.Node {
	var out []*entities.Node
	for _, id := range s.nodeOrder {
		if n := s.nodes[id]; n.ParentID() == parentID && !n.IsRoot() {
			out = append(out, n)
		}
	}
	return out
}

// subtree returns nodeID and all of its descendants in breadth-first order
func (s *documentState) subtree(nodeID valueobjects.NodeID) []valueobjects.NodeID {
	byParent := make(map[valueobjects.NodeID][]valueobjects.NodeID)
	for _, id := range s.nodeOrder {
		if n := s.nodes[id]; !n.IsRoot() {
			byParent[n.ParentID()] = append(byParent[n.ParentID()], id)
		}
	}

	out := []valueobjects.NodeID{nodeID}
	for i := 0; i < len(out); i++ {
		out = append(out, byParent[out[i]]...)
	}
	return out
}

// placements returns the nodes instantiating an argument, in attachment order
func (s *documentState) placements(argumentID valueobjects.ArgumentID) []valueobjects.NodeID {
	var out []valueobjects.NodeID
	for _, id := range s.nodeOrder {
		if s.nodes[id].ArgumentID() == argumentID {
			out = append(out, id)
		}
	}
	return out
}

// treeArguments returns the distinct arguments placed in a tree, in first-placement order
func (s *documentState) treeArguments(treeID valueobjects.TreeID) []*entities.AtomicArgument {
	seen := make(map[valueobjects.ArgumentID]bool)
	var out []*entities.AtomicArgument
	for _, n := range s.treeNodes(treeID) {
		if seen[n.ArgumentID()] {
			continue
		}
		seen[n.ArgumentID()] = true
		if arg, ok := s.arguments[n.ArgumentID()]; ok {
			out = append(out, arg)
		}
	}
	return out
}

// treesContaining returns the trees in which an argument is placed
func (s *documentState) treesContaining(argumentID valueobjects.ArgumentID) []valueobjects.TreeID {
	seen := make(map[valueobjects.TreeID]bool)
	var out []valueobjects.TreeID
	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		if n.ArgumentID() != argumentID || seen[n.TreeID()] {
			continue
		}
		seen[n.TreeID()] = true
		out = append(out, n.TreeID())
	}
	return out
}

// usageCounts recomputes every statement's (argument, role) reference count
func (s *documentState) usageCounts() map[valueobjects.StatementID]int {
	counts := make(map[valueobjects.StatementID]int, len(s.statements))
	for _, id := range s.argumentOrder {
		for _, ref := range s.arguments[id].References() {
			counts[ref]++
		}
	}
	return counts
}

func removeID[T comparable](ids []T, target T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// buildConnectionGraph links every provider to each consumer whose premises
// include one of the provider's conclusions. Self-edges are never added, so a
// restating argument does not form a cycle with itself. Every argument becomes
// a vertex even when it has no connections. Edges out of a provider follow
// the consumers' order in args.
func buildConnectionGraph(args []*entities.AtomicArgument) *ConnectionGraph {
	g := graph.New[valueobjects.ArgumentID, []valueobjects.StatementID]()

	consumersOf := make(map[valueobjects.StatementID][]int)
	for i, arg := range args {
		g.AddVertex(arg.ID())
		for _, p := range arg.Premises() {
			consumersOf[p] = appendUnique(consumersOf[p], i)
		}
	}

	for _, provider := range args {
		var candidates []int
		seen := make(map[int]bool)
		for _, c := range provider.Conclusions() {
			for _, idx := range consumersOf[c] {
				if !seen[idx] {
					seen[idx] = true
					candidates = append(candidates, idx)
				}
			}
		}
		sort.Ints(candidates)

		for _, idx := range candidates {
			if shared := provider.SharedWith(args[idx]); len(shared) > 0 {
				g.AddEdge(provider.ID(), args[idx].ID(), shared)
			}
		}
	}
	return g
}

func appendUnique(xs []int, x int) []int {
	if n := len(xs); n > 0 && xs[n-1] == x {
		return xs
	}
	return append(xs, x)
}

package aggregates

import (
	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// Snapshot is a read-only view of one document version. It is safe to share
// between goroutines; every entity it hands out is a copy.
type Snapshot struct {
	documentID valueobjects.DocumentID
	state      *documentState
}

func (s *Snapshot) DocumentID() valueobjects.DocumentID { return s.documentID }
func (s *Snapshot) Version() int                        { return s.state.version }
func (s *Snapshot) StatementCount() int                 { return len(s.state.statements) }
func (s *Snapshot) ArgumentCount() int                  { return len(s.state.arguments) }
func (s *Snapshot) TreeCount() int                      { return len(s.state.trees) }
func (s *Snapshot) NodeCount() int                      { return len(s.state.nodes) }

// Statement returns a statement by id
func (s *Snapshot) Statement(id valueobjects.StatementID) (*entities.Statement, bool) {
	statement, ok := s.state.statements[id]
	if !ok {
		return nil, false
	}
	return statement.Clone(), true
}

// Statements returns all statements in creation order
func (s *Snapshot) Statements() []*entities.Statement {
	out := make([]*entities.Statement, 0, len(s.state.statementOrder))
	for _, id := range s.state.statementOrder {
		out = append(out, s.state.statements[id].Clone())
	}
	return out
}

// Argument returns an argument by id
func (s *Snapshot) Argument(id valueobjects.ArgumentID) (*entities.AtomicArgument, bool) {
	argument, ok := s.state.arguments[id]
	if !ok {
		return nil, false
	}
	return argument.Clone(), true
}

// Arguments returns all arguments in creation order
func (s *Snapshot) Arguments() []*entities.AtomicArgument {
	out := make([]*entities.AtomicArgument, 0, len(s.state.argumentOrder))
	for _, id := range s.state.argumentOrder {
		out = append(out, s.state.arguments[id].Clone())
	}
	return out
}

// Tree returns a tree by id
func (s *Snapshot) Tree(id valueobjects.TreeID) (*entities.Tree, bool) {
	tree, ok := s.state.trees[id]
	if !ok {
		return nil, false
	}
	return tree.Clone(), true
}

// Trees returns all trees in creation order
func (s *Snapshot) Trees() []*entities.Tree {
	out := make([]*entities.Tree, 0, len(s.state.treeOrder))
	for _, id := range s.state.treeOrder {
		out = append(out, s.state.trees[id].Clone())
	}
	return out
}

// Node returns a node by id
func (s *Snapshot) Node(id valueobjects.NodeID) (*entities.Node, bool) {
	node, ok := s.state.nodes[id]
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Nodes returns all nodes in attachment order
func (s *Snapshot) Nodes() []*entities.Node {
	out := make([]*entities.Node, 0, len(s.state.nodeOrder))
	for _, id := range s.state.nodeOrder {
		out = append(out, s.state.nodes[id].Clone())
	}
	return out
}

// TreeNodes returns the nodes of a tree in attachment order
func (s *Snapshot) TreeNodes(treeID valueobjects.TreeID) ([]*entities.Node, error) {
	if _, ok := s.state.trees[treeID]; !ok {
		return nil, pkgerrors.NewNotFound("tree", treeID.String())
	}
	nodes := s.state.treeNodes(treeID)
	out := make([]*entities.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out, nil
}

// Placements returns the nodes that instantiate an argument
func (s *Snapshot) Placements(argumentID valueobjects.ArgumentID) []valueobjects.NodeID {
	return s.state.placements(argumentID)
}

// ConnectionGraph builds the document-wide provider→consumer graph
func (s *Snapshot) ConnectionGraph() *ConnectionGraph {
	return buildConnectionGraph(s.state.orderedArguments())
}

// TreeConnectionGraph builds the provider→consumer graph restricted to the
// arguments placed in one tree
func (s *Snapshot) TreeConnectionGraph(treeID valueobjects.TreeID) (*ConnectionGraph, error) {
	if _, ok := s.state.trees[treeID]; !ok {
		return nil, pkgerrors.NewNotFound("tree", treeID.String())
	}
	return buildConnectionGraph(s.state.treeArguments(treeID)), nil
}

package aggregates

import (
	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	"github.com/nate123456/proof-editor-sub008/domain/events"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// CreateTree adds an empty tree at a layout position
func (p *ProofAggregate) CreateTree(expectedVersion int, position valueobjects.Position, bounds *valueobjects.Bounds) (valueobjects.TreeID, error) {
	var id valueobjects.TreeID
	err := p.apply(expectedVersion, func(m *mutation) error {
		tree := entities.NewTree(position, bounds, m.now)
		id = tree.ID()
		m.state.trees[id] = tree
		m.state.treeOrder = append(m.state.treeOrder, id)

		m.raise(events.NewTreeCreated(m.documentID, m.version, id, position, m.now))
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// MoveTree changes a tree's layout position
func (p *ProofAggregate) MoveTree(expectedVersion int, id valueobjects.TreeID, position valueobjects.Position) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		tree, err := m.mutableTree(id)
		if err != nil {
			return err
		}
		old := tree.Position()
		tree.MoveTo(position)

		m.raise(events.NewTreeMoved(m.documentID, m.version, id, old, position, m.now))
		return nil
	})
}

// RemoveTree deletes a tree together with every node placed in it.
// The arguments themselves stay registered.
func (p *ProofAggregate) RemoveTree(expectedVersion int, id valueobjects.TreeID) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		if _, ok := m.state.trees[id]; !ok {
			return pkgerrors.NewNotFound("tree", id.String())
		}

		var removed []valueobjects.NodeID
		for _, n := range m.state.treeNodes(id) {
			removed = append(removed, n.ID())
		}
		m.removeNodes(removed)
		delete(m.state.trees, id)
		m.state.treeOrder = removeID(m.state.treeOrder, id)

		m.raise(events.NewTreeRemoved(m.documentID, m.version, id, removed, m.now))
		return nil
	})
}

// AttachNode places an argument in a tree. A zero parentID makes the node a
// root; otherwise the node hangs off the parent's premise at premisePosition,
// optionally fed by the child's conclusion at fromPosition. The attachment is
// simulated and rejected with CycleDetected if the tree's connection graph
// would contain a cycle.
func (p *ProofAggregate) AttachNode(
	expectedVersion int,
	treeID valueobjects.TreeID,
	argumentID valueobjects.ArgumentID,
	parentID valueobjects.NodeID,
	premisePosition int,
	fromPosition *int,
) (valueobjects.NodeID, error) {
	var id valueobjects.NodeID
	err := p.apply(expectedVersion, func(m *mutation) error {
		tree, err := m.mutableTree(treeID)
		if err != nil {
			return err
		}
		argument, ok := m.state.arguments[argumentID]
		if !ok {
			return pkgerrors.NewUnknownArgument(argumentID.String())
		}
		if len(m.state.treeNodes(treeID)) >= m.config.MaxNodesPerTree {
			return limitExceeded("nodes per tree", m.config.MaxNodesPerTree)
		}

		var node *entities.Node
		if parentID.IsZero() {
			node, err = entities.NewRootNode(treeID, argumentID, m.now)
			if err != nil {
				return err
			}
			tree.AddRoot(node.ID())
		} else {
			attachment := entities.Attachment{ParentNodeID: parentID, PremisePosition: premisePosition, FromPosition: fromPosition}
			if err := m.checkAttachment(treeID, argument, attachment); err != nil {
				return err
			}
			node, err = entities.NewChildNode(treeID, argumentID, attachment, m.now)
			if err != nil {
				return err
			}
		}

		id = node.ID()
		m.state.nodes[id] = node
		m.state.nodeOrder = append(m.state.nodeOrder, id)

		if err := checkTreeAcyclic(m.state, treeID); err != nil {
			return err
		}

		m.raise(events.NewNodeAttached(m.documentID, m.version, id, treeID, argumentID, parentID, premisePosition, fromPosition, m.now))
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DetachNode removes a node from its tree. A node with children is only
// removed when cascade is set and the configuration allows cascading, in
// which case its whole subtree goes with it; otherwise HasChildren is returned.
func (p *ProofAggregate) DetachNode(expectedVersion int, id valueobjects.NodeID, cascade bool) ([]valueobjects.NodeID, error) {
	var removed []valueobjects.NodeID
	err := p.apply(expectedVersion, func(m *mutation) error {
		node, ok := m.state.nodes[id]
		if !ok {
			return pkgerrors.NewNotFound("node", id.String())
		}
		if children := m.state.children(id); len(children) > 0 && (!cascade || !m.config.AllowCascadeDetach) {
			return pkgerrors.NewHasChildren("node", id.String(), len(children))
		}

		removed = m.state.subtree(id)
		m.removeNodes(removed)

		m.raise(events.NewNodeDetached(m.documentID, m.version, id, node.TreeID(), removed, m.now))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ReattachNode moves a node, with its subtree, to another parent slot in the
// same tree. The old edge is dropped and the new one checked as one step, so
// the move is rejected if the new placement alone would cycle. Attaching a
// node beneath itself is reported as CycleDetected. A zero newParentID turns
// the node into a root.
func (p *ProofAggregate) ReattachNode(
	expectedVersion int,
	id valueobjects.NodeID,
	newParentID valueobjects.NodeID,
	premisePosition int,
	fromPosition *int,
) error {
	return p.apply(expectedVersion, func(m *mutation) error {
		node, err := m.mutableNode(id)
		if err != nil {
			return err
		}
		tree, err := m.mutableTree(node.TreeID())
		if err != nil {
			return err
		}
		oldParent := node.ParentID()

		if newParentID.IsZero() {
			node.Detach()
			tree.AddRoot(id)
		} else {
			if path := m.ancestryPath(newParentID, id); path != nil {
				return pkgerrors.NewCycleDetected(node.TreeID().String(), path)
			}
			argument := m.state.arguments[node.ArgumentID()]
			attachment := entities.Attachment{ParentNodeID: newParentID, PremisePosition: premisePosition, FromPosition: fromPosition}
			if err := m.checkAttachment(node.TreeID(), argument, attachment); err != nil {
				return err
			}
			node.Reattach(attachment)
			tree.RemoveRoot(id)
		}

		m.state.nodeOrder = append(removeID(m.state.nodeOrder, id), id)

		if err := checkTreeAcyclic(m.state, node.TreeID()); err != nil {
			return err
		}

		m.raise(events.NewNodeReattached(m.documentID, m.version, id, node.TreeID(), oldParent, newParentID, premisePosition, m.now))
		return nil
	})
}

// checkAttachment validates the parent and both positions of an attachment
func (m *mutation) checkAttachment(treeID valueobjects.TreeID, child *entities.AtomicArgument, a entities.Attachment) error {
	parent, ok := m.state.nodes[a.ParentNodeID]
	if !ok || parent.TreeID() != treeID {
		return pkgerrors.NewUnknownParent(a.ParentNodeID.String(), treeID.String())
	}
	parentArgument, ok := m.state.arguments[parent.ArgumentID()]
	if !ok {
		return pkgerrors.NewUnknownArgument(parent.ArgumentID().String())
	}
	if a.PremisePosition < 0 || a.PremisePosition >= parentArgument.PremiseCount() {
		return pkgerrors.NewPositionOutOfRange("premise position", a.PremisePosition, parentArgument.PremiseCount())
	}
	if a.FromPosition != nil && (*a.FromPosition < 0 || *a.FromPosition >= child.ConclusionCount()) {
		return pkgerrors.NewPositionOutOfRange("from position", *a.FromPosition, child.ConclusionCount())
	}
	return nil
}

// checkTreePositions re-validates every attachment in a tree, used after an
// argument's premise or conclusion sequences change
func (m *mutation) checkTreePositions(treeID valueobjects.TreeID) error {
	for _, n := range m.state.treeNodes(treeID) {
		a, ok := n.Attachment()
		if !ok {
			continue
		}
		if err := m.checkAttachment(treeID, m.state.arguments[n.ArgumentID()], a); err != nil {
			return err
		}
	}
	return nil
}

// ancestryPath returns the closed node path proving that start lies in
// target's subtree (target ... start, target), or nil when it does not
func (m *mutation) ancestryPath(start, target valueobjects.NodeID) []string {
	var chain []string
	seen := make(map[valueobjects.NodeID]bool)
	for current := start; !current.IsZero(); {
		if seen[current] {
			return nil
		}
		seen[current] = true
		chain = append(chain, current.String())
		if current == target {
			path := make([]string, 0, len(chain)+1)
			for i := len(chain) - 1; i >= 0; i-- {
				path = append(path, chain[i])
			}
			return append(path, target.String())
		}
		node, ok := m.state.nodes[current]
		if !ok {
			return nil
		}
		current = node.ParentID()
	}
	return nil
}

// removeNodes drops nodes and any root references to them
func (m *mutation) removeNodes(ids []valueobjects.NodeID) {
	for _, id := range ids {
		node, ok := m.state.nodes[id]
		if !ok {
			continue
		}
		if node.IsRoot() {
			if tree, err := m.mutableTree(node.TreeID()); err == nil {
				tree.RemoveRoot(id)
			}
		}
		delete(m.state.nodes, id)
		m.state.nodeOrder = removeID(m.state.nodeOrder, id)
	}
}

func (m *mutation) mutableTree(id valueobjects.TreeID) (*entities.Tree, error) {
	tree, ok := m.state.trees[id]
	if !ok {
		return nil, pkgerrors.NewNotFound("tree", id.String())
	}
	clone := tree.Clone()
	m.state.trees[id] = clone
	return clone, nil
}

func (m *mutation) mutableNode(id valueobjects.NodeID) (*entities.Node, error) {
	node, ok := m.state.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFound("node", id.String())
	}
	clone := node.Clone()
	m.state.nodes[id] = clone
	return clone, nil
}

package aggregates

import (
	"time"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/core/entities"
	"github.com/nate123456/proof-editor-sub008/domain/core/valueobjects"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// DocumentData is the in-memory persisted-state shape exchanged with storage
// adapters. Slices keep registration order so a round trip is lossless.
type DocumentData struct {
	ID         string          `json:"id"`
	Version    int             `json:"version"`
	Statements []StatementData `json:"statements"`
	Arguments  []ArgumentData  `json:"arguments"`
	Trees      []TreeData      `json:"trees"`
	Nodes      []NodeData      `json:"nodes"`
}

// StatementData is the stored shape of a statement
type StatementData struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ArgumentData is the stored shape of an atomic argument
type ArgumentData struct {
	ID          string    `json:"id"`
	Premises    []string  `json:"premises"`
	Conclusions []string  `json:"conclusions"`
	LeftLabel   string    `json:"left_label,omitempty"`
	RightLabel  string    `json:"right_label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// TreeData is the stored shape of a tree
type TreeData struct {
	ID          string                `json:"id"`
	Position    valueobjects.Position `json:"position"`
	Bounds      *valueobjects.Bounds  `json:"bounds,omitempty"`
	RootNodeIDs []string              `json:"root_node_ids"`
	CreatedAt   time.Time             `json:"created_at"`
}

// NodeData is the stored shape of a node; an empty ParentNodeID marks a root
type NodeData struct {
	ID              string    `json:"id"`
	TreeID          string    `json:"tree_id"`
	ArgumentID      string    `json:"argument_id"`
	ParentNodeID    string    `json:"parent_node_id,omitempty"`
	PremisePosition int       `json:"premise_position"`
	FromPosition    *int      `json:"from_position,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Export captures the current state as DocumentData
func (p *ProofAggregate) Export() DocumentData {
	return p.Snapshot().Export()
}

// Export captures the snapshot as DocumentData
func (s *Snapshot) Export() DocumentData {
	st := s.state
	data := DocumentData{
		ID:         s.documentID.String(),
		Version:    st.version,
		Statements: make([]StatementData, 0, len(st.statementOrder)),
		Arguments:  make([]ArgumentData, 0, len(st.argumentOrder)),
		Trees:      make([]TreeData, 0, len(st.treeOrder)),
		Nodes:      make([]NodeData, 0, len(st.nodeOrder)),
	}

	for _, id := range st.statementOrder {
		statement := st.statements[id]
		data.Statements = append(data.Statements, StatementData{
			ID:         id.String(),
			Content:    statement.Content().String(),
			UsageCount: statement.UsageCount(),
			CreatedAt:  statement.CreatedAt(),
			ModifiedAt: statement.ModifiedAt(),
		})
	}

	for _, id := range st.argumentOrder {
		argument := st.arguments[id]
		data.Arguments = append(data.Arguments, ArgumentData{
			ID:          id.String(),
			Premises:    idStrings(argument.Premises()),
			Conclusions: idStrings(argument.Conclusions()),
			LeftLabel:   argument.SideLabels().Left(),
			RightLabel:  argument.SideLabels().Right(),
			CreatedAt:   argument.CreatedAt(),
			ModifiedAt:  argument.ModifiedAt(),
		})
	}

	for _, id := range st.treeOrder {
		tree := st.trees[id]
		data.Trees = append(data.Trees, TreeData{
			ID:          id.String(),
			Position:    tree.Position(),
			Bounds:      tree.Bounds(),
			RootNodeIDs: idStrings(tree.RootNodeIDs()),
			CreatedAt:   tree.CreatedAt(),
		})
	}

	for _, id := range st.nodeOrder {
		node := st.nodes[id]
		nd := NodeData{
			ID:         id.String(),
			TreeID:     node.TreeID().String(),
			ArgumentID: node.ArgumentID().String(),
			CreatedAt:  node.CreatedAt(),
		}
		if a, ok := node.Attachment(); ok {
			nd.ParentNodeID = a.ParentNodeID.String()
			nd.PremisePosition = a.PremisePosition
			nd.FromPosition = a.FromPosition
		}
		data.Nodes = append(data.Nodes, nd)
	}
	return data
}

// Reconstruct rebuilds an aggregate from persisted state. Every invariant is
// re-checked and a corrupt document is rejected rather than trusted.
func Reconstruct(data DocumentData, cfg *config.DomainConfig, opts ...Option) (*ProofAggregate, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if data.ID == "" {
		return nil, corrupt("MISSING_ID", "document id cannot be empty")
	}

	st := emptyState()
	st.version = data.Version

	for _, sd := range data.Statements {
		content, err := valueobjects.NewStatementContentWithConfig(sd.Content, cfg)
		if err != nil {
			return nil, err
		}
		statement, err := entities.ReconstructStatement(valueobjects.StatementID(sd.ID), content, sd.UsageCount, sd.CreatedAt, sd.ModifiedAt)
		if err != nil {
			return nil, err
		}
		st.statements[statement.ID()] = statement
		st.statementOrder = append(st.statementOrder, statement.ID())
	}

	for _, ad := range data.Arguments {
		labels, err := valueobjects.NewSideLabelsWithConfig(ad.LeftLabel, ad.RightLabel, cfg)
		if err != nil {
			return nil, err
		}
		argument, err := entities.ReconstructAtomicArgument(
			valueobjects.ArgumentID(ad.ID),
			valueobjects.StatementIDs(ad.Premises),
			valueobjects.StatementIDs(ad.Conclusions),
			labels, ad.CreatedAt, ad.ModifiedAt,
		)
		if err != nil {
			return nil, err
		}
		st.arguments[argument.ID()] = argument
		st.argumentOrder = append(st.argumentOrder, argument.ID())
	}

	for _, td := range data.Trees {
		roots := make([]valueobjects.NodeID, len(td.RootNodeIDs))
		for i, r := range td.RootNodeIDs {
			roots[i] = valueobjects.NodeID(r)
		}
		tree, err := entities.ReconstructTree(valueobjects.TreeID(td.ID), td.Position, td.Bounds, roots, td.CreatedAt)
		if err != nil {
			return nil, err
		}
		st.trees[tree.ID()] = tree
		st.treeOrder = append(st.treeOrder, tree.ID())
	}

	for _, nd := range data.Nodes {
		var attachment *entities.Attachment
		if nd.ParentNodeID != "" {
			attachment = &entities.Attachment{
				ParentNodeID:    valueobjects.NodeID(nd.ParentNodeID),
				PremisePosition: nd.PremisePosition,
				FromPosition:    nd.FromPosition,
			}
		}
		node, err := entities.ReconstructNode(
			valueobjects.NodeID(nd.ID),
			valueobjects.TreeID(nd.TreeID),
			valueobjects.ArgumentID(nd.ArgumentID),
			attachment, nd.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		st.nodes[node.ID()] = node
		st.nodeOrder = append(st.nodeOrder, node.ID())
	}

	if err := checkInvariants(st, cfg); err != nil {
		if domainErr := pkgerrors.GetDomainError(err); domainErr != nil {
			domainErr.WithDetail("document_id", data.ID)
		}
		return nil, err
	}

	p := NewProofAggregate(cfg, append(opts, WithDocumentID(valueobjects.DocumentID(data.ID)))...)
	p.state.Store(st)
	return p, nil
}

func idStrings[T ~string](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

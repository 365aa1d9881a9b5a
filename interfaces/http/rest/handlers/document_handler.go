package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/commands"
	"github.com/nate123456/proof-editor-sub008/application/commands/bus"
	"github.com/nate123456/proof-editor-sub008/application/queries"
	querybus "github.com/nate123456/proof-editor-sub008/application/queries/bus"
	"github.com/nate123456/proof-editor-sub008/pkg/common"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured
const DefaultMaxBodyBytes = 1 << 20

// DocumentHandler maps proof document HTTP requests onto the command and
// query buses
type DocumentHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errors       *pkgerrors.ErrorHandler
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
	maxBodyBytes int64,
) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errorHandler == nil {
		errorHandler = pkgerrors.NewErrorHandler(logger, false)
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &DocumentHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errors:       errorHandler,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes mounts every document endpoint on r
func (h *DocumentHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateDocument)
	r.Get("/", h.ListDocuments)

	r.Route("/{documentID}", func(r chi.Router) {
		r.Get("/", h.GetDocument)
		r.Delete("/", h.DeleteDocument)

		r.Get("/validation", h.ValidateDocument)
		r.Post("/validation", h.ValidateDocument)
		r.Get("/bootstrap", h.GetBootstrapStatus)
		r.Get("/statistics", h.GetUsageStatistics)
		r.Get("/paths", h.GetConnectionPaths)

		r.Post("/statements", h.AddStatement)
		r.Put("/statements/{statementID}", h.EditStatement)
		r.Delete("/statements/{statementID}", h.RemoveStatement)

		r.Post("/arguments", h.AddArgument)
		r.Put("/arguments/{argumentID}/statements", h.UpdateArgumentStatements)
		r.Put("/arguments/{argumentID}/labels", h.UpdateSideLabels)
		r.Delete("/arguments/{argumentID}", h.RemoveArgument)

		r.Post("/trees", h.CreateTree)
		r.Put("/trees/{treeID}/position", h.MoveTree)
		r.Delete("/trees/{treeID}", h.RemoveTree)
		r.Get("/trees/{treeID}/structure", h.GetTreeStructure)
		r.Post("/trees/{treeID}/nodes", h.AttachNode)
		r.Get("/trees/{treeID}/nodes/{nodeID}/branches", h.GetBranches)

		r.Put("/nodes/{nodeID}/parent", h.ReattachNode)
		r.Delete("/nodes/{nodeID}", h.DetachNode)
	})
}

// CreateDocument handles POST /documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusCreated, commands.CreateDocumentCommand{})
}

// DeleteDocument handles DELETE /documents/{documentID}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.DeleteDocumentCommand{DocumentID: chi.URLParam(r, "documentID")})
}

// AddStatement handles POST /documents/{documentID}/statements
func (h *DocumentHandler) AddStatement(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddStatementCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	h.send(w, r, http.StatusCreated, cmd)
}

// EditStatement handles PUT /documents/{documentID}/statements/{statementID}
func (h *DocumentHandler) EditStatement(w http.ResponseWriter, r *http.Request) {
	var cmd commands.EditStatementCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	cmd.StatementID = chi.URLParam(r, "statementID")
	h.send(w, r, http.StatusOK, cmd)
}

// RemoveStatement handles DELETE /documents/{documentID}/statements/{statementID}
func (h *DocumentHandler) RemoveStatement(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}
	h.send(w, r, http.StatusOK, commands.RemoveStatementCommand{
		DocumentCommand: target,
		StatementID:     chi.URLParam(r, "statementID"),
	})
}

// AddArgument handles POST /documents/{documentID}/arguments
func (h *DocumentHandler) AddArgument(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddArgumentCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	h.send(w, r, http.StatusCreated, cmd)
}

// UpdateArgumentStatements handles PUT /documents/{documentID}/arguments/{argumentID}/statements
func (h *DocumentHandler) UpdateArgumentStatements(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateArgumentStatementsCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	cmd.ArgumentID = chi.URLParam(r, "argumentID")
	h.send(w, r, http.StatusOK, cmd)
}

// UpdateSideLabels handles PUT /documents/{documentID}/arguments/{argumentID}/labels
func (h *DocumentHandler) UpdateSideLabels(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateSideLabelsCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	cmd.ArgumentID = chi.URLParam(r, "argumentID")
	h.send(w, r, http.StatusOK, cmd)
}

// RemoveArgument handles DELETE /documents/{documentID}/arguments/{argumentID}
func (h *DocumentHandler) RemoveArgument(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}
	h.send(w, r, http.StatusOK, commands.RemoveArgumentCommand{
		DocumentCommand: target,
		ArgumentID:      chi.URLParam(r, "argumentID"),
	})
}

// CreateTree handles POST /documents/{documentID}/trees
func (h *DocumentHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateTreeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	h.send(w, r, http.StatusCreated, cmd)
}

// MoveTree handles PUT /documents/{documentID}/trees/{treeID}/position
func (h *DocumentHandler) MoveTree(w http.ResponseWriter, r *http.Request) {
	var cmd commands.MoveTreeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	cmd.TreeID = chi.URLParam(r, "treeID")
	h.send(w, r, http.StatusOK, cmd)
}

// RemoveTree handles DELETE /documents/{documentID}/trees/{treeID}
func (h *DocumentHandler) RemoveTree(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}
	h.send(w, r, http.StatusOK, commands.RemoveTreeCommand{
		DocumentCommand: target,
		TreeID:          chi.URLParam(r, "treeID"),
	})
}

// AttachNode handles POST /documents/{documentID}/trees/{treeID}/nodes
func (h *DocumentHandler) AttachNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AttachNodeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	cmd.TreeID = chi.URLParam(r, "treeID")
	h.send(w, r, http.StatusCreated, cmd)
}

// ReattachNode handles PUT /documents/{documentID}/nodes/{nodeID}/parent
func (h *DocumentHandler) ReattachNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ReattachNodeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.DocumentID = chi.URLParam(r, "documentID")
	cmd.NodeID = chi.URLParam(r, "nodeID")
	h.send(w, r, http.StatusOK, cmd)
}

// DetachNode handles DELETE /documents/{documentID}/nodes/{nodeID}?cascade=true
func (h *DocumentHandler) DetachNode(w http.ResponseWriter, r *http.Request) {
	target, ok := h.target(w, r)
	if !ok {
		return
	}
	cascade, _ := strconv.ParseBool(r.URL.Query().Get("cascade"))
	h.send(w, r, http.StatusOK, commands.DetachNodeCommand{
		DocumentCommand: target,
		NodeID:          chi.URLParam(r, "nodeID"),
		Cascade:         cascade,
	})
}

// ListDocuments handles GET /documents?page=&page_size=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)
	h.ask(w, r, queries.ListDocumentsQuery{Page: params.Page, PageSize: params.PageSize})
}

// GetDocument handles GET /documents/{documentID}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetDocumentQuery{DocumentQuery: documentQuery(r)})
}

// ValidateDocument handles GET and POST /documents/{documentID}/validation.
// A POST body may carry results of checks the client ran itself.
func (h *DocumentHandler) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	var q queries.ValidateDocumentQuery
	if r.Method == http.MethodPost && !h.decode(w, r, &q) {
		return
	}
	q.DocumentQuery = documentQuery(r)
	h.ask(w, r, q)
}

// GetBootstrapStatus handles GET /documents/{documentID}/bootstrap
func (h *DocumentHandler) GetBootstrapStatus(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetBootstrapStatusQuery{DocumentQuery: documentQuery(r)})
}

// GetUsageStatistics handles GET /documents/{documentID}/statistics
func (h *DocumentHandler) GetUsageStatistics(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetUsageStatisticsQuery{DocumentQuery: documentQuery(r)})
}

// GetConnectionPaths handles GET /documents/{documentID}/paths?from=&to=&max_depth=
func (h *DocumentHandler) GetConnectionPaths(w http.ResponseWriter, r *http.Request) {
	maxDepth, ok := h.intParam(w, r, "max_depth", 0)
	if !ok {
		return
	}
	h.ask(w, r, queries.GetConnectionPathsQuery{
		DocumentQuery:  documentQuery(r),
		FromArgumentID: r.URL.Query().Get("from"),
		ToArgumentID:   r.URL.Query().Get("to"),
		MaxDepth:       maxDepth,
	})
}

// GetTreeStructure handles GET /documents/{documentID}/trees/{treeID}/structure
func (h *DocumentHandler) GetTreeStructure(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetTreeStructureQuery{
		DocumentQuery: documentQuery(r),
		TreeID:        chi.URLParam(r, "treeID"),
	})
}

// GetBranches handles GET /documents/{documentID}/trees/{treeID}/nodes/{nodeID}/branches
func (h *DocumentHandler) GetBranches(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetBranchesQuery{
		DocumentQuery: documentQuery(r),
		TreeID:        chi.URLParam(r, "treeID"),
		NodeID:        chi.URLParam(r, "nodeID"),
	})
}

func (h *DocumentHandler) send(w http.ResponseWriter, r *http.Request, status int, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	meta := common.NewMeta(r)
	meta.Version = &result.Version
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(result.Version)))
	common.RespondWithMeta(w, status, result, meta)
}

func (h *DocumentHandler) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, common.NewMeta(r))
}

func (h *DocumentHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v, h.maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()).
			WithCode("INVALID_BODY").
			WithCause(err))
		return false
	}
	return true
}

// target reads the document and expected version of a bodiless command
func (h *DocumentHandler) target(w http.ResponseWriter, r *http.Request) (commands.DocumentCommand, bool) {
	version, ok := h.intParam(w, r, "expected_version", 0)
	if !ok {
		return commands.DocumentCommand{}, false
	}
	return commands.DocumentCommand{
		DocumentID:      chi.URLParam(r, "documentID"),
		ExpectedVersion: version,
	}, true
}

func (h *DocumentHandler) intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(name+" must be an integer").
			WithCode("INVALID_PARAMETER").
			WithDetails(map[string]interface{}{"parameter": name, "value": raw}))
		return 0, false
	}
	return v, true
}

func documentQuery(r *http.Request) queries.DocumentQuery {
	return queries.DocumentQuery{DocumentID: chi.URLParam(r, "documentID")}
}

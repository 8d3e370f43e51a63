package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/textstat"
	"github.com/helixml/textstat/application/service"
	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/api/middleware"
	"github.com/helixml/textstat/infrastructure/api/v1/dto"
	"github.com/helixml/textstat/infrastructure/segment"
)

// OperationsRouter handles background counting operation endpoints.
type OperationsRouter struct {
	client *textstat.Client
	logger *slog.Logger
}

// NewOperationsRouter creates a new OperationsRouter.
func NewOperationsRouter(client *textstat.Client) *OperationsRouter {
	return &OperationsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for operation endpoints.
func (r *OperationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Submit)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)
	router.Post("/{id}/cancel", r.Cancel)

	return router
}

// List handles GET /api/v1/operations.
//
//	@Summary		List operations
//	@Description	List counting operations, newest first
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			state		query	string	false	"Filter by state (pending, running, completed, cancelled)"
//	@Param			page		query	int		false	"Page number (default: 1)"
//	@Param			page_size	query	int		false	"Results per page (default: 20, max: 100)"
//	@Success		200	{object}	dto.OperationJSONAPIListResponse
//	@Failure		500	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/operations [get]
func (r *OperationsRouter) List(w http.ResponseWriter, req *http.Request) {
	pagination := ParsePagination(req)

	ops := r.client.Counts.Operations()
	if stateStr := req.URL.Query().Get("state"); stateStr != "" {
		state := count.State(stateStr)
		filtered := make([]*service.Operation, 0, len(ops))
		for _, op := range ops {
			if op.State() == state {
				filtered = append(filtered, op)
			}
		}
		ops = filtered
	}

	total := int64(len(ops))
	start := pagination.Offset()
	if start > len(ops) {
		start = len(ops)
	}
	end := start + pagination.Limit()
	if end > len(ops) {
		end = len(ops)
	}

	data := make([]dto.OperationData, 0, end-start)
	for _, op := range ops[start:end] {
		data = append(data, operationToDTO(op))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.OperationJSONAPIListResponse{
		Data:  data,
		Meta:  PaginationMeta(pagination, total),
		Links: PaginationLinks(req, pagination, total),
	})
}

// Submit handles POST /api/v1/operations.
//
//	@Summary		Submit operation
//	@Description	Start a cancellable counting operation in the background
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.CountRequest	true	"Count request"
//	@Success		202		{object}	dto.OperationJSONAPIResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		503		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/operations [post]
func (r *OperationsRouter) Submit(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.CountRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	request, err := requestFromDTO(body)
	if err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, err.Error(), err), r.logger)
		return
	}

	op, err := r.client.Counts.Submit(ctx, request)
	if err != nil {
		if errors.Is(err, service.ErrServiceStopped) {
			err = middleware.NewServerError(http.StatusServiceUnavailable, "counting service is stopped")
		}
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, dto.OperationJSONAPIResponse{Data: operationToDTO(op)})
}

// Get handles GET /api/v1/operations/{id}.
//
//	@Summary		Get operation
//	@Description	Get a counting operation by ID
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Operation ID"
//	@Success		200	{object}	dto.OperationJSONAPIResponse
//	@Failure		404	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/operations/{id} [get]
func (r *OperationsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	op, err := r.client.Counts.Operation(id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.OperationJSONAPIResponse{Data: operationToDTO(op)})
}

// Cancel handles POST /api/v1/operations/{id}/cancel.
//
//	@Summary		Cancel operation
//	@Description	Request cancellation of a running counting operation
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Operation ID"
//	@Success		202
//	@Failure		404	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/operations/{id}/cancel [post]
func (r *OperationsRouter) Cancel(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	if err := r.client.Counts.Cancel(id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Delete handles DELETE /api/v1/operations/{id}.
//
//	@Summary		Delete operation
//	@Description	Remove an operation from the registry, cancelling it if still running
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Operation ID"
//	@Success		204
//	@Failure		404	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/operations/{id} [delete]
func (r *OperationsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	if err := r.client.Counts.Delete(id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func operationToDTO(op *service.Operation) dto.OperationData {
	request := op.Request()
	state := op.State()

	attrs := dto.OperationAttributes{
		State:            string(state),
		Metrics:          request.RequiredInfo().Names(),
		LineEnding:       request.LineEnding().String(),
		CountsLineEnding: request.CountsLineEnding(),
		TextUnits:        segment.UTF16Length(request.Text()),
		CreatedAt:        op.CreatedAt(),
		DurationMS:       op.Duration().Milliseconds(),
	}

	// Cancelled operations keep the values of every stage that finished
	// before the checkpoint, so any terminal state exposes its result.
	if state.IsTerminal() {
		result := resultToDTO(request.LineEnding(), op.Result())
		attrs.Result = &result
	}
	if err := op.Err(); err != nil {
		attrs.Error = err.Error()
	}

	return dto.OperationData{
		Type:       "operation",
		ID:         op.ID(),
		Attributes: attrs,
	}
}

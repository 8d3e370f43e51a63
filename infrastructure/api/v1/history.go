package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/textstat"
	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/api/middleware"
	"github.com/helixml/textstat/infrastructure/api/v1/dto"
)

// HistoryRouter handles persisted count record endpoints.
type HistoryRouter struct {
	client *textstat.Client
	logger *slog.Logger
}

// NewHistoryRouter creates a new HistoryRouter.
func NewHistoryRouter(client *textstat.Client) *HistoryRouter {
	return &HistoryRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for history endpoints.
func (r *HistoryRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/{id}", r.Get)

	return router
}

// List handles GET /api/v1/history.
//
//	@Summary		List count records
//	@Description	List persisted records of settled operations, newest first
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			state		query	string	false	"Filter by state (completed, cancelled)"
//	@Param			page		query	int		false	"Page number (default: 1)"
//	@Param			page_size	query	int		false	"Results per page (default: 20, max: 100)"
//	@Success		200	{object}	dto.RecordJSONAPIListResponse
//	@Failure		500	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/history [get]
func (r *HistoryRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	store := r.client.History
	if store == nil {
		middleware.WriteError(w, req, middleware.NewServerError(http.StatusServiceUnavailable, "history is disabled"), r.logger)
		return
	}

	var filterOpts []count.Option
	if stateStr := req.URL.Query().Get("state"); stateStr != "" {
		filterOpts = append(filterOpts, count.WithState(count.State(stateStr)))
	}

	findOpts := append([]count.Option{count.WithOrderDesc("created_at")}, filterOpts...)
	records, err := store.Find(ctx, append(findOpts, pagination.Options()...)...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := store.Count(ctx, filterOpts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.RecordData, 0, len(records))
	for _, record := range records {
		data = append(data, recordToDTO(record))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RecordJSONAPIListResponse{
		Data:  data,
		Meta:  PaginationMeta(pagination, total),
		Links: PaginationLinks(req, pagination, total),
	})
}

// Get handles GET /api/v1/history/{id}.
//
//	@Summary		Get count record
//	@Description	Get a persisted count record by operation ID
//	@Tags			history
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Operation ID"
//	@Success		200	{object}	dto.RecordJSONAPIResponse
//	@Failure		404	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/history/{id} [get]
func (r *HistoryRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	store := r.client.History
	if store == nil {
		middleware.WriteError(w, req, middleware.NewServerError(http.StatusServiceUnavailable, "history is disabled"), r.logger)
		return
	}

	id := chi.URLParam(req, "id")
	record, err := store.FindOne(ctx, count.WithCondition("id", id))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RecordJSONAPIResponse{Data: recordToDTO(record)})
}

func recordToDTO(record count.Record) dto.RecordData {
	attrs := dto.RecordAttributes{
		State:            string(record.State()),
		Metrics:          record.Metrics().Names(),
		LineEnding:       record.LineEnding().String(),
		CountsLineEnding: record.CountsLineEnding(),
		TextUnits:        record.TextUnits(),
		CreatedAt:        record.CreatedAt(),
		DurationMS:       record.Duration().Milliseconds(),
	}

	if record.State().IsTerminal() {
		result := resultToDTO(record.LineEnding(), record.Result())
		attrs.Result = &result
	}

	return dto.RecordData{
		Type:       "count_record",
		ID:         record.ID(),
		Attributes: attrs,
	}
}

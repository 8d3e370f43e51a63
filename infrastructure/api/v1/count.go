// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/textstat"
	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/api/middleware"
	"github.com/helixml/textstat/infrastructure/api/v1/dto"
)

// CountRouter handles the synchronous counting endpoint.
type CountRouter struct {
	client *textstat.Client
	logger *slog.Logger
}

// NewCountRouter creates a new CountRouter.
func NewCountRouter(client *textstat.Client) *CountRouter {
	return &CountRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for counting endpoints.
func (r *CountRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Count)

	return router
}

// Count handles POST /api/v1/count.
//
//	@Summary		Count text
//	@Description	Compute text statistics synchronously and return the result
//	@Tags			count
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.CountRequest	true	"Count request"
//	@Success		200		{object}	dto.CountResult
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/count [post]
func (r *CountRouter) Count(w http.ResponseWriter, req *http.Request) {
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

	result, err := r.client.Counts.Count(ctx, request)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resultToDTO(request.LineEnding(), result))
}

// requestFromDTO builds a domain counting request from an API request body.
func requestFromDTO(body dto.CountRequest) (count.Request, error) {
	lineEnding := count.LineEndingLF
	if body.LineEnding != "" {
		parsed, err := count.ParseLineEnding(body.LineEnding)
		if err != nil {
			return count.Request{}, fmt.Errorf("invalid line_ending: %w", err)
		}
		lineEnding = parsed
	}

	metrics := count.All
	if len(body.Metrics) > 0 {
		parsed, err := count.ParseMetrics(body.Metrics)
		if err != nil {
			return count.Request{}, fmt.Errorf("invalid metrics: %w", err)
		}
		metrics = parsed
	}

	start := 0
	if body.SelectionStart != nil {
		start = *body.SelectionStart
	}
	end := start
	if body.SelectionEnd != nil {
		end = *body.SelectionEnd
	}

	request := count.NewRequest(body.Text, lineEnding, count.NewSelection(start, end)).
		WithRequiredInfo(metrics)
	if body.CountsLineEnding != nil {
		request = request.WithCountsLineEnding(*body.CountsLineEnding)
	}

	return request, nil
}

// resultToDTO maps a counting result to its API representation.
func resultToDTO(lineEnding count.LineEnding, result count.Result) dto.CountResult {
	return dto.CountResult{
		LineEnding:         lineEnding.String(),
		Length:             result.Length(),
		Characters:         result.Characters(),
		Lines:              result.Lines(),
		Words:              result.Words(),
		SelectedLength:     result.SelectedLength(),
		SelectedCharacters: result.SelectedCharacters(),
		SelectedLines:      result.SelectedLines(),
		SelectedWords:      result.SelectedWords(),
		Location:           result.Location(),
		Line:               result.Line(),
		Column:             result.Column(),
		Unicode:            result.Unicode().String(),
	}
}

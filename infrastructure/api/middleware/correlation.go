package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/textstat/internal/log"
)

// CorrelationID returns a middleware that propagates a correlation ID through
// the request context and response headers. The ID is taken from the
// X-Correlation-ID request header when present, falling back to chi's
// request ID.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = chimiddleware.GetReqID(r.Context())
		}

		w.Header().Set("X-Correlation-ID", correlationID)

		ctx := log.WithCorrelationID(r.Context(), correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

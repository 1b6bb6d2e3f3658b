package gameserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/reelflow/internal/domain"
)

// Handler serves a simulator over HTTP in the shape HTTPClient expects:
// POST /{path} with a round request body.
func Handler(sim *Simulator, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Post("/{path}", func(w http.ResponseWriter, req *http.Request) {
		if apiKey != "" && req.Header.Get(HeaderAPIKey) != apiKey {
			writeError(w, apiError(http.StatusUnauthorized, CodeUnauthorized, "invalid api key"))
			return
		}
		body, err := io.ReadAll(io.LimitReader(req.Body, maxResponseBytes))
		if err != nil {
			writeError(w, apiError(http.StatusBadRequest, CodeBadRequest, err.Error()))
			return
		}
		out, err := sim.Request(req.Context(), chi.URLParam(req, "path"), body)
		if err != nil {
			if apiErr, ok := domain.AsAPIError(err); ok {
				writeError(w, apiErr)
				return
			}
			writeError(w, apiError(http.StatusInternalServerError, CodeInternal, err.Error()))
			return
		}
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		_, _ = w.Write(out)
	})
	return r
}

func writeError(w http.ResponseWriter, e *domain.APIError) {
	status := e.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}

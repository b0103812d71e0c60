// Package ping serves the liveness probe at GET /api/ping. Unlike /health
// it touches nothing: it answers as long as the process is up.
package ping

import (
	"net/http"

	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
)

// Handler serves the configured ping message.
type Handler struct {
	Message string
}

// NewHandler builds the ping handler. An empty message falls back to "ping".
func NewHandler(message string) *Handler {
	if message == "" {
		message = "ping"
	}
	return &Handler{Message: message}
}

// Serve handles GET /api/ping.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"message": h.Message})
}

// Routes returns a subrouter that serves the ping endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}

package requests

import (
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the request workflow. Every endpoint requires a bearer
// token.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireUser)

	r.Post("/", h.HandleCreate)
	r.Get("/incoming", h.ServeIncoming)
	r.Post("/{id}/accept", h.HandleAccept)

	return r
}

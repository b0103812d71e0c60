package notifications

import (
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the inbox endpoints behind bearer auth.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireUser)

	r.Get("/", h.ServeList)
	r.Post("/{id}/read", h.HandleMarkRead)

	return r
}

package groups

import (
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the group endpoints. Every endpoint requires a bearer
// token; ownership is checked per handler against the group record.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tokens.RequireUser)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Post("/{id}/add-students", h.HandleAddStudents)
	r.Post("/{id}/videos", h.HandleUploadVideo)

	return r
}

package teachers

import "github.com/go-chi/chi/v5"

// Routes mounts teacher discovery. No auth: search and profiles are public.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/search", h.ServeSearch)
	r.Get("/{id}", h.ServeTeacher)
	return r
}

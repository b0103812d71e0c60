package auth

import (
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account endpoints. Signup and signin are public; the
// /me pair requires a bearer token.
func Routes(h *Handler, tokens *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/signin", h.HandleSignin)

	r.Group(func(pr chi.Router) {
		pr.Use(tokens.RequireUser)
		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpdateProfile)
	})

	return r
}

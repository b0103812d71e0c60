// Package demo seeds sample accounts for manual testing. The feature is
// mounted only when demo mode is enabled in config; it must never be on in
// production.
package demo

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler seeds and reports the demo accounts.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler builds the demo handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type sampleUser struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     string
	Bio      string
}

var samples = []sampleUser{
	{
		Name:     "Demo Teacher",
		Email:    "teacher@example.com",
		Username: "demo_teacher",
		Password: "teachme123",
		Role:     models.RoleTeacher,
		Bio:      "I teach guitar and music theory.",
	},
	{
		Name:     "Demo Student",
		Email:    "student@example.com",
		Username: "demo_student",
		Password: "learnme123",
		Role:     models.RoleStudent,
		Bio:      "Looking for a guitar teacher.",
	},
}

// HandleCreateSampleUsers creates the demo teacher and student if they do
// not already exist and returns their credentials. Re-running it is safe.
func (h *Handler) HandleCreateSampleUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	out := make([]map[string]string, 0, len(samples))
	for _, s := range samples {
		entry := map[string]string{
			"email":    s.Email,
			"username": s.Username,
			"password": s.Password,
			"role":     s.Role,
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			httpjson.Internal(w, h.Log, "demo.hash", err)
			return
		}
		u, err := h.Users.Create(ctx, models.User{
			Name:         s.Name,
			Email:        s.Email,
			Username:     s.Username,
			PasswordHash: string(hash),
			Role:         s.Role,
			Bio:          s.Bio,
		})
		switch {
		case errors.Is(err, userstore.ErrDuplicate):
			existing, err := h.Users.GetByIdentifier(ctx, s.Email)
			if err != nil {
				httpjson.Internal(w, h.Log, "demo.lookup", err)
				return
			}
			entry["mongoUserId"] = existing.ID.Hex()
			entry["created"] = "false"
		case err != nil:
			httpjson.Internal(w, h.Log, "demo.create", err)
			return
		default:
			entry["mongoUserId"] = u.ID.Hex()
			entry["created"] = "true"
		}
		out = append(out, entry)
	}

	h.Log.Info("sample users ensured", zap.Int("count", len(out)))
	httpjson.Write(w, http.StatusCreated, map[string]any{"users": out})
}

// Routes returns a subrouter that serves the demo endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/create-sample-users", h.HandleCreateSampleUsers)
	return r
}

// Package teachers implements teacher discovery: substring search and
// public profile lookup. Both endpoints are public and return only the
// denormalized summary fields, never credentials or email.
package teachers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Search pagination bounds.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Handler is the shared dependency container for teacher discovery.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler builds the teachers handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeSearch handles GET /api/teachers/search?q=&limit=. An empty query
// returns an empty list rather than all teachers.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := int64(defaultSearchLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teachers, err := h.Users.SearchTeachers(ctx, q, limit)
	if err != nil {
		httpjson.Internal(w, h.Log, "teachers.search", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"teachers": teachers})
}

// ServeTeacher handles GET /api/teachers/{id}. Unknown ids, malformed ids,
// and ids belonging to non-teachers all read as 404.
func (h *Handler) ServeTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Users.GetTeacherByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "teachers.get", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"teacher": t})
}

// Package notifications implements the pull side of the inbox: listing
// the caller's notifications and marking one read. Writing notifications
// is the notify package's job.
package notifications

import (
	"context"
	"errors"
	"net/http"

	notificationstore "github.com/dalemusser/mentorhub/internal/app/store/notifications"
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const codeNotAuthorized = "not_authorized"

// listLimit bounds the inbox listing; the newest entries win.
const listLimit = 200

// Handler is the shared dependency container for inbox endpoints.
type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

// NewHandler builds the notifications handler.
func NewHandler(notifications *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: notifications, Log: logger}
}

// ServeList returns the caller's notifications, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Notifications.ListByUser(ctx, userID, listLimit)
	if err != nil {
		httpjson.Internal(w, h.Log, "notifications.list", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"notifications": items})
}

// HandleMarkRead marks one of the caller's notifications read. Marking an
// already-read notification succeeds; marking someone else's is forbidden.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "notifications.read.get", err)
		return
	}
	if n.UserID != userID {
		httpjson.Error(w, http.StatusForbidden, codeNotAuthorized)
		return
	}

	if err := h.Notifications.MarkRead(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, "notifications.read", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"success": true})
}

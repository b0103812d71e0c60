// Package requests implements the mentorship-request workflow: a student
// sends a "teach me" request to a teacher, the teacher lists incoming
// requests and accepts the ones they want. Accepting is what makes a
// student eligible for that teacher's groups.
package requests

import (
	"context"
	"errors"
	"net/http"
	"time"

	requeststore "github.com/dalemusser/mentorhub/internal/app/store/requests"
	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/notify"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Error codes specific to the request workflow.
const (
	codeTeacherIDRequired = "teacherId_required"
	codeTeacherNotFound   = "teacher_not_found"
	codeRequestExists     = "request_exists"
	codeNotTeacher        = "not_teacher"
	codeNotAuthorized     = "not_authorized"
	codeInvalidStatus     = "invalid_status"
)

// incomingLimit bounds the incoming list. There is no pagination; the
// newest entries win.
const incomingLimit = 200

// Handler is the shared dependency container for the request workflow.
type Handler struct {
	Requests *requeststore.Store
	Users    *userstore.Store
	Notify   *notify.Notifier
	Log      *zap.Logger
}

// NewHandler builds the requests handler.
func NewHandler(requests *requeststore.Store, users *userstore.Store, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{Requests: requests, Users: users, Notify: notifier, Log: logger}
}

type createInput struct {
	TeacherID string `json:"teacherId"`
}

// HandleCreate sends a "teach me" request from the caller to a teacher.
// The target must exist and have the teacher role; at most one pending
// request per (student, teacher) pair may exist at a time.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	studentID, _ := auth.CurrentUserID(r)

	var in createInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	if in.TeacherID == "" {
		httpjson.Error(w, http.StatusBadRequest, codeTeacherIDRequired)
		return
	}
	teacherID, err := primitive.ObjectIDFromHex(in.TeacherID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, codeTeacherNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetTeacherByID(ctx, teacherID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, codeTeacherNotFound)
			return
		}
		httpjson.Internal(w, h.Log, "requests.create.teacher", err)
		return
	}

	req, err := h.Requests.Create(ctx, studentID, teacherID)
	if err != nil {
		if errors.Is(err, requeststore.ErrDuplicatePending) {
			httpjson.Error(w, http.StatusConflict, codeRequestExists)
			return
		}
		httpjson.Internal(w, h.Log, "requests.create", err)
		return
	}

	// Fan-out happens after the ledger write committed; a notification
	// failure never undoes the request.
	h.Notify.Emit(ctx, teacherID, models.NotifyRequestReceived, map[string]any{
		"studentId": studentID.Hex(),
		"requestId": req.ID.Hex(),
	})

	h.Log.Info("request created",
		zap.String("request_id", req.ID.Hex()),
		zap.String("student_id", studentID.Hex()),
		zap.String("teacher_id", teacherID.Hex()),
	)
	httpjson.Write(w, http.StatusCreated, map[string]any{
		"requestId": req.ID.Hex(),
		"status":    req.Status,
	})
}

// incomingView is a request with the sender's summary joined in, replacing
// the bare student id the ledger stores.
type incomingView struct {
	ID        primitive.ObjectID `json:"_id"`
	Student   models.UserSummary `json:"studentId"`
	TeacherID primitive.ObjectID `json:"teacherId"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ServeIncoming lists requests addressed to the caller, newest first. Only
// teachers have an incoming box.
func (h *Handler) ServeIncoming(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "requests.incoming.caller", err)
		return
	}
	if !u.IsTeacher() {
		httpjson.Error(w, http.StatusForbidden, codeNotTeacher)
		return
	}

	reqs, err := h.Requests.ListIncoming(ctx, userID, incomingLimit)
	if err != nil {
		httpjson.Internal(w, h.Log, "requests.incoming.list", err)
		return
	}

	studentIDs := make([]primitive.ObjectID, 0, len(reqs))
	for _, req := range reqs {
		studentIDs = append(studentIDs, req.StudentID)
	}
	summaries, err := h.Users.Summaries(ctx, studentIDs)
	if err != nil {
		httpjson.Internal(w, h.Log, "requests.incoming.students", err)
		return
	}

	views := make([]incomingView, 0, len(reqs))
	for _, req := range reqs {
		student, ok := summaries[req.StudentID]
		if !ok {
			// Sender account is gone; keep the id so the row still renders.
			student = models.UserSummary{ID: req.StudentID}
		}
		views = append(views, incomingView{
			ID:        req.ID,
			Student:   student,
			TeacherID: req.TeacherID,
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
			UpdatedAt: req.UpdatedAt,
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": views})
}

// HandleAccept transitions a pending request to accepted. Only the
// addressed teacher may accept, and only once: the status guard in the
// store makes concurrent accepts resolve to a single winner.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "requests.accept.get", err)
		return
	}
	if req.TeacherID != userID {
		httpjson.Error(w, http.StatusForbidden, codeNotAuthorized)
		return
	}

	updated, err := h.Requests.Accept(ctx, id)
	if err != nil {
		if errors.Is(err, requeststore.ErrNotPending) {
			httpjson.Error(w, http.StatusBadRequest, codeInvalidStatus)
			return
		}
		httpjson.Internal(w, h.Log, "requests.accept", err)
		return
	}

	h.Notify.Emit(ctx, updated.StudentID, models.NotifyRequestAccepted, map[string]any{
		"teacherId": updated.TeacherID.Hex(),
		"requestId": updated.ID.Hex(),
	})

	h.Log.Info("request accepted",
		zap.String("request_id", updated.ID.Hex()),
		zap.String("teacher_id", userID.Hex()),
	)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"success":   true,
		"requestId": updated.ID.Hex(),
		"status":    updated.Status,
	})
}

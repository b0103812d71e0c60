// Package groups implements teacher-owned groups: creation, listing,
// roster additions, and video uploads with their notification fan-out.
//
// Every endpoint derives the acting teacher from the bearer token. A
// client-supplied teacherId is accepted only when it matches the caller;
// a mismatch is rejected rather than trusted.
package groups

import (
	"context"
	"errors"
	"net/http"
	"time"

	groupstore "github.com/dalemusser/mentorhub/internal/app/store/groups"
	requeststore "github.com/dalemusser/mentorhub/internal/app/store/requests"
	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/media"
	"github.com/dalemusser/mentorhub/internal/app/system/notify"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Error codes specific to group endpoints.
const (
	codeNameTeacherRequired = "name_teacher_required"
	codeNotTeacher          = "not_teacher"
	codeNotAuthorized       = "not_authorized"
	codeGroupNotFound       = "group_not_found"
)

// Handler is the shared dependency container for group endpoints.
type Handler struct {
	Groups   *groupstore.Store
	Requests *requeststore.Store
	Users    *userstore.Store
	Media    *media.Host
	Notify   *notify.Notifier
	Log      *zap.Logger
}

// NewHandler builds the groups handler.
func NewHandler(groups *groupstore.Store, requests *requeststore.Store, users *userstore.Store, host *media.Host, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:   groups,
		Requests: requests,
		Users:    users,
		Media:    host,
		Notify:   notifier,
		Log:      logger,
	}
}

// requireOwnTeacherID resolves the acting teacher id. claimed is the
// teacherId the client sent (may be empty); a claim that contradicts the
// token is a false 403 rather than silently ignored.
func requireOwnTeacherID(w http.ResponseWriter, r *http.Request, claimed string) (primitive.ObjectID, bool) {
	userID, _ := auth.CurrentUserID(r)
	if claimed == "" {
		return userID, true
	}
	claimedID, err := primitive.ObjectIDFromHex(claimed)
	if err != nil || claimedID != userID {
		httpjson.Error(w, http.StatusForbidden, codeNotAuthorized)
		return primitive.NilObjectID, false
	}
	return userID, true
}

type createInput struct {
	Name      string `json:"name"`
	TeacherID string `json:"teacherId"`
}

// HandleCreate creates an empty group owned by the caller, who must be a
// teacher.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	if in.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, codeNameTeacherRequired)
		return
	}
	teacherID, ok := requireOwnTeacherID(w, r, in.TeacherID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, teacherID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.create.caller", err)
		return
	}
	if !u.IsTeacher() {
		httpjson.Error(w, http.StatusForbidden, codeNotTeacher)
		return
	}

	g, err := h.Groups.Create(ctx, in.Name, teacherID)
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.create", err)
		return
	}
	h.Log.Info("group created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("teacher_id", teacherID.Hex()),
	)
	httpjson.Write(w, http.StatusCreated, map[string]any{
		"groupId": g.ID.Hex(),
		"group":   g,
	})
}

// groupView is a group with the roster's user summaries joined in,
// replacing the bare student ids.
type groupView struct {
	ID        primitive.ObjectID   `json:"_id"`
	Name      string               `json:"name"`
	TeacherID primitive.ObjectID   `json:"teacherId"`
	Students  []models.UserSummary `json:"studentIds"`
	Videos    []models.Video       `json:"videos"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// ServeList lists the caller's groups, rosters resolved to user summaries.
// A teacherId query parameter is allowed for compatibility but must match
// the caller.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := requireOwnTeacherID(w, r, r.URL.Query().Get("teacherId"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.ListByTeacher(ctx, teacherID)
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.list", err)
		return
	}

	var allStudents []primitive.ObjectID
	for _, g := range groups {
		allStudents = append(allStudents, g.StudentIDs...)
	}
	summaries, err := h.Users.Summaries(ctx, allStudents)
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.list.students", err)
		return
	}

	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		students := make([]models.UserSummary, 0, len(g.StudentIDs))
		for _, id := range g.StudentIDs {
			s, ok := summaries[id]
			if !ok {
				s = models.UserSummary{ID: id}
			}
			students = append(students, s)
		}
		views = append(views, groupView{
			ID:        g.ID,
			Name:      g.Name,
			TeacherID: g.TeacherID,
			Students:  students,
			Videos:    g.Videos,
			CreatedAt: g.CreatedAt,
			UpdatedAt: g.UpdatedAt,
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"groups": views})
}

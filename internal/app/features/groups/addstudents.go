package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type addStudentsInput struct {
	StudentIDs []string `json:"studentIds"`
}

// HandleAddStudents merges students into the group roster. Only students
// holding an accepted request with the owning teacher at this moment are
// added; ineligible or malformed ids are dropped silently. Each student
// who actually joined gets a group_added notification.
func (h *Handler) HandleAddStudents(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, codeGroupNotFound)
		return
	}

	var in addStudentsInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	if in.StudentIDs == nil {
		httpjson.Error(w, http.StatusBadRequest, "studentIds_required")
		return
	}
	candidates := make([]primitive.ObjectID, 0, len(in.StudentIDs))
	for _, raw := range in.StudentIDs {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			candidates = append(candidates, id)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, codeGroupNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.add.get", err)
		return
	}
	if g.TeacherID != userID {
		httpjson.Error(w, http.StatusForbidden, codeNotAuthorized)
		return
	}

	// Eligibility is a snapshot: accepted-now gets in, and a later status
	// change does not evict anyone.
	eligible, err := h.Requests.AcceptedStudentIDs(ctx, g.TeacherID, candidates)
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.add.eligible", err)
		return
	}

	added := []primitive.ObjectID{}
	if len(eligible) > 0 {
		added, err = h.Groups.AddStudents(ctx, groupID, eligible)
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, codeGroupNotFound)
			return
		}
		if err != nil {
			httpjson.Internal(w, h.Log, "groups.add", err)
			return
		}
	}

	h.Notify.EmitEach(ctx, added, models.NotifyGroupAdded, func(primitive.ObjectID) map[string]any {
		return map[string]any{
			"groupId":   g.ID.Hex(),
			"groupName": g.Name,
		}
	})

	updated, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.add.reload", err)
		return
	}

	addedHex := make([]string, 0, len(added))
	for _, id := range added {
		addedHex = append(addedHex, id.Hex())
	}
	h.Log.Info("students added to group",
		zap.String("group_id", g.ID.Hex()),
		zap.Int("requested", len(in.StudentIDs)),
		zap.Int("added", len(added)),
	)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"success": true,
		"added":   addedHex,
		"group":   updated,
	})
}

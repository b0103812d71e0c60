package groups

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/media"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Error codes specific to video uploads.
const (
	codeCloudinaryNotConfigured = "cloudinary_not_configured"
	codeFileRequired            = "fileUrl_or_fileData_required"
	codeUploadFailed            = "upload_failed"
)

type uploadInput struct {
	Title    string `json:"title"`
	FileURL  string `json:"fileUrl"`
	FileData string `json:"fileData"`
}

// HandleUploadVideo sends the video to the media host, appends the
// returned references to the group's board, and notifies every current
// roster member. The service never stores video bytes.
func (h *Handler) HandleUploadVideo(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, codeGroupNotFound)
		return
	}

	var in uploadInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	// Inline data wins when both are present.
	source := in.FileData
	if source == "" {
		source = in.FileURL
	}
	if source == "" {
		httpjson.Error(w, http.StatusBadRequest, codeFileRequired)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, codeGroupNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.video.get", err)
		return
	}
	if g.TeacherID != userID {
		httpjson.Error(w, http.StatusForbidden, codeNotAuthorized)
		return
	}
	if !h.Media.Configured() {
		httpjson.Error(w, http.StatusInternalServerError, codeCloudinaryNotConfigured)
		return
	}

	// The host bounds its own round-trip; r.Context() keeps client
	// cancellation effective while the bytes are still in flight.
	up, err := h.Media.UploadVideo(r.Context(), source)
	switch {
	case errors.Is(err, media.ErrNotConfigured):
		httpjson.Error(w, http.StatusInternalServerError, codeCloudinaryNotConfigured)
		return
	case errors.Is(err, media.ErrUploadFailed):
		httpjson.Error(w, http.StatusInternalServerError, codeUploadFailed)
		return
	case err != nil:
		httpjson.Internal(w, h.Log, "groups.video.upload", err)
		return
	}

	video := models.Video{
		Title:     in.Title,
		URL:       up.URL,
		PublicID:  up.PublicID,
		CreatedAt: time.Now().UTC(),
	}
	updated, err := h.Groups.AppendVideo(ctx, groupID, video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, codeGroupNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "groups.video.append", err)
		return
	}

	// Fan out to the roster as it stood when the video landed.
	h.Notify.EmitEach(ctx, updated.StudentIDs, models.NotifyVideoUploaded, func(primitive.ObjectID) map[string]any {
		return map[string]any{
			"groupId":   updated.ID.Hex(),
			"groupName": updated.Name,
			"video": map[string]any{
				"title":    video.Title,
				"url":      video.URL,
				"publicId": video.PublicID,
			},
		}
	})

	h.Log.Info("video uploaded to group",
		zap.String("group_id", updated.ID.Hex()),
		zap.String("public_id", up.PublicID),
		zap.Int("notified", len(updated.StudentIDs)),
	)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"success":  true,
		"video":    video,
		"uploaded": up,
	})
}

// Package media wraps the external video host (Cloudinary). The service
// never touches video bytes: it hands the host a remote URL or an
// inline-encoded data URL and stores only the opaque references the host
// returns.
//
// Every upload is a signed, timestamped request; the SDK computes a fresh
// signature per call, so signatures are never reused across uploads.
package media

import (
	"context"
	"errors"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned when host credentials are absent.
	ErrNotConfigured = errors.New("media host credentials are not configured")
	// ErrUploadFailed is returned when the host rejects or errors on an
	// upload. Uploads are not retried; retry policy belongs to the operator.
	ErrUploadFailed = errors.New("media host upload failed")
)

// DefaultTimeout bounds the host round-trip when config does not say otherwise.
const DefaultTimeout = 60 * time.Second

// Upload holds the durable references the host returns for a stored video.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Host is the outbound client for the video host. A Host built without
// credentials is valid but unconfigured; uploads fail with ErrNotConfigured.
type Host struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
	log     *zap.Logger
}

// New builds a Host. Missing credentials are not an error at construction
// time: the service runs without a media host and reports
// ErrNotConfigured per upload.
func New(cloudName, apiKey, apiSecret string, timeout time.Duration, logger *zap.Logger) (*Host, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	h := &Host{timeout: timeout, log: logger}
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		logger.Warn("media host not configured; video uploads will be rejected")
		return h, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	h.cld = cld
	return h, nil
}

// Configured reports whether host credentials are present.
func (h *Host) Configured() bool {
	return h != nil && h.cld != nil
}

// UploadVideo sends source (a remote URL or a base64 data URL) to the host
// and returns the durable references. The call blocks for at most the
// configured timeout.
func (h *Host) UploadVideo(ctx context.Context, source string) (Upload, error) {
	if !h.Configured() {
		return Upload{}, ErrNotConfigured
	}

	uploadID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.log.Info("media upload started", zap.String("upload_id", uploadID))

	res, err := h.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		ResourceType: "video",
	})
	if err != nil {
		h.log.Error("media upload failed",
			zap.String("upload_id", uploadID),
			zap.Error(err),
		)
		return Upload{}, ErrUploadFailed
	}
	if res.Error.Message != "" {
		h.log.Error("media host rejected upload",
			zap.String("upload_id", uploadID),
			zap.String("reason", res.Error.Message),
		)
		return Upload{}, ErrUploadFailed
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	h.log.Info("media upload complete",
		zap.String("upload_id", uploadID),
		zap.String("public_id", res.PublicID),
	)
	return Upload{URL: url, PublicID: res.PublicID}, nil
}

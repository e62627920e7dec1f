package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
	"github.com/barisbll/influshop-backend-sub000/pkg/httpclient"
)

// MaxImageSize is the maximum accepted decoded image size in bytes (5 MiB).
const MaxImageSize = 5 * 1024 * 1024

// allowedImageTypes are the content types accepted for item and profile images.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Config holds CDN connection settings.
type Config struct {
	BaseURL   string
	APIKey    string
	PublicURL string
}

// Uploader pushes images to the CDN over HTTP, guarded by a circuit breaker
// so a CDN outage cannot stall catalog writes.
type Uploader struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// NewUploader creates a CDN image uploader.
func NewUploader(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Uploader {
	return &Uploader{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

type uploadRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload decodes a base64 image, validates its size and content type, and
// stores it on the CDN under ownerKind/ownerID. It returns the public URL.
func (u *Uploader) Upload(ctx context.Context, ownerKind, ownerID, imageBase64 string) (string, error) {
	if imageBase64 == "" {
		return "", apperrors.InvalidInput("image data is required")
	}

	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", apperrors.InvalidInput("image data is not valid base64")
	}
	if len(raw) == 0 {
		return "", apperrors.InvalidInput("image data is empty")
	}
	if len(raw) > MaxImageSize {
		return "", apperrors.InvalidInput(fmt.Sprintf("image exceeds maximum size of %d bytes", MaxImageSize))
	}

	contentType := http.DetectContentType(raw)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", contentType))
	}

	key := fmt.Sprintf("%s/%s/%s.%s", ownerKind, ownerID, uuid.New().String(), ext)

	body, err := json.Marshal(uploadRequest{
		Key:         key,
		ContentType: contentType,
		Data:        imageBase64,
	})
	if err != nil {
		return "", fmt.Errorf("marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.BaseURL+"/v1/images", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)

	resp, err := u.client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("upload image to cdn: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("cdn upload failed with status %d: %s", resp.StatusCode, payload)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode cdn response: %w", err)
	}

	url := parsed.URL
	if url == "" {
		url = u.cfg.PublicURL + "/" + key
	}

	u.logger.DebugContext(ctx, "image uploaded to cdn",
		slog.String("key", key),
		slog.String("content_type", contentType),
		slog.Int("size", len(raw)),
	)

	return url, nil
}

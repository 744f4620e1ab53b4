package services

import (
	"context"

	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/anonto42/connectin/backend/pkg/metrics"
)

// ImageStore uploads base64 data URLs and deletes previously stored images.
type ImageStore interface {
	Upload(ctx context.Context, dataURL string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Images wraps an optional ImageStore. A nil store means uploads are not configured.
type Images struct {
	store ImageStore
}

func NewImages(store ImageStore) *Images {
	return &Images{store: store}
}

// Upload stores a data URL. Failures come back as UPSTREAM_FAILURE.
func (i *Images) Upload(ctx context.Context, dataURL string) (string, error) {
	if i == nil || i.store == nil {
		return "", apperrors.New(apperrors.ErrCodeUpstreamFailure, "image storage is not configured")
	}
	url, err := i.store.Upload(ctx, dataURL)
	if err != nil {
		metrics.ImageFailures.WithLabelValues("upload").Inc()
		return "", apperrors.Wrap(err, apperrors.ErrCodeUpstreamFailure, "failed to upload image")
	}
	return url, nil
}

// Delete removes a stored image; failures are logged only.
func (i *Images) Delete(ctx context.Context, url string) {
	if i == nil || i.store == nil || url == "" {
		return
	}
	if err := i.store.Delete(ctx, url); err != nil {
		metrics.ImageFailures.WithLabelValues("delete").Inc()
		logger.Warn("Failed to delete stored image", "url", url, "error", err)
	}
}

package services

import (
	"testing"

	"github.com/anonto42/connectin/backend/internal/testutil"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_NotConfigured(t *testing.T) {
	images := NewImages(nil)

	_, err := images.Upload(ctx, "data:image/png;base64,AA==")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpstreamFailure))

	// no-op
	images.Delete(ctx, "https://storage.test/images/1.png")
}

func TestImages_UploadAndDelete(t *testing.T) {
	store := &testutil.ImageStore{}
	images := NewImages(store)

	url, err := images.Upload(ctx, "data:image/png;base64,AA==")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/images/1.png", url)

	store.DeleteErr = testutil.ErrUnavailable
	images.Delete(ctx, url)
	images.Delete(ctx, "")
	assert.Equal(t, []string{url}, store.Deleted())
}

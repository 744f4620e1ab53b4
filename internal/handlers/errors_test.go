package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorBody
	}{
		{
			name:       "not found",
			err:        apperrors.NotFound("post not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   ErrorBody{Code: "NOT_FOUND", Message: "post not found"},
		},
		{
			name:       "forbidden",
			err:        apperrors.Forbidden("nope"),
			wantStatus: http.StatusForbidden,
			wantBody:   ErrorBody{Code: "FORBIDDEN", Message: "nope"},
		},
		{
			name:       "invalid operation",
			err:        apperrors.InvalidOperation("already connected"),
			wantStatus: http.StatusBadRequest,
			wantBody:   ErrorBody{Code: "INVALID_OPERATION", Message: "already connected"},
		},
		{
			name:       "upstream failure",
			err:        apperrors.Wrap(errors.New("gcs down"), apperrors.ErrCodeUpstreamFailure, "image upload failed"),
			wantStatus: http.StatusBadGateway,
			wantBody:   ErrorBody{Code: "UPSTREAM_FAILURE", Message: "image upload failed"},
		},
		{
			name:       "internal message is hidden",
			err:        apperrors.Internal(errors.New("pq: broken"), "failed to load user"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorBody{Code: "INTERNAL_ERROR", Message: "Internal Server Error"},
		},
		{
			name:       "echo http error",
			err:        echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   ErrorBody{Code: "UNAUTHORIZED", Message: "Missing Authorization header"},
		},
		{
			name:       "rate limited",
			err:        echo.ErrTooManyRequests,
			wantStatus: http.StatusTooManyRequests,
			wantBody:   ErrorBody{Code: "RATE_LIMITED", Message: "Too Many Requests"},
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorBody{Code: "INTERNAL_ERROR", Message: "Internal Server Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := resolveError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	HTTPErrorHandler(apperrors.NotFound("missing"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	apperrors.ErrCodeNotFound:         http.StatusNotFound,
	apperrors.ErrCodeForbidden:        http.StatusForbidden,
	apperrors.ErrCodeInvalidOperation: http.StatusBadRequest,
	apperrors.ErrCodeValidation:       http.StatusBadRequest,
	apperrors.ErrCodeUpstreamFailure:  http.StatusBadGateway,
	apperrors.ErrCodeUnauthorized:     http.StatusUnauthorized,
	apperrors.ErrCodeAlreadyExists:    http.StatusConflict,
	apperrors.ErrCodeInternalError:    http.StatusInternalServerError,
}

var codeByStatus = map[int]string{
	http.StatusBadRequest:            apperrors.ErrCodeValidation,
	http.StatusUnauthorized:          apperrors.ErrCodeUnauthorized,
	http.StatusForbidden:             apperrors.ErrCodeForbidden,
	http.StatusNotFound:              apperrors.ErrCodeNotFound,
	http.StatusConflict:              apperrors.ErrCodeAlreadyExists,
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusTooManyRequests:       "RATE_LIMITED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
}

// HTTPErrorHandler renders AppErrors and echo.HTTPErrors as ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := resolveError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else {
		respErr = c.JSON(status, ErrorResponse{Error: body})
	}
	if respErr != nil {
		logger.Error("Failed to write error response", "error", respErr)
	}
}

func resolveError(err error) (int, ErrorBody) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status, ok := statusByCode[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		if status == http.StatusInternalServerError {
			return status, ErrorBody{Code: apperrors.ErrCodeInternalError, Message: "Internal Server Error"}
		}
		return status, ErrorBody{Code: appErr.Code, Message: appErr.Message}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, ok := codeByStatus[he.Code]
		if !ok {
			code = apperrors.ErrCodeInternalError
		}
		return he.Code, ErrorBody{Code: code, Message: fmt.Sprint(he.Message)}
	}

	return http.StatusInternalServerError, ErrorBody{Code: apperrors.ErrCodeInternalError, Message: "Internal Server Error"}
}

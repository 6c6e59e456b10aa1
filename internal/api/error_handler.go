package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medisched/user-service/internal/core/domain"
)

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes rendered in ErrorResponse.Code.
const (
	CodeEmailTaken     = "EMAIL_ALREADY_TAKEN"
	CodeBadCredentials = "BAD_CREDENTIALS"
	CodeTokenInvalid   = "TOKEN_INVALID"
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeNoProviders    = "NO_PROVIDERS_FOR_SERVICE"
	CodeBadRequest     = "BAD_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<CODE>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, ErrorResponse) {
	// Known domain errors first: they may arrive wrapped.
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return http.StatusConflict, ErrorResponse{Error: domain.ErrEmailAlreadyInUse.Error(), Code: CodeEmailTaken}
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: "bad credentials", Code: CodeBadCredentials}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token", Code: CodeTokenInvalid}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "user not found", Code: CodeUserNotFound}
	case errors.Is(err, domain.ErrNoProvidersForService):
		return http.StatusNotFound, ErrorResponse{Error: domain.ErrNoProvidersForService.Error(), Code: CodeNoProviders}
	}

	// Echo's own errors (bind failures, validation, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{Error: fmt.Sprintf("%v", he.Message), Code: codeForStatus(he.Code)}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusInternalServerError:
		return CodeInternal
	default:
		return http.StatusText(status)
	}
}

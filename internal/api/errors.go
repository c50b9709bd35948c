package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"

	"github.com/soustitre/soustitre/internal/apperrors"
)

// statusFor maps the error taxonomy to HTTP status codes. Validation failures
// are the caller's fault, acquisition failures read as not-found, and
// credential problems mean the capability is unavailable rather than the video.
func statusFor(err error) int {
	switch {
	case errors.Is(err, &apperrors.ErrInvalidFormat{}),
		errors.Is(err, &apperrors.ErrMissingField{}):
		return http.StatusBadRequest
	case errors.Is(err, &apperrors.ErrNoCaptions{}),
		errors.Is(err, &apperrors.ErrVideoUnavailable{}),
		errors.Is(err, &apperrors.ErrPrivateVideo{}),
		errors.Is(err, &apperrors.ErrProviderThrottled{}):
		return http.StatusNotFound
	case errors.Is(err, &apperrors.ErrAuthenticationRequired{}),
		errors.Is(err, &apperrors.ErrAuthenticationExpired{}):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON writes the JSON error body for a pipeline failure. Unclassified
// errors are logged and reported, and their details leak to the client only
// in development mode.
func (h *Handler) errorJSON(c echo.Context, err error) error {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		return c.JSON(status, errorResponse{Error: err.Error()})
	}

	h.logger.Error().
		Err(err).
		Str("path", c.Path()).
		Msg("Request failed with unclassified error")
	sentry.CaptureException(err)

	body := errorResponse{Error: "internal server error"}
	if h.development {
		body.Details = err.Error()
	}
	return c.JSON(status, body)
}

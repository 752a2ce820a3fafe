package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"feedsearch/logger"
	"feedsearch/utils/errors"
	"feedsearch/utils/otel"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// parseBool implements the API's boolean convention: true|t|yes|y|1 is
// true, anything else false.
func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	return false
}

// parseBoolDefault falls back to the parameter's documented default when
// the query string omits it.
func parseBoolDefault(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	return parseBool(value)
}

func restLogger() *slog.Logger {
	if logger.Logger != nil {
		return logger.Logger
	}
	return slog.Default()
}

// handleError maps application errors onto HTTP responses. Server-side
// failures are captured by telemetry; client errors are not.
func handleError(c echo.Context, err error, operation string) error {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.UnknownError("internal server error", err, nil)
	}

	errors.LogError(restLogger(), appErr, operation)

	status := appErr.HTTPStatusCode()
	if status >= http.StatusInternalServerError {
		sentry.CaptureException(appErr)
		if otel.Metrics != nil {
			otel.Metrics.ErrorsTotal.Add(c.Request().Context(), 1)
		}
	}

	return c.JSON(status, appErr.ToHTTPResponse())
}

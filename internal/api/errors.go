package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"resumerag/internal/domain"
)

// handleServiceError maps pipeline errors to responses. Configuration
// problems are the caller's to fix (400); everything else is a 500 that
// names the failed operation.
func handleServiceError(w http.ResponseWriter, operation string, err error, logger *zap.Logger) {
	var reqErr *RequestError
	var werr error
	switch {
	case errors.As(err, &reqErr):
		details := map[string]any(nil)
		if len(reqErr.Fields) > 0 {
			details = map[string]any{"fields": reqErr.Fields}
		}
		werr = WriteError(w, http.StatusBadRequest, "bad_request", reqErr.Message, details)
	case domain.IsConfigurationError(err):
		logger.Warn(operation+" rejected: configuration", zap.Error(err))
		werr = WriteError(w, http.StatusBadRequest, "configuration_error", err.Error(), nil)
	default:
		logger.Error(operation+" failed", zap.Error(err), zap.String("kind", string(domain.KindOf(err))))
		werr = WriteError(w, http.StatusInternalServerError, "internal_error", operation+" failed: "+err.Error(), nil)
	}
	if werr != nil {
		logger.Error("failed to write error response", zap.Error(werr))
	}
}

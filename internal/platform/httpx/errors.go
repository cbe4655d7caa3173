package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/skydecor/catalog/internal/shared"
)

// RespondError maps domain errors onto the JSON error envelope. The message for
// upstream failures is the caller supplied fallback; details only reach the log.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		JSON(w, http.StatusBadRequest, ErrorBody{Message: "Validation failed", Errors: shared.FieldErrors(err)})
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, shared.ErrTimeout):
		logError(logger, fallback, err)
		Fail(w, http.StatusGatewayTimeout, fallback+": timed out")
	default:
		logError(logger, fallback, err)
		Fail(w, http.StatusInternalServerError, fallback)
	}
}

// NotFoundMessager lets domain errors choose the 404 message.
type NotFoundMessager interface {
	NotFoundMessage() string
}

func notFoundMessage(err error) string {
	var m NotFoundMessager
	if errors.As(err, &m) {
		return m.NotFoundMessage()
	}
	return "Not found"
}

func logError(logger *slog.Logger, msg string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(msg, slog.Any("error", err))
}

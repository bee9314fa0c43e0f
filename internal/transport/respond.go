package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
	"github.com/tallyhq/tally/internal/domain/validate"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Status: "success", Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: "success", Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors onto the HTTP taxonomy. Anything unmapped is
// a 500: the cause goes to the log, never to the caller.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *validate.Error
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: ve.Error()})
	case errors.Is(err, project.ErrNotFound),
		errors.Is(err, task.ErrNotFound),
		errors.Is(err, task.ErrProjectNotFound),
		errors.Is(err, file.ErrNotFound),
		errors.Is(err, file.ErrProjectNotFound),
		errors.Is(err, timelog.ErrNotFound),
		errors.Is(err, timelog.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Status: "error", Message: err.Error()})
	case errors.Is(err, file.ErrForbidden), errors.Is(err, timelog.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{Status: "error", Message: err.Error()})
	case errors.Is(err, project.ErrHasReferences):
		writeJSON(w, http.StatusConflict, envelope{Status: "error", Message: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var ve validate.Error
		ve.Add("body", "must be valid JSON")
		return ve.Err()
	}
	return nil
}

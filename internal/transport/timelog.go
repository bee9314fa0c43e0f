package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/domain/timelog"
	"github.com/tallyhq/tally/internal/domain/validate"
)

type timeLogCreateBody struct {
	Task        string `json:"task"`
	Hours       any    `json:"hours"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type timeLogUpdateBody struct {
	Hours       any     `json:"hours"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

// hoursField renders the hours value as the raw string the domain layer
// validates. Clients send either a JSON number or a numeric string.
func hoursField(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return "invalid"
	}
}

func (s *Server) createTimeLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body timeLogCreateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	res, err := s.svc.TimeLogs.Create(r.Context(), userID, timelog.CreateRequest{
		TaskID:      body.Task,
		Hours:       hoursField(body.Hours),
		Date:        body.Date,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusCreated, res)
}

var queryDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDateQuery(ve *validate.Error, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	ve.Add(field, "must be a valid date")
	return nil
}

func (s *Server) listTimeLogs(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	q := r.URL.Query()
	var ve validate.Error
	opts := timelog.ListOptions{
		TaskID: q.Get("task"),
		From:   parseDateQuery(&ve, "startDate", q.Get("startDate")),
		To:     parseDateQuery(&ve, "endDate", q.Get("endDate")),
	}
	if err := ve.Err(); err != nil {
		writeError(w, s.logger, err)
		return
	}

	logs, err := s.svc.TimeLogs.List(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"timeLogs": logs})
}

func (s *Server) listTimeLogsByTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	logs, err := s.svc.TimeLogs.ListByTask(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"timeLogs": logs})
}

func (s *Server) taskSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	sum, err := s.svc.TimeLogs.SummarizeByTask(r.Context(), chi.URLParam(r, "taskId"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, sum)
}

func (s *Server) updateTimeLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body timeLogUpdateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	req := timelog.UpdateRequest{
		ID:          chi.URLParam(r, "id"),
		Date:        body.Date,
		Description: body.Description,
	}
	if body.Hours != nil {
		h := hoursField(body.Hours)
		req.Hours = &h
	}

	l, err := s.svc.TimeLogs.Update(r.Context(), userID, req)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"timeLog": l})
}

func (s *Server) deleteTimeLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.TimeLogs.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "time log deleted")
}

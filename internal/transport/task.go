package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/domain/task"
)

type taskCreateBody struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Project     string  `json:"project"`
	AssignedTo  *string `json:"assignedTo"`
	Status      *string `json:"status"`
}

type taskUpdateBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Status      *string `json:"status"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	var body taskCreateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	t, err := s.svc.Tasks.Create(r.Context(), task.CreateRequest{
		Title:       body.Title,
		Description: body.Description,
		ProjectID:   body.Project,
		AssignedTo:  body.AssignedTo,
		Status:      body.Status,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"task": t})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	tasks, err := s.svc.Tasks.List(r.Context(), task.ListOptions{
		ProjectID: r.URL.Query().Get("project"),
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	t, err := s.svc.Tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"task": t})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	var body taskUpdateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	t, err := s.svc.Tasks.Update(r.Context(), task.UpdateRequest{
		ID:          chi.URLParam(r, "id"),
		Title:       body.Title,
		Description: body.Description,
		AssignedTo:  body.AssignedTo,
		Status:      body.Status,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"task": t})
}

package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/domain/project"
)

type projectCreateBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LogoURL     string `json:"logoUrl"`
}

type projectUpdateBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logoUrl"`
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body projectCreateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	p, err := s.svc.Projects.Create(r.Context(), userID, project.CreateRequest{
		Title:       body.Title,
		Description: body.Description,
		LogoURL:     body.LogoURL,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"project": p})
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	projects, err := s.svc.Projects.List(r.Context(), userID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	p, err := s.svc.Projects.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"project": p})
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body projectUpdateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	p, err := s.svc.Projects.Update(r.Context(), userID, project.UpdateRequest{
		ID:          chi.URLParam(r, "id"),
		Title:       body.Title,
		Description: body.Description,
		LogoURL:     body.LogoURL,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"project": p})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.Projects.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "project deleted")
}

// uploadProjectLogo stores the uploaded image as a File record and attaches
// it as the project's logo.
func (s *Server) uploadProjectLogo(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}
	projectID := chi.URLParam(r, "id")

	// The project must exist and belong to the caller before any bytes land
	// on disk.
	if _, err := s.svc.Projects.Get(r.Context(), userID, projectID); err != nil {
		writeError(w, s.logger, err)
		return
	}

	upload, err := s.saveUpload(r, "logo")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	f, err := s.svc.Files.Create(r.Context(), userID, upload.createRequest(projectID))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	p, err := s.svc.Projects.AttachLogo(r.Context(), userID, projectID, f.ID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"project": p, "file": f})
}

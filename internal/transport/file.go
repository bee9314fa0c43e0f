package transport

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/domain/validate"
)

const maxUploadBytes = 32 << 20

// upload is a multipart file landed on disk, not yet recorded.
type upload struct {
	Filename string
	Stored   string
}

func (u upload) createRequest(projectID string) file.CreateRequest {
	return file.CreateRequest{
		Filename:  u.Filename,
		Filepath:  u.Stored,
		ProjectID: projectID,
	}
}

// saveUpload writes the named multipart part under the uploads root. The
// stored name is uuid-prefixed so repeated uploads of the same filename
// never collide.
func (s *Server) saveUpload(r *http.Request, field string) (upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var ve validate.Error
		ve.Add(field, "must be a multipart upload")
		return upload{}, ve.Err()
	}

	part, header, err := r.FormFile(field)
	if err != nil {
		var ve validate.Error
		ve.Add(field, "is required")
		return upload{}, ve.Err()
	}
	defer part.Close()

	if err := os.MkdirAll(s.uploads, 0o755); err != nil {
		return upload{}, fmt.Errorf("creating uploads dir: %w", err)
	}

	stored := uuid.NewString() + "_" + filepath.Base(header.Filename)
	dst, err := os.Create(filepath.Join(s.uploads, stored))
	if err != nil {
		return upload{}, fmt.Errorf("storing upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, part); err != nil {
		return upload{}, fmt.Errorf("storing upload: %w", err)
	}

	return upload{Filename: header.Filename, Stored: stored}, nil
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	up, err := s.saveUpload(r, "file")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	f, err := s.svc.Files.Create(r.Context(), userID, up.createRequest(r.FormValue("projectId")))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"file": f})
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	q := r.URL.Query()
	files, err := s.svc.Files.List(r.Context(), file.ListOptions{
		ProjectID: q.Get("projectId"),
		UserID:    q.Get("userId"),
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	f, err := s.svc.Files.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"file": f})
}

// downloadFile streams the stored bytes. A record whose backing file is
// gone looks the same to the caller as a missing record.
func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	f, err := s.svc.Files.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	// Stored names are flat; anything else is a tampered record.
	if strings.Contains(f.Filepath, "..") || strings.ContainsRune(f.Filepath, os.PathSeparator) {
		writeError(w, s.logger, file.ErrNotFound)
		return
	}

	src, err := os.Open(filepath.Join(s.uploads, f.Filepath))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, s.logger, file.ErrNotFound)
			return
		}
		writeError(w, s.logger, err)
		return
	}
	defer src.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, src); err != nil {
		s.logger.Error("streaming file", "file_id", f.ID, "error", err)
	}
}

type fileUpdateBody struct {
	Filename *string `json:"filename"`
	Status   *string `json:"status"`
}

func (s *Server) updateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body fileUpdateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}

	req := file.UpdateRequest{
		ID:       chi.URLParam(r, "id"),
		Filename: body.Filename,
	}
	if body.Status != nil {
		state := liveness.State(*body.Status)
		if !state.Valid() {
			var ve validate.Error
			ve.Add("status", "must be active or deleted")
			writeError(w, s.logger, ve.Err())
			return
		}
		req.Liveness = &state
	}

	f, err := s.svc.Files.Update(r.Context(), userID, req)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"file": f})
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.Files.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "file deleted")
}

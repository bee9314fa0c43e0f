package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
)

// ProjectService is the project surface the HTTP layer needs.
type ProjectService interface {
	Create(ctx context.Context, ownerID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, ownerID, id string) (*project.Project, error)
	List(ctx context.Context, ownerID string) ([]project.Project, error)
	Update(ctx context.Context, ownerID string, req project.UpdateRequest) (*project.Project, error)
	AttachLogo(ctx context.Context, ownerID, id, fileID string) (*project.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TaskService is the task surface the HTTP layer needs.
type TaskService interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
	Update(ctx context.Context, req task.UpdateRequest) (*task.Task, error)
}

// FileService is the file-metadata surface the HTTP layer needs. Byte
// storage lives in the transport; the service only tracks records.
type FileService interface {
	Create(ctx context.Context, userID string, req file.CreateRequest) (*file.File, error)
	Get(ctx context.Context, id string) (*file.File, error)
	List(ctx context.Context, opts file.ListOptions) ([]file.File, error)
	Update(ctx context.Context, userID string, req file.UpdateRequest) (*file.File, error)
	Delete(ctx context.Context, userID, id string) error
}

// TimeLogService is the time-log surface the HTTP layer needs.
type TimeLogService interface {
	Create(ctx context.Context, userID string, req timelog.CreateRequest) (*timelog.Result, error)
	List(ctx context.Context, opts timelog.ListOptions) ([]timelog.TimeLog, error)
	ListByTask(ctx context.Context, taskID string) ([]timelog.TimeLog, error)
	SummarizeByTask(ctx context.Context, taskID string) (timelog.Summary, error)
	Update(ctx context.Context, userID string, req timelog.UpdateRequest) (*timelog.TimeLog, error)
	Delete(ctx context.Context, userID, id string) error
}

// Services bundles the domain services the server exposes.
type Services struct {
	Projects ProjectService
	Tasks    TaskService
	Files    FileService
	TimeLogs TimeLogService
}

// Server wires HTTP handlers.
type Server struct {
	svc     Services
	uploads string
	logger  *slog.Logger
}

// NewServer creates the HTTP router. All /api routes sit behind
// authMiddleware; /health does not.
func NewServer(svc Services, uploadsDir string, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	srv := &Server{svc: svc, uploads: uploadsDir, logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(api chi.Router) {
		if authMiddleware != nil {
			api.Use(authMiddleware)
		}

		api.Route("/projects", func(pr chi.Router) {
			pr.Post("/", srv.createProject)
			pr.Get("/", srv.listProjects)
			pr.Get("/{id}", srv.getProject)
			pr.Patch("/{id}", srv.updateProject)
			pr.Delete("/{id}", srv.deleteProject)
			pr.Post("/{id}/logo", srv.uploadProjectLogo)
		})

		api.Route("/tasks", func(tr chi.Router) {
			tr.Post("/", srv.createTask)
			tr.Get("/", srv.listTasks)
			tr.Get("/{id}", srv.getTask)
			tr.Patch("/{id}", srv.updateTask)
		})

		api.Route("/timelogs", func(lr chi.Router) {
			lr.Post("/", srv.createTimeLog)
			lr.Get("/", srv.listTimeLogs)
			lr.Get("/task/{taskId}", srv.listTimeLogsByTask)
			lr.Get("/task/{taskId}/summary", srv.taskSummary)
			lr.Put("/{id}", srv.updateTimeLog)
			lr.Patch("/{id}", srv.updateTimeLog)
			lr.Delete("/{id}", srv.deleteTimeLog)
		})

		api.Route("/files", func(fr chi.Router) {
			fr.Post("/upload", srv.uploadFile)
			fr.Get("/", srv.listFiles)
			fr.Get("/{id}", srv.getFile)
			fr.Get("/{id}/download", srv.downloadFile)
			fr.Patch("/{id}", srv.updateFile)
			fr.Delete("/{id}", srv.deleteFile)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := UserFromContext(r.Context())
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

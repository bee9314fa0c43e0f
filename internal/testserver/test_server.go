// Package testserver spins up a fully wired HTTP server over an in-memory
// database for transport-level tests.
package testserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
	"github.com/tallyhq/tally/internal/sqlite"
	"github.com/tallyhq/tally/internal/transport"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Uploads string
	Token   string
	UserID  string
}

// New builds the full stack: in-memory SQLite, repositories, services with
// the atomic executor and sequential fallback, and the chi router behind
// API-key auth. token is registered for userID before returning.
func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	fileRepo := sqlite.NewFileRepository(db)
	logRepo := sqlite.NewTimeLogRepository(db)
	keyRepo := sqlite.NewAPIKeyRepository(db)

	logger := slog.Default()
	svc := transport.Services{
		Projects: project.NewService(projectRepo, logger),
		Tasks:    task.NewService(taskRepo, projectRepo, logger),
		Files:    file.NewService(fileRepo, logger),
		TimeLogs: timelog.NewService(
			logRepo, taskRepo,
			sqlite.NewAtomicExecutor(db),
			sqlite.NewSequentialExecutor(db),
			logger,
		),
	}

	uploads := t.TempDir()
	server := httptest.NewServer(transport.NewServer(svc, uploads, transport.AuthMiddleware(keyRepo), logger))

	ts := &TestServer{
		Server:  server,
		DB:      db,
		Uploads: uploads,
		Token:   token,
		UserID:  userID,
	}
	ts.AddAPIKey(t, token, userID)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another bearer token, letting tests act as a second
// user.
func (ts *TestServer) AddAPIKey(t *testing.T, token, userID string) {
	t.Helper()
	keys := sqlite.NewAPIKeyRepository(ts.DB)
	require.NoError(t, keys.CreateKey(context.Background(), token, userID, "test key"))
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/domain/file"
	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
	"github.com/tallyhq/tally/internal/mcp"
	"github.com/tallyhq/tally/internal/sqlite"
	"github.com/tallyhq/tally/internal/transport"
	"github.com/tallyhq/tally/migrations"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := runEmbeddedMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	projectRepo := sqlite.NewProjectRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	fileRepo := sqlite.NewFileRepository(db)
	logRepo := sqlite.NewTimeLogRepository(db)
	keyRepo := sqlite.NewAPIKeyRepository(db)

	exec, fallback := selectExecutors(ctx, db, cfg.DB.Atomic, logger)

	projectSvc := project.NewService(projectRepo, logger)
	taskSvc := task.NewService(taskRepo, projectRepo, logger)
	fileSvc := file.NewService(fileRepo, logger)
	logSvc := timelog.NewService(logRepo, taskRepo, exec, fallback, logger)

	router := transport.NewServer(transport.Services{
		Projects: projectSvc,
		Tasks:    taskSvc,
		Files:    fileSvc,
		TimeLogs: logSvc,
	}, cfg.Storage.UploadsDir, transport.AuthMiddleware(keyRepo), logger)

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(mcp.Config{
			Services: mcp.Services{
				Projects: projectSvc,
				Tasks:    taskSvc,
				TimeLogs: logSvc,
			},
			Resolver: keyRepo,
			Logger:   logger,
		})
		mcpHandler := sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{
				SessionTimeout: 30 * time.Minute,
			},
		)
		router.Handle("/mcp", mcpHandler)
		router.Handle("/mcp/*", mcpHandler)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "mcp", cfg.MCP.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(ctx, logger, httpServer)
	return nil
}

// selectExecutors picks how the time-log workflow commits. "auto" probes
// the backend and keeps a sequential fallback for capability failures at
// call time; "on" and "off" force one mode with no fallback.
func selectExecutors(ctx context.Context, db *sqlite.DB, mode string, logger *slog.Logger) (exec, fallback timelog.Executor) {
	switch mode {
	case "on":
		return sqlite.NewAtomicExecutor(db), nil
	case "off":
		return sqlite.NewSequentialExecutor(db), nil
	default:
		if !db.ProbeAtomic(ctx) {
			logger.Warn("backend cannot open transactions, time logs will apply sequentially")
			return sqlite.NewSequentialExecutor(db), nil
		}
		return sqlite.NewAtomicExecutor(db), sqlite.NewSequentialExecutor(db)
	}
}

func runEmbeddedMigrations(db *sqlite.DB) error {
	// Single-shot schema; skip when an earlier boot already applied it.
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'projects'`).Scan(&name)
	if err == nil {
		return nil
	}

	data, err := migrations.FS.ReadFile("001_initial_schema.up.sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(ctx context.Context, logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

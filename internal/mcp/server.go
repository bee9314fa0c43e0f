// Package mcp exposes the domain services as Model Context Protocol tools,
// so assistants can log time and inspect projects over the same auth model
// as the HTTP API.
package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]project.Project, error)
}

// TaskService defines task operations needed by MCP.
type TaskService interface {
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
}

// TimeLogService defines time-log operations needed by MCP.
type TimeLogService interface {
	Create(ctx context.Context, userID string, req timelog.CreateRequest) (*timelog.Result, error)
	List(ctx context.Context, opts timelog.ListOptions) ([]timelog.TimeLog, error)
	SummarizeByTask(ctx context.Context, taskID string) (timelog.Summary, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Tasks    TaskService
	TimeLogs TimeLogService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Resolver UserResolver
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tally",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Logger: cfg.Logger,
	})

	server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))

	registerTools(server, cfg.Services)

	return server
}

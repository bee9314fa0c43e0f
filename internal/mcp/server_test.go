package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
)

type projectStub struct {
	listFn func(context.Context, string) ([]project.Project, error)
}

func (p projectStub) List(ctx context.Context, ownerID string) ([]project.Project, error) {
	return p.listFn(ctx, ownerID)
}

type taskStub struct {
	listFn func(context.Context, task.ListOptions) ([]task.Task, error)
}

func (t taskStub) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	return t.listFn(ctx, opts)
}

type timeLogStub struct {
	createFn    func(context.Context, string, timelog.CreateRequest) (*timelog.Result, error)
	listFn      func(context.Context, timelog.ListOptions) ([]timelog.TimeLog, error)
	summarizeFn func(context.Context, string) (timelog.Summary, error)
}

func (s timeLogStub) Create(ctx context.Context, userID string, req timelog.CreateRequest) (*timelog.Result, error) {
	return s.createFn(ctx, userID, req)
}
func (s timeLogStub) List(ctx context.Context, opts timelog.ListOptions) ([]timelog.TimeLog, error) {
	return s.listFn(ctx, opts)
}
func (s timeLogStub) SummarizeByTask(ctx context.Context, taskID string) (timelog.Summary, error) {
	return s.summarizeFn(ctx, taskID)
}

type resolverStub struct {
	tokenToUser map[string]string
}

func (r resolverStub) ResolveUser(_ context.Context, token string) (string, error) {
	userID, ok := r.tokenToUser[token]
	if !ok {
		return "", errors.New("unknown key")
	}
	return userID, nil
}

// withUser stands in for the auth middleware so tool tests can pin the
// acting user.
func withUser(userID string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(context.WithValue(ctx, userIDKey, userID), method, req)
		}
	}
}

// newToolSession connects a client to a server carrying the given services,
// acting as user1.
func newToolSession(t *testing.T, svc Services) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "tally", Version: "0.1.0"}, nil)
	server.AddReceivingMiddleware(withUser("user1"))
	registerTools(server, svc)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestToolCatalog(t *testing.T) {
	session := newToolSession(t, Services{})

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{"log_time", "task_summary", "list_time_logs", "list_tasks", "list_projects"} {
		require.True(t, names[name], "missing tool %s", name)
	}
}

func TestLogTimeTool(t *testing.T) {
	var gotUser string
	var gotReq timelog.CreateRequest
	svc := Services{
		TimeLogs: timeLogStub{
			createFn: func(_ context.Context, userID string, req timelog.CreateRequest) (*timelog.Result, error) {
				gotUser = userID
				gotReq = req
				return &timelog.Result{
					TimeLog: &timelog.TimeLog{ID: "log1", TaskID: req.TaskID, UserID: userID, Hours: 2},
					Task:    &task.Task{ID: req.TaskID, TotalHours: 2},
				}, nil
			},
		},
	}
	session := newToolSession(t, svc)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "log_time",
		Arguments: map[string]any{
			"task":        "task1",
			"hours":       "2",
			"date":        "2026-03-01",
			"description": "wiring",
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "log_time returned error: %v", result)
	require.Equal(t, "user1", gotUser)
	require.Equal(t, "task1", gotReq.TaskID)
	require.Equal(t, "2", gotReq.Hours)
	require.Equal(t, "2026-03-01", gotReq.Date)
	require.NotEmpty(t, result.Content)
}

func TestLogTimeTool_TaskMissing(t *testing.T) {
	svc := Services{
		TimeLogs: timeLogStub{
			createFn: func(context.Context, string, timelog.CreateRequest) (*timelog.Result, error) {
				return nil, timelog.ErrTaskNotFound
			},
		},
	}
	session := newToolSession(t, svc)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "log_time",
		Arguments: map[string]any{
			"task":  "no-such-task",
			"hours": "2",
			"date":  "2026-03-01",
		},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestTaskSummaryTool(t *testing.T) {
	var gotTask string
	svc := Services{
		TimeLogs: timeLogStub{
			summarizeFn: func(_ context.Context, taskID string) (timelog.Summary, error) {
				gotTask = taskID
				return timelog.Summary{TotalHours: 5, Entries: 2}, nil
			},
		},
	}
	session := newToolSession(t, svc)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "task_summary",
		Arguments: map[string]any{"task": "task1"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "task1", gotTask)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var sum timelog.Summary
	require.NoError(t, json.Unmarshal([]byte(text.Text), &sum))
	require.Equal(t, timelog.Summary{TotalHours: 5, Entries: 2}, sum)
}

func TestListProjectsTool_UsesPrincipal(t *testing.T) {
	var gotOwner string
	svc := Services{
		Projects: projectStub{
			listFn: func(_ context.Context, ownerID string) ([]project.Project, error) {
				gotOwner = ownerID
				return []project.Project{{ID: "p1", Title: "Website", OwnerID: ownerID}}, nil
			},
		},
	}
	session := newToolSession(t, svc)

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_projects"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, "user1", gotOwner)
}

func TestAuthMiddleware_ResolvesUser(t *testing.T) {
	resolver := resolverStub{tokenToUser: map[string]string{"good-token": "user1"}}

	var gotUser string
	next := func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		gotUser = getUserID(ctx)
		return nil, nil
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer good-token")
	req := &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "log_time"},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	}

	_, err := authMiddleware(resolver)(next)(context.Background(), "tools/call", req)
	require.NoError(t, err)
	require.Equal(t, "user1", gotUser)
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	resolver := resolverStub{tokenToUser: map[string]string{"good-token": "user1"}}
	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		t.Fatal("handler must not run")
		return nil, nil
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer wrong-token")
	req := &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "log_time"},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	}

	_, err := authMiddleware(resolver)(next)(context.Background(), "tools/call", req)
	require.ErrorContains(t, err, "unauthorized")
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	resolver := resolverStub{}
	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		t.Fatal("handler must not run")
		return nil, nil
	}

	req := &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "log_time"},
		Extra:  &sdkmcp.RequestExtra{Header: http.Header{}},
	}

	_, err := authMiddleware(resolver)(next)(context.Background(), "tools/call", req)
	require.ErrorContains(t, err, "unauthorized")

	// No Extra at all (non-HTTP transports) is rejected the same way.
	_, err = authMiddleware(resolver)(next)(context.Background(), "tools/call", &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "log_time"},
	})
	require.ErrorContains(t, err, "unauthorized")
}

func TestAuthMiddleware_SkipsProtocolMethods(t *testing.T) {
	resolver := resolverStub{}

	for _, method := range []string{"initialize", "ping"} {
		called := false
		next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
			called = true
			return nil, nil
		}
		_, err := authMiddleware(resolver)(next)(context.Background(), method, &sdkmcp.CallToolRequest{
			Params: &sdkmcp.CallToolParamsRaw{},
		})
		require.NoError(t, err, "method %s", method)
		require.True(t, called, "method %s must bypass auth", method)
	}
}

func TestNewServer_RequiresAuthForTools(t *testing.T) {
	server := NewServer(Config{
		Services: Services{},
		Resolver: resolverStub{tokenToUser: map[string]string{"good-token": "user1"}},
		Logger:   slog.Default(),
	})

	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err) // initialize bypasses auth
	t.Cleanup(func() { _ = session.Close() })

	require.NoError(t, session.Ping(ctx, nil)) // so does ping

	// The in-memory transport carries no Authorization header, so every
	// tool-facing method is rejected.
	_, err = session.ListTools(ctx, nil)
	require.ErrorContains(t, err, "unauthorized")

	_, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects"})
	require.ErrorContains(t, err, "unauthorized")
}

package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tallyhq/tally/internal/domain/project"
	"github.com/tallyhq/tally/internal/domain/task"
	"github.com/tallyhq/tally/internal/domain/timelog"
)

type logTimeInput struct {
	Task        string `json:"task" jsonschema:"the task id to log time against"`
	Hours       string `json:"hours" jsonschema:"hours worked, a positive number"`
	Date        string `json:"date" jsonschema:"date of the work, YYYY-MM-DD or RFC 3339"`
	Description string `json:"description,omitempty" jsonschema:"what the time was spent on"`
}

type taskSummaryInput struct {
	Task string `json:"task" jsonschema:"the task id to summarize"`
}

type listTimeLogsInput struct {
	Task      string `json:"task,omitempty" jsonschema:"filter to one task"`
	StartDate string `json:"startDate,omitempty" jsonschema:"earliest date, YYYY-MM-DD"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"latest date, YYYY-MM-DD"`
}

type listTimeLogsOutput struct {
	TimeLogs []timelog.TimeLog `json:"timeLogs"`
}

type listTasksInput struct {
	Project string `json:"project,omitempty" jsonschema:"filter to one project"`
}

type listTasksOutput struct {
	Tasks []task.Task `json:"tasks"`
}

type listProjectsOutput struct {
	Projects []project.Project `json:"projects"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_time",
		Description: "Log hours against a task. The task's running total advances with the new entry.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in logTimeInput) (*sdkmcp.CallToolResult, *timelog.Result, error) {
		res, err := svc.TimeLogs.Create(ctx, getUserID(ctx), timelog.CreateRequest{
			TaskID:      in.Task,
			Hours:       in.Hours,
			Date:        in.Date,
			Description: in.Description,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "task_summary",
		Description: "Total hours and entry count across a task's active time logs.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in taskSummaryInput) (*sdkmcp.CallToolResult, timelog.Summary, error) {
		sum, err := svc.TimeLogs.SummarizeByTask(ctx, in.Task)
		if err != nil {
			return nil, timelog.Summary{}, err
		}
		return nil, sum, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_time_logs",
		Description: "List active time logs, newest first, optionally filtered by task and date range.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listTimeLogsInput) (*sdkmcp.CallToolResult, listTimeLogsOutput, error) {
		opts := timelog.ListOptions{TaskID: in.Task}
		if in.StartDate != "" {
			t, err := parseToolDate(in.StartDate)
			if err != nil {
				return nil, listTimeLogsOutput{}, err
			}
			opts.From = &t
		}
		if in.EndDate != "" {
			t, err := parseToolDate(in.EndDate)
			if err != nil {
				return nil, listTimeLogsOutput{}, err
			}
			opts.To = &t
		}
		logs, err := svc.TimeLogs.List(ctx, opts)
		if err != nil {
			return nil, listTimeLogsOutput{}, err
		}
		return nil, listTimeLogsOutput{TimeLogs: logs}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, newest first, optionally filtered by project.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listTasksInput) (*sdkmcp.CallToolResult, listTasksOutput, error) {
		tasks, err := svc.Tasks.List(ctx, task.ListOptions{ProjectID: in.Project})
		if err != nil {
			return nil, listTasksOutput{}, err
		}
		return nil, listTasksOutput{Tasks: tasks}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the caller's projects.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, listProjectsOutput, error) {
		projects, err := svc.Projects.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, listProjectsOutput{}, err
		}
		return nil, listProjectsOutput{Projects: projects}, nil
	})
}

func parseToolDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

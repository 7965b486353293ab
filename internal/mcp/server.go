package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cronwizard/internal/core"
	"cronwizard/internal/store"
	"cronwizard/internal/wizard"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// JobStore is the job history the tools read from.
type JobStore interface {
	ListJobs(ctx context.Context, limit int) ([]*core.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// MCPServer exposes schedule building and the job list as MCP tools.
type MCPServer struct {
	store    JobStore
	sink     core.JobSink
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
}

// NewMCPServer creates a new MCP server instance.
func NewMCPServer(store JobStore, sink core.JobSink, logger *slog.Logger, location *time.Location) *MCPServer {
	if location == nil {
		location = time.Local
	}
	return &MCPServer{
		store:    store,
		sink:     sink,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// Run serves the tools over stdio until the input closes.
func (s *MCPServer) Run() error {
	mcpServer := server.NewMCPServer(
		"cronwizard",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.logger.Info("MCP server starting on stdio")
	return server.ServeStdio(mcpServer)
}

func (s *MCPServer) registerTools(mcpServer *server.MCPServer) {
	renderOpts := []mcp.ToolOption{
		mcp.WithDescription("Build a 5-field cron expression from per-field choices. " +
			"Each field takes a type (all, single, interval, list) and comma separated values. " +
			"Omitted fields run on every unit."),
		mcp.WithNumber("count",
			mcp.Description("Number of upcoming run times to return, default 5"),
			mcp.Min(1),
			mcp.Max(10),
		),
	}
	for _, kind := range wizard.Fields() {
		spec := kind.Spec()
		name := fieldParam(kind)
		renderOpts = append(renderOpts,
			mcp.WithString(name+"_type",
				mcp.Description(fmt.Sprintf("How the %s field matches", spec.Name)),
				mcp.Enum("all", "single", "interval", "list"),
			),
			mcp.WithString(name+"_values",
				mcp.Description(fmt.Sprintf("Comma separated %s values (%d-%d), or the step for interval", spec.Name, spec.Min, spec.Max)),
			),
		)
	}
	mcpServer.AddTool(mcp.NewTool("cron_render", renderOpts...), s.handleRender)

	mcpServer.AddTool(mcp.NewTool("cron_preview",
		mcp.WithDescription("Validate a cron expression and list its upcoming run times"),
		mcp.WithString("cron",
			mcp.Required(),
			mcp.Description("Cron expression, e.g. '0 9 * * 1-5'"),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of run times to return, default 5"),
			mcp.Min(1),
			mcp.Max(10),
		),
	), s.handlePreview)

	mcpServer.AddTool(mcp.NewTool("cron_add_job",
		mcp.WithDescription("Commit a job with a schedule to the job list"),
		mcp.WithString("cron",
			mcp.Required(),
			mcp.Description("5-field cron expression"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command line the job runs"),
		),
		mcp.WithString("title",
			mcp.Description("Title written in the comment above the job"),
		),
	), s.handleAddJob)

	mcpServer.AddTool(mcp.NewTool("cron_list_jobs",
		mcp.WithDescription("List committed jobs, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of jobs, default 20"),
			mcp.Min(1),
			mcp.Max(100),
		),
	), s.handleListJobs)

	mcpServer.AddTool(mcp.NewTool("cron_delete_job",
		mcp.WithDescription("Remove a job from the job history"),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("Job ID"),
		),
	), s.handleDeleteJob)

	s.logger.Info("MCP tools registered", "count", 5)
}

func fieldParam(kind wizard.FieldKind) string {
	return strings.ReplaceAll(kind.String(), " ", "_")
}

func (s *MCPServer) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	constraints := make(map[wizard.FieldKind]wizard.Constraint)
	for _, kind := range wizard.Fields() {
		name := fieldParam(kind)
		kindName := mcp.ParseString(request, name+"_type", "all")
		values, err := parseValues(mcp.ParseString(request, name+"_values", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", name, err)), nil
		}
		c, err := wizard.NewConstraint(kindName, values)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", name, err)), nil
		}
		constraints[kind] = c
	}
	expr, err := wizard.FromConstraints(constraints)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	count := int(mcp.ParseFloat64(request, "count", 5))
	return s.preview(expr.String(), count), nil
}

func (s *MCPServer) handlePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cronExpr := mcp.ParseString(request, "cron", "")
	count := int(mcp.ParseFloat64(request, "count", 5))
	return s.preview(cronExpr, count), nil
}

func (s *MCPServer) preview(expr string, count int) *mcp.CallToolResult {
	if count <= 0 || count > 10 {
		count = 5
	}
	times, err := core.Preview(expr, s.now().In(s.location), count)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Expression: %s\nNext %d runs:\n", expr, len(times))
	for i, t := range times {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(b.String())
}

func (s *MCPServer) handleAddJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cronExpr := strings.TrimSpace(mcp.ParseString(request, "cron", ""))
	command := strings.TrimSpace(mcp.ParseString(request, "command", ""))
	title := strings.TrimSpace(mcp.ParseString(request, "title", ""))
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}
	if _, err := core.ParseCron(cronExpr); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	job := &core.Job{
		ID:        core.NewID(),
		Command:   command,
		Cron:      cronExpr,
		CreatedAt: s.now().UTC(),
	}
	if title != "" {
		job.Comment = "====== " + title
	}
	if err := s.sink.Commit(ctx, job); err != nil {
		s.logger.Error("commit job", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to commit job: %v", err)), nil
	}
	s.logger.Info("job committed", "job_id", job.ID, "cron", job.Cron)
	return mcp.NewToolResultText(fmt.Sprintf("Job committed\nID: %s\n%s", job.ID, job.Line())), nil
}

func (s *MCPServer) handleListJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(mcp.ParseFloat64(request, "limit", 20))
	jobs, err := s.store.ListJobs(ctx, limit)
	if err != nil {
		s.logger.Error("list jobs", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to list jobs: %v", err)), nil
	}
	if len(jobs) == 0 {
		return mcp.NewToolResultText("No jobs found"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d jobs:\n\n", len(jobs))
	for _, j := range jobs {
		fmt.Fprintf(&b, "%s\n", j.ID)
		if j.Comment != "" {
			fmt.Fprintf(&b, "  # %s\n", j.Comment)
		}
		fmt.Fprintf(&b, "  %s\n", j.Line())
		fmt.Fprintf(&b, "  created: %s\n\n", j.CreatedAt.UTC().Format(time.RFC3339))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *MCPServer) handleDeleteJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := mcp.ParseString(request, "job_id", "")
	if err := s.store.DeleteJob(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("job not found: %s", jobID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete job: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Job deleted: %s", jobID)), nil
}

func parseValues(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", p)
		}
		values = append(values, v)
	}
	return values, nil
}

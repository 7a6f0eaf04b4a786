// Package mcp provides the harness MCP server, exposing problem discovery,
// runs, drill-down and sample cleanup as tools.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"sync"
	"time"

	"github.com/deixis/harness"
	"github.com/deixis/harness/internal/config"
	"github.com/deixis/harness/internal/report"
	"github.com/deixis/harness/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	// mu serialises tool calls: runs execute one case at a time and cleanup
	// must not race a run over the same sample files.
	mu     sync.Mutex
	engine *workflow.Engine
	store  report.Store
}

// NewServer creates an MCP server with all harness tools registered.
func NewServer(engine *workflow.Engine, store report.Store) *mcp.Server {
	h := &handler{engine: engine, store: store}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "harness", Version: harness.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "harness_problems",
		Description: "List the discovered problems, their solution programs and sample case counts, including setup problems.",
	}, h.problemsHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "harness_run",
		Description: `Run every solution against its stored samples and report pass/fail per case.

Each case runs once with the configured timeout. Output is compared after normalising line endings,
trailing whitespace and trailing blank lines. Results are stored for drill-down via harness_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "harness_inspect",
		Description: `Drill into the results of a harness_run.

Use the run_id from harness_run and a symbol naming a problem (e.g. Problem_A) for all of its cases,
or problem:case (e.g. Problem_A:2) for a single case. Returns full diffs and stderr.`,
	}, h.inspectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "harness_clean",
		Description: `Delete stored .in/.out samples. Solutions are never touched.

Set problem to clean a single problem, or all=true to clean every problem. Exactly one is required.`,
	}, h.cleanHandler)

	return s
}

// updateWorkspaceFromRoots queries the client for MCP roots and rebuilds the
// engine from the .harness file found there, if any. It is called during
// session initialization, before any tool calls.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}
	if len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}

	loaded, err := config.Load(u.Path)
	if err != nil {
		return
	}
	engine, err := workflow.New(loaded.Config, loaded.Root)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.engine = engine
	h.mu.Unlock()
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}

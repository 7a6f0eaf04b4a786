// Package workflow provides the harness execution engine: it walks the
// discovered problems, runs each solution against each sample, judges the
// output and accumulates the run log. It is consumed by both the MCP server
// and the CLI commands.
package workflow

import (
	"context"
	"fmt"

	"github.com/deixis/harness/internal/config"
	"github.com/deixis/harness/internal/discover"
	"github.com/deixis/harness/internal/report"
	"github.com/deixis/harness/internal/runner"
)

// CommandRunner executes a solution with the given stdin.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, cwd string, stdin []byte) (*runner.Result, error)
}

// Engine holds shared dependencies for all workflow operations.
type Engine struct {
	Config *config.Config
	Runner CommandRunner
	Source discover.Source
	Root   string // directory holding .harness; relative config paths resolve here

	// OnCase, when set, is called with every log entry as soon as it is
	// produced, in processing order.
	OnCase func(report.CaseResult)
}

// New builds an Engine for cfg rooted at root, wiring a runner.Runner and
// the discovery source selected by the configured layout.
func New(cfg *config.Config, root string) (*Engine, error) {
	src, err := discover.New(cfg, root)
	if err != nil {
		return nil, fmt.Errorf("configuring discovery: %w", err)
	}
	return &Engine{
		Config: cfg,
		Runner: &runner.Runner{
			Workspace: cfg.SolutionsDir(root),
			Timeout:   cfg.Timeout(),
			MaxOutput: cfg.MaxOutputBytes(),
		},
		Source: src,
		Root:   root,
	}, nil
}

// Problems returns the discovered problems without running anything.
func (e *Engine) Problems() ([]discover.Problem, error) {
	problems, err := e.Source.Discover()
	if err != nil {
		return nil, fmt.Errorf("discovering problems: %w", err)
	}
	return problems, nil
}

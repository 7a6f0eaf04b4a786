package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/harness/internal/discover"
	"github.com/deixis/harness/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct {
	Problems []string `json:"problems,omitempty" jsonschema:"Names of the problems to run (e.g. Problem_A). Defaults to every discovered problem."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	problems, err := h.engine.Problems()
	if err != nil {
		return errorResult(fmt.Sprintf("run failed: %v", err))
	}
	if len(params.Problems) > 0 {
		var selected []discover.Problem
		for _, name := range params.Problems {
			p, ok := discover.Find(problems, name)
			if !ok {
				return errorResult(fmt.Sprintf("problem %q not found", name))
			}
			selected = append(selected, p)
		}
		problems = selected
	}

	result, err := h.engine.RunProblems(ctx, problems)
	if err != nil {
		return errorResult(fmt.Sprintf("run failed: %v", err))
	}

	// Save results for harness_inspect.
	_ = h.store.Save(result)

	return textResult(formatRun(result))
}

func formatRun(rr *report.RunResult) string {
	var b strings.Builder

	if rr.OK() {
		fmt.Fprintln(&b, "Status: PASS")
	} else {
		fmt.Fprintln(&b, "Status: FAIL")
	}
	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintln(&b)

	// Full diffs are left to harness_inspect; the run view keeps one line
	// per case.
	for _, c := range rr.Cases {
		line, _, _ := strings.Cut(c.Message, "\n")
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "=== Summary ===")
	fmt.Fprintln(&b, rr.Summary())

	if failing := report.Failing(rr); len(failing) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Inspect with harness_inspect(run_id=%q, symbol=%q).\n", rr.ID, symbol(failing[0]))
	}
	return b.String()
}

// symbol renders the inspect symbol for an entry.
func symbol(c report.CaseResult) string {
	if c.Case == "" || c.Case == c.Problem {
		return c.Problem
	}
	return c.Problem + ":" + c.Case
}

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/harness/internal/discover"
	"github.com/deixis/harness/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type problemsParams struct{}

func (h *handler) problemsHandler(ctx context.Context, req *mcp.CallToolRequest, _ problemsParams) (*mcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	problems, err := h.engine.Problems()
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to discover problems: %v", err))
	}
	return textResult(formatProblems(h.engine, problems))
}

func formatProblems(e *workflow.Engine, problems []discover.Problem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Layout: %s\n", e.Config.LayoutName())
	fmt.Fprintf(&b, "Root: %s\n", e.Root)
	fmt.Fprintf(&b, "Timeout: %s\n", e.Config.Timeout())
	fmt.Fprintln(&b)

	if len(problems) == 0 {
		fmt.Fprintln(&b, "No problems found.")
		return b.String()
	}

	cases := 0
	for _, p := range problems {
		cases += len(p.Cases)
	}
	fmt.Fprintf(&b, "Problems (%d, %d cases):\n", len(problems), cases)
	for _, p := range problems {
		if p.Issue != nil {
			fmt.Fprintln(&b, "  "+workflow.ProblemIssue(p, p.Issue).Message)
			continue
		}
		ids := make([]string, len(p.Cases))
		for i, c := range p.Cases {
			ids[i] = c.ID
			if c.Issue != nil {
				ids[i] += " (missing .out)"
			}
		}
		fmt.Fprintf(&b, "  %s: %d cases [%s]\n", p.Name, len(p.Cases), strings.Join(ids, ", "))
	}
	return b.String()
}

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/harness/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RunID  string `json:"run_id" jsonschema:"the run ID from a harness_run result"`
	Symbol string `json:"symbol" jsonschema:"problem name for every case of a problem (e.g. Problem_A), or problem:case for a single case (e.g. Problem_A:2)"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}
	if params.Symbol == "" {
		return errorResult("symbol is required")
	}

	result, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	entries := report.BySymbol(result, params.Symbol)
	if len(entries) == 0 {
		return textResult(fmt.Sprintf("No cases found for %s in run %s.", params.Symbol, params.RunID))
	}

	return textResult(formatInspectOutput(result, params.Symbol, entries))
}

func formatInspectOutput(rr *report.RunResult, sym string, entries []report.CaseResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (timeout %s)\n", rr.ID, rr.Timeout)

	counts := make(map[report.Verdict]int)
	var order []report.Verdict
	for _, c := range entries {
		if counts[c.Verdict] == 0 {
			order = append(order, c.Verdict)
		}
		counts[c.Verdict]++
	}
	parts := make([]string, len(order))
	for i, v := range order {
		parts[i] = fmt.Sprintf("%d %s", counts[v], v)
	}
	fmt.Fprintf(&b, "%s: %s\n", sym, strings.Join(parts, ", "))

	for _, c := range entries {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, c.Message)
		if c.Verdict != report.Timeout && c.Verdict != report.ConfigError && c.Verdict != report.Skipped {
			fmt.Fprintf(&b, "(exit code %d, %s)\n", c.ExitCode, c.Duration)
		}
	}
	return b.String()
}

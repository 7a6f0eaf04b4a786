package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/deixis/harness/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type cleanParams struct {
	Problem string `json:"problem,omitempty" jsonschema:"Name of the single problem whose samples are deleted."`
	All     bool   `json:"all,omitempty" jsonschema:"Delete the samples of every problem."`
}

func (h *handler) cleanHandler(ctx context.Context, req *mcp.CallToolRequest, params cleanParams) (*mcp.CallToolResult, any, error) {
	if params.Problem != "" && params.All {
		return errorResult("problem and all cannot be used together")
	}
	if params.Problem == "" && !params.All {
		return errorResult("either problem or all=true is required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.engine.Clean(params.Problem)
	if errors.Is(err, workflow.ErrProblemNotFound) {
		return errorResult(fmt.Sprintf("Problem %q not found.", params.Problem))
	}
	if err != nil {
		return errorResult(fmt.Sprintf("clean failed: %v", err))
	}
	return textResult(result.Log() + "\n\n" + result.Summary() + "\n")
}

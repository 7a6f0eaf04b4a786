package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/deixis/harness/internal/discover"
	"github.com/deixis/harness/internal/report"
	"github.com/deixis/harness/internal/runner"
	"github.com/google/uuid"
)

// Run executes every discovered case once, sequentially, and returns the
// accumulated log. A failing case never stops the run; only environment
// failures (unreadable sample files, cancellation) are returned as errors.
func (e *Engine) Run(ctx context.Context) (*report.RunResult, error) {
	problems, err := e.Problems()
	if err != nil {
		return nil, err
	}
	return e.RunProblems(ctx, problems)
}

// RunProblems is Run over an already discovered problem list.
func (e *Engine) RunProblems(ctx context.Context, problems []discover.Problem) (*report.RunResult, error) {
	rr := &report.RunResult{
		ID:      uuid.New().String(),
		Started: time.Now(),
		Timeout: e.Config.Timeout().String(),
	}
	for _, p := range problems {
		if err := e.runProblem(ctx, rr, p); err != nil {
			return nil, err
		}
	}
	return rr, nil
}

func (e *Engine) runProblem(ctx context.Context, rr *report.RunResult, p discover.Problem) error {
	if p.Issue != nil {
		e.add(rr, ProblemIssue(p, p.Issue))
		return nil
	}

	argv := append(append([]string(nil), e.Config.Interpreter(p.Solution)...), p.Solution)

	for _, c := range p.Cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Issue != nil {
			e.add(rr, CaseIssue(p.Name, c))
			continue
		}

		sample, err := c.Load()
		if err != nil {
			return err
		}
		if e.Config.SkipEmpty && sample.Empty() {
			e.add(rr, Skip(p.Name, c.ID))
			continue
		}

		res, err := e.Runner.Run(ctx, argv, p.Dir, []byte(sample.Input))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var startErr *runner.StartError
			if errors.As(err, &startErr) {
				// The solution cannot run at all; its remaining cases are
				// not attempted.
				e.add(rr, ProblemIssue(p, err))
				return nil
			}
			return fmt.Errorf("running %s: %w", Label(p.Name, c.ID), err)
		}

		e.add(rr, Judge(p.Name, c.ID, filepath.Base(c.ExpectedPath), res, sample.Expected, e.Config.Rules(), e.Config.Timeout()))
	}
	return nil
}

func (e *Engine) add(rr *report.RunResult, c report.CaseResult) {
	rr.Add(c)
	if e.OnCase != nil {
		e.OnCase(c)
	}
}

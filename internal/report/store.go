// Package report provides the structured outcome of a harness run and its
// persistence. Results are stored as typed structs and can be queried by
// problem or by problem:case.
package report

import (
	"fmt"
	"strings"
	"time"
)

// Verdict classifies the outcome of a single case.
type Verdict string

const (
	// Pass means the normalized output matched and the exit code was zero.
	Pass Verdict = "pass"
	// WrongOutput means the solution exited cleanly with differing output.
	WrongOutput Verdict = "wrong_output"
	// NonzeroExit means the solution exited with a non-zero code.
	NonzeroExit Verdict = "nonzero_exit"
	// Timeout means the solution was killed after the per-case timeout.
	Timeout Verdict = "timeout"
	// Skipped means the case was not executed (empty input and output).
	Skipped Verdict = "skipped"
	// ConfigError means the sample setup itself is broken.
	ConfigError Verdict = "config_error"
)

// Failed reports whether v counts toward overall failure.
func (v Verdict) Failed() bool {
	return v != Pass && v != Skipped
}

// Store persists and retrieves run results.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
}

// RunResult holds the outcome of one harness run.
type RunResult struct {
	ID       string       `json:"id"`
	Started  time.Time    `json:"started"`
	Timeout  string       `json:"timeout"`
	Passed   int          `json:"passed"`
	Total    int          `json:"total"` // executed cases; excludes skipped and config errors
	Failures int          `json:"failures"`
	Cases    []CaseResult `json:"cases"`
}

// CaseResult is one entry of the run log. Config errors that affect a whole
// problem have an empty Case.
type CaseResult struct {
	Problem  string        `json:"problem"`
	Case     string        `json:"case,omitempty"`
	Verdict  Verdict       `json:"verdict"`
	ExitCode int           `json:"exit_code,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Diff     string        `json:"diff,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration,omitempty"`
	RunID    string        `json:"run_id,omitempty"` // process run ID from the runner
}

// Add appends c to the log and updates the counters.
func (r *RunResult) Add(c CaseResult) {
	r.Cases = append(r.Cases, c)
	switch c.Verdict {
	case Pass:
		r.Total++
		r.Passed++
	case WrongOutput, NonzeroExit, Timeout:
		r.Total++
		r.Failures++
	case ConfigError:
		r.Failures++
	}
}

// OK reports whether the run should exit successfully: at least one case
// ran, every executed case passed and no structural failure occurred.
func (r *RunResult) OK() bool {
	return r.Total > 0 && r.Passed == r.Total && r.Failures == 0
}

// Summary returns the one-line aggregate shown after the log.
func (r *RunResult) Summary() string {
	if r.Total == 0 {
		return "No testcases were executed"
	}
	return fmt.Sprintf("Passed: %d/%d", r.Passed, r.Total)
}

// Log returns every case message in processing order, one block per case.
func (r *RunResult) Log() string {
	msgs := make([]string, len(r.Cases))
	for i, c := range r.Cases {
		msgs[i] = c.Message
	}
	return strings.Join(msgs, "\n")
}

// ByProblem returns the log entries for a problem.
func ByProblem(result *RunResult, problem string) []CaseResult {
	var out []CaseResult
	for _, c := range result.Cases {
		if c.Problem == problem {
			out = append(out, c)
		}
	}
	return out
}

// BySymbol returns entries matching "problem" or "problem:case".
func BySymbol(result *RunResult, sym string) []CaseResult {
	problem, id := splitSymbol(sym)
	if id == "" {
		return ByProblem(result, problem)
	}

	var out []CaseResult
	for _, c := range ByProblem(result, problem) {
		if caseID(c) == id {
			out = append(out, c)
		}
	}
	return out
}

// Failing returns the entries whose verdict counts as a failure.
func Failing(result *RunResult) []CaseResult {
	var out []CaseResult
	for _, c := range result.Cases {
		if c.Verdict.Failed() {
			out = append(out, c)
		}
	}
	return out
}

// splitSymbol splits "problem:case" into its parts.
// "Problem_A:2" → ("Problem_A", "2"); "Problem_A" → ("Problem_A", "").
func splitSymbol(sym string) (string, string) {
	problem, id, _ := strings.Cut(sym, ":")
	return problem, id
}

// caseID returns the case id, defaulting to the problem name the way labels do.
func caseID(c CaseResult) string {
	if c.Case == "" {
		return c.Problem
	}
	return c.Case
}

package workflow

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/deixis/harness/internal/discover"
	"github.com/deixis/harness/internal/normalize"
	"github.com/deixis/harness/internal/report"
	"github.com/deixis/harness/internal/runner"
	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// Label identifies a log entry: "[problem]" when the case id is empty or
// equals the problem name, "[problem:case]" otherwise.
func Label(problem, caseID string) string {
	if caseID == "" || caseID == problem {
		return "[" + problem + "]"
	}
	return "[" + problem + ":" + caseID + "]"
}

// Judge classifies an execution against the expected output. The first
// matching rule wins: timeout, non-zero exit, normalized match, otherwise
// wrong output with a unified diff of normalized expected vs actual.
// expectedName names the expected-output file in the diff headers.
func Judge(problem, caseID, expectedName string, res *runner.Result, expected string, rules normalize.Rules, timeout time.Duration) report.CaseResult {
	label := Label(problem, caseID)
	cr := report.CaseResult{
		Problem:  problem,
		Case:     caseID,
		RunID:    res.RunID,
		Duration: res.Duration,
	}

	if res.TimedOut {
		cr.Verdict = report.Timeout
		cr.Message = fmt.Sprintf("%s ⏱️ Timeout (>%s)", label, timeout)
		return cr
	}

	stderr := string(res.Stderr)
	cr.Stderr = stderr
	cr.ExitCode = res.ExitCode

	if res.ExitCode != 0 {
		cr.Verdict = report.NonzeroExit
		cr.Message = fmt.Sprintf("%s ❌ Return code: %d", label, res.ExitCode)
		if stderr != "" {
			cr.Message += "\nstderr:\n" + stderr
		}
		return cr
	}

	actual := rules.Apply(string(res.Stdout))
	want := rules.Apply(expected)
	if actual == want {
		cr.Verdict = report.Pass
		cr.Message = label + " ✅ Pass"
		return cr
	}

	cr.Verdict = report.WrongOutput
	cr.Diff = UnifiedDiff(want, actual, expectedName)

	var b strings.Builder
	fmt.Fprintf(&b, "%s ❌ Output not matching\n", label)
	if cr.Diff != "" {
		b.WriteString(cr.Diff)
	} else {
		b.WriteString("(diff unavailable)")
	}
	if res.Truncated {
		b.WriteString("\n(output truncated)")
	}
	if strings.TrimSpace(stderr) != "" {
		b.WriteString("\n\nstderr:\n" + stderr)
	}
	cr.Message = b.String()
	return cr
}

// UnifiedDiff renders a unified diff from expected to actual with headers
// "<name> (expected)" and "<name> (actual)". It returns "" when the texts
// have no line differences.
func UnifiedDiff(expected, actual, name string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(expected),
		B:        splitLines(actual),
		FromFile: name + " (expected)",
		ToFile:   name + " (actual)",
		Context:  diffContext,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(text, "\n")
}

// splitLines splits s into newline-terminated lines; empty text has none.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}

// Skip returns the log entry for a case not executed because both of its
// payloads are empty.
func Skip(problem, caseID string) report.CaseResult {
	return report.CaseResult{
		Problem: problem,
		Case:    caseID,
		Verdict: report.Skipped,
		Message: Label(problem, caseID) + " ⚠️ Empty testcase skipped",
	}
}

// ProblemIssue returns the log entry for a structural problem that prevents
// any case of p from running.
func ProblemIssue(p discover.Problem, err error) report.CaseResult {
	label := Label(p.Name, "")
	var msg string
	var startErr *runner.StartError
	switch {
	case errors.Is(err, discover.ErrMissingSolution):
		msg = label + " ❌ Missing " + filepath.Base(p.Solution)
	case errors.Is(err, discover.ErrNoCaseDir):
		msg = label + " ⚠️ No testcase directory found"
	case errors.Is(err, discover.ErrNoInputs):
		msg = label + " ⚠️ No testcase inputs found"
	case errors.As(err, &startErr):
		msg = fmt.Sprintf("%s ❌ Cannot start solution: %v", label, startErr.Err)
	default:
		msg = fmt.Sprintf("%s ❌ %v", label, err)
	}
	return report.CaseResult{Problem: p.Name, Verdict: report.ConfigError, Message: msg}
}

// CaseIssue returns the log entry for a case whose sample pair is incomplete.
func CaseIssue(problem string, c discover.Case) report.CaseResult {
	label := Label(problem, c.ID)
	msg := fmt.Sprintf("%s ❌ %v", label, c.Issue)
	if errors.Is(c.Issue, discover.ErrMissingExpected) {
		msg = label + " ❌ Missing expected output file " + filepath.Base(c.ExpectedPath)
	}
	return report.CaseResult{Problem: problem, Case: c.ID, Verdict: report.ConfigError, Message: msg}
}

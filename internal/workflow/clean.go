package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deixis/harness/internal/discover"
)

// ErrProblemNotFound is returned by Clean when the named problem does not exist.
var ErrProblemNotFound = errors.New("problem not found")

// CleanResult reports what a cleanup removed.
type CleanResult struct {
	Entries []CleanEntry
	Removed int
}

// CleanEntry is the cleanup outcome for one problem.
type CleanEntry struct {
	Problem string
	Removed int
	Message string
}

// Log returns one line per problem.
func (r *CleanResult) Log() string {
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = e.Message
	}
	return strings.Join(lines, "\n")
}

// Summary returns the total line printed after the log.
func (r *CleanResult) Summary() string {
	return fmt.Sprintf("Total files removed: %d", r.Removed)
}

// Clean deletes every .in/.out sample of the named problem, or of every
// problem when target is empty. It is independent of the comparison engine
// and never touches solution files.
func (e *Engine) Clean(target string) (*CleanResult, error) {
	problems, err := e.Problems()
	if err != nil {
		return nil, err
	}

	if target != "" {
		p, ok := discover.Find(problems, target)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrProblemNotFound, target)
		}
		problems = []discover.Problem{p}
	}

	res := &CleanResult{}
	for _, p := range problems {
		label := Label(p.Name, "")
		switch {
		case p.CaseDir == "":
			res.Entries = append(res.Entries, CleanEntry{Problem: p.Name, Message: label + " ⚠️ No testcase directory to clean"})
			continue
		case len(p.Samples) == 0:
			res.Entries = append(res.Entries, CleanEntry{Problem: p.Name, Message: label + " Nothing to clean"})
			continue
		}

		for _, path := range p.Samples {
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("removing %s: %w", path, err)
			}
		}
		n := len(p.Samples)
		res.Removed += n
		res.Entries = append(res.Entries, CleanEntry{
			Problem: p.Name,
			Removed: n,
			Message: fmt.Sprintf("%s 🧹 Removed %d sample file(s)", label, n),
		})
	}
	return res, nil
}

// Package discover locates problems, their solution programs and their
// sample cases on disk. Two layouts are supported: a directory per problem
// (DirScan) and a flat pair of solution/testcase roots addressed by a fixed
// letter range (FixedEnum).
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deixis/harness/internal/config"
)

// Structural problems with the sample setup. They are recorded on the
// affected Problem or Case and never abort discovery.
var (
	ErrMissingSolution = errors.New("missing solution")
	ErrNoCaseDir       = errors.New("no testcase directory")
	ErrNoInputs        = errors.New("no testcase inputs")
	ErrMissingExpected = errors.New("missing expected output")
)

// Sample file extensions.
const (
	InputExt    = ".in"
	ExpectedExt = ".out"
)

// Problem is one solution program and the cases it is judged against.
type Problem struct {
	Name     string
	Dir      string   // working directory for the solution
	Solution string   // absolute path of the solution program
	CaseDir  string   // directory holding the samples; empty if it does not exist
	Cases    []Case   // sorted by ID
	Samples  []string // every .in/.out file owned by the problem
	Issue    error    // structural problem; Cases is empty when set
}

// Case pairs an input sample with its expected output by shared stem.
type Case struct {
	ID           string
	InputPath    string
	ExpectedPath string
	Issue        error // ErrMissingExpected
}

// Sample holds the loaded payloads of a case. It is read-only.
type Sample struct {
	Input    string
	Expected string
}

// Empty reports whether both payloads are empty.
func (s Sample) Empty() bool {
	return s.Input == "" && s.Expected == ""
}

// Load reads the case's input and expected output.
func (c Case) Load() (Sample, error) {
	in, err := os.ReadFile(c.InputPath)
	if err != nil {
		return Sample{}, fmt.Errorf("reading input %s: %w", c.InputPath, err)
	}
	exp, err := os.ReadFile(c.ExpectedPath)
	if err != nil {
		return Sample{}, fmt.Errorf("reading expected output %s: %w", c.ExpectedPath, err)
	}
	return Sample{Input: string(in), Expected: string(exp)}, nil
}

// Source discovers problems. Errors returned from Discover indicate the
// environment is broken (e.g. permission denied), not a setup mistake.
type Source interface {
	Discover() ([]Problem, error)
}

// New returns the Source selected by cfg's layout, rooted at root.
func New(cfg *config.Config, root string) (Source, error) {
	switch cfg.LayoutName() {
	case config.LayoutProblems:
		return &DirScan{
			Root:     cfg.SolutionsDir(root),
			Solution: cfg.SolutionName(),
			CaseDir:  cfg.CaseDirName(),
		}, nil
	case config.LayoutFlat:
		first, last, err := cfg.CaseRange()
		if err != nil {
			return nil, err
		}
		return &FixedEnum{
			SolutionsDir: cfg.SolutionsDir(root),
			TestcasesDir: cfg.TestcasesDir(root),
			Ext:          cfg.FlatSolutionExt(),
			First:        first,
			Last:         last,
		}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", cfg.Layout)
	}
}

// Find returns the problem named name.
func Find(problems []Problem, name string) (Problem, bool) {
	for _, p := range problems {
		if p.Name == name {
			return p, true
		}
	}
	return Problem{}, false
}

// exists reports whether path exists. Errors other than "not exist" are
// returned so the caller can abort.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// isDir reports whether path exists and is a directory. A regular file in
// its place counts as absent.
func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// absPath makes path absolute so it can be executed from any directory.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

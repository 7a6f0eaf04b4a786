// Package config loads and validates the optional .harness YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deixis/harness/internal/normalize"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up by Load.
const FileName = ".harness"

// Layouts understood by the discovery step.
const (
	LayoutProblems = "problems" // one subdirectory per problem
	LayoutFlat     = "flat"     // solutions/<L>.ext + testcases/<L>.in|.out
)

// Default values for harness configuration.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxOutput   = 8 << 20 // 8 MB
	DefaultSolutions   = "solutions"
	DefaultTestcases   = "testcases"
	DefaultSolution    = "algorithm.py"
	DefaultCaseDir     = "testcases"
	DefaultCaseRange   = "A-E"
	DefaultSolutionExt = ".py"
)

// Config holds the parsed .harness configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int             `yaml:"version"`
	Layout       string          `yaml:"layout"`       // problems or flat
	Solutions    string          `yaml:"solutions"`    // solution root, relative to the config root
	Testcases    string          `yaml:"testcases"`    // flat layout only
	Solution     string          `yaml:"solution"`     // per-problem solution file name
	CaseDir      string          `yaml:"case_dir"`     // per-problem sample directory
	RawCases     string          `yaml:"cases"`        // flat layout letter range, e.g. "A-H"
	SolutionExt  string          `yaml:"solution_ext"` // flat layout solution extension
	Command      []string        `yaml:"interpreter"`  // argv prefix, e.g. [python3, -u]
	RawTimeout   string          `yaml:"timeout"`      // e.g. "10s", "2m"
	RawMaxOutput int             `yaml:"max_output"`   // bytes per stream
	SkipEmpty    bool            `yaml:"skip_empty"`
	Normalize    NormalizeConfig `yaml:"normalize"`
}

// NormalizeConfig toggles the individual output normalization steps.
// A nil field means enabled.
type NormalizeConfig struct {
	LineEndings        *bool `yaml:"line_endings"`
	TrailingSpace      *bool `yaml:"trailing_space"`
	TrailingBlankLines *bool `yaml:"trailing_blank_lines"`
}

// Timeout returns the configured per-case timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// LayoutName returns the configured layout, falling back to LayoutProblems.
func (c *Config) LayoutName() string {
	if c.Layout != "" {
		return c.Layout
	}
	return LayoutProblems
}

// SolutionsDir returns the solution root relative to root.
func (c *Config) SolutionsDir(root string) string {
	return resolve(root, c.Solutions, DefaultSolutions)
}

// TestcasesDir returns the flat testcase root relative to root.
func (c *Config) TestcasesDir(root string) string {
	return resolve(root, c.Testcases, DefaultTestcases)
}

// SolutionName returns the per-problem solution file name.
func (c *Config) SolutionName() string {
	if c.Solution != "" {
		return c.Solution
	}
	return DefaultSolution
}

// CaseDirName returns the per-problem sample directory name.
func (c *Config) CaseDirName() string {
	if c.CaseDir != "" {
		return c.CaseDir
	}
	return DefaultCaseDir
}

// FlatSolutionExt returns the solution extension used by the flat layout.
func (c *Config) FlatSolutionExt() string {
	if c.SolutionExt == "" {
		return DefaultSolutionExt
	}
	if !strings.HasPrefix(c.SolutionExt, ".") {
		return "." + c.SolutionExt
	}
	return c.SolutionExt
}

// CaseRange parses the flat layout letter range ("A-E", "a-c", "K").
func (c *Config) CaseRange() (first, last byte, err error) {
	raw := strings.TrimSpace(c.RawCases)
	if raw == "" {
		raw = DefaultCaseRange
	}
	lo, hi, found := strings.Cut(raw, "-")
	if !found {
		hi = lo
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	if len(lo) != 1 || len(hi) != 1 || !isLetter(lo[0]) || !isLetter(hi[0]) {
		return 0, 0, fmt.Errorf("invalid case range %q: want a letter range like A-H", raw)
	}
	first, last = lo[0], hi[0]
	if isUpper(first) != isUpper(last) || first > last {
		return 0, 0, fmt.Errorf("invalid case range %q", raw)
	}
	return first, last, nil
}

// Rules returns the normalization toggles with defaults applied.
func (c *Config) Rules() normalize.Rules {
	return normalize.Rules{
		LineEndings:        enabled(c.Normalize.LineEndings),
		TrailingSpace:      enabled(c.Normalize.TrailingSpace),
		TrailingBlankLines: enabled(c.Normalize.TrailingBlankLines),
	}
}

// defaultInterpreters maps solution extensions to the program used to run them.
var defaultInterpreters = map[string][]string{
	".py": {"python3"},
	".sh": {"sh"},
	".js": {"node"},
	".rb": {"ruby"},
}

// Interpreter returns the argv prefix used to launch the solution at path.
// An explicit interpreter setting wins; otherwise the prefix is chosen by
// file extension. A nil result means the solution is executed directly.
func (c *Config) Interpreter(path string) []string {
	if len(c.Command) > 0 {
		return c.Command
	}
	return defaultInterpreters[strings.ToLower(filepath.Ext(path))]
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	switch c.LayoutName() {
	case LayoutProblems:
	case LayoutFlat:
		if _, _, err := c.CaseRange(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown layout %q (want %q or %q)", c.Layout, LayoutProblems, LayoutFlat)
	}
	if c.RawTimeout != "" {
		if d, err := time.ParseDuration(c.RawTimeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout %q", c.RawTimeout)
		}
	}
	return nil
}

// LoadResult holds the parsed config and the directory it was found in.
type LoadResult struct {
	Config *Config
	Root   string // directory containing .harness; falls back to workspace
}

// Load reads the .harness file. The file is discovered by walking upward
// from workspace. If no .harness file exists, a default Config rooted at
// workspace is returned.
func Load(workspace string) (*LoadResult, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}

	root, err := findRoot(abs)
	if err != nil {
		return &LoadResult{Config: &Config{}, Root: abs}, nil
	}

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Root: root}, nil
}

// findRoot walks upward from dir looking for a directory containing .harness.
func findRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", FileName)
		}
		dir = parent
	}
}

func resolve(root, p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func enabled(b *bool) bool {
	return b == nil || *b
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

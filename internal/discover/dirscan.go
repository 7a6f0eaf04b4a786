package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirScan discovers one problem per subdirectory of Root. Each problem
// directory holds a solution file named Solution and a CaseDir directory of
// <stem>.in / <stem>.out pairs.
type DirScan struct {
	Root     string
	Solution string
	CaseDir  string
}

// Discover implements Source.
func (d *DirScan) Discover() ([]Problem, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("reading solutions directory: %w", err)
	}

	var problems []Problem
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := d.scanProblem(e.Name())
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Name < problems[j].Name })
	return problems, nil
}

func (d *DirScan) scanProblem(name string) (Problem, error) {
	dir := absPath(filepath.Join(d.Root, name))
	p := Problem{
		Name:     name,
		Dir:      dir,
		Solution: filepath.Join(dir, d.Solution),
	}

	// Samples are collected before the solution check so cleanup still sees
	// them for problems without a solution.
	caseDir := filepath.Join(dir, d.CaseDir)
	ok, err := isDir(caseDir)
	if err != nil {
		return Problem{}, err
	}
	var inputs []string
	if ok {
		p.CaseDir = caseDir
		entries, err := os.ReadDir(caseDir)
		if err != nil {
			return Problem{}, fmt.Errorf("reading %s: %w", caseDir, err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			switch filepath.Ext(e.Name()) {
			case InputExt:
				inputs = append(inputs, e.Name())
				p.Samples = append(p.Samples, filepath.Join(caseDir, e.Name()))
			case ExpectedExt:
				p.Samples = append(p.Samples, filepath.Join(caseDir, e.Name()))
			}
		}
	}

	hasSolution, err := exists(p.Solution)
	if err != nil {
		return Problem{}, err
	}
	switch {
	case !hasSolution:
		p.Issue = fmt.Errorf("%w %s", ErrMissingSolution, d.Solution)
		return p, nil
	case !ok:
		p.Issue = ErrNoCaseDir
		return p, nil
	case len(inputs) == 0:
		p.Issue = ErrNoInputs
		return p, nil
	}

	sort.Strings(inputs)
	for _, in := range inputs {
		stem := strings.TrimSuffix(in, InputExt)
		c := Case{
			ID:           stem,
			InputPath:    filepath.Join(caseDir, in),
			ExpectedPath: filepath.Join(caseDir, stem+ExpectedExt),
		}
		found, err := exists(c.ExpectedPath)
		if err != nil {
			return Problem{}, err
		}
		if !found {
			c.Issue = fmt.Errorf("%w file %s", ErrMissingExpected, stem+ExpectedExt)
		}
		p.Cases = append(p.Cases, c)
	}
	return p, nil
}

package discover

import (
	"fmt"
	"path/filepath"
)

// FixedEnum addresses a bounded, contiguous letter range of problems in a
// flat layout: SolutionsDir/<L><Ext> is judged against
// TestcasesDir/<L>.in and TestcasesDir/<L>.out. Each problem has exactly
// one case whose ID equals the problem name.
type FixedEnum struct {
	SolutionsDir string
	TestcasesDir string
	Ext          string
	First, Last  byte
}

// Discover implements Source.
func (f *FixedEnum) Discover() ([]Problem, error) {
	solutions := absPath(f.SolutionsDir)
	testcases := absPath(f.TestcasesDir)
	hasTestcases, err := isDir(testcases)
	if err != nil {
		return nil, err
	}
	caseDir := ""
	if hasTestcases {
		caseDir = testcases
	}

	var problems []Problem
	for l := f.First; l <= f.Last; l++ {
		name := string(rune(l))
		p := Problem{
			Name:     name,
			Dir:      solutions,
			Solution: filepath.Join(solutions, name+f.Ext),
			CaseDir:  caseDir,
		}
		c := Case{
			ID:           name,
			InputPath:    filepath.Join(testcases, name+InputExt),
			ExpectedPath: filepath.Join(testcases, name+ExpectedExt),
		}

		hasIn, err := exists(c.InputPath)
		if err != nil {
			return nil, err
		}
		hasOut, err := exists(c.ExpectedPath)
		if err != nil {
			return nil, err
		}
		if hasIn {
			p.Samples = append(p.Samples, c.InputPath)
		}
		if hasOut {
			p.Samples = append(p.Samples, c.ExpectedPath)
		}

		hasSolution, err := exists(p.Solution)
		if err != nil {
			return nil, err
		}
		switch {
		case !hasSolution:
			p.Issue = fmt.Errorf("%w %s", ErrMissingSolution, name+f.Ext)
		case !hasTestcases:
			p.Issue = ErrNoCaseDir
		case !hasIn:
			p.Issue = ErrNoInputs
		default:
			if !hasOut {
				c.Issue = fmt.Errorf("%w file %s", ErrMissingExpected, name+ExpectedExt)
			}
			p.Cases = []Case{c}
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// Package normalize canonicalises program output before comparison.
//
// Normalization is lossy in exactly three dimensions (line-ending style,
// trailing horizontal whitespace, trailing blank lines) and strict in all
// others: interior whitespace, case, line order and number formatting are
// compared as-is.
package normalize

import "strings"

// Rules selects which normalization steps are applied.
type Rules struct {
	LineEndings        bool // CRLF and lone CR become LF
	TrailingSpace      bool // strip spaces and tabs at the end of every line
	TrailingBlankLines bool // drop empty lines at the end of the text
}

// Default enables every step.
var Default = Rules{LineEndings: true, TrailingSpace: true, TrailingBlankLines: true}

// Text normalises s with the default rules.
func Text(s string) string {
	return Default.Apply(s)
}

// Apply returns the canonical form of s. The result never ends with a
// linefeed added by Apply itself, and Apply(Apply(s)) == Apply(s).
func (r Rules) Apply(s string) string {
	if r.LineEndings {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}

	lines := strings.Split(s, "\n")
	if r.TrailingSpace {
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
	}
	if r.TrailingBlankLines {
		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
	}
	return strings.Join(lines, "\n")
}

// Equal reports whether a and b are equal after normalization.
func (r Rules) Equal(a, b string) bool {
	return r.Apply(a) == r.Apply(b)
}

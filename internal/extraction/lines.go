package extraction

import (
	"regexp"
	"strings"
)

var (
	reLineBreak  = regexp.MustCompile(`\r\n|\r|\n`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// SplitLines splits text on any CR/LF sequence, trims every piece and drops
// the empty ones. Relative order is preserved.
func SplitLines(text string) []string {
	parts := reLineBreak.Split(text, -1)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}

// Normalize collapses noisy whitespace in OCR output while keeping line
// breaks. Runs of blank lines are reduced to a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reLineBreak.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

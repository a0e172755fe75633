package extraction

import (
	"regexp"
	"strings"
)

var (
	reTotalLabel = regexp.MustCompile(`grand total|total|amount due`)
	// reLooseMoney is the last-resort pattern over the whole text.
	reLooseMoney = regexp.MustCompile(`(?i)(?:\$|USD|\b)\s*(\d[\d,]*(?:\.\d{1,2})?)`)
)

// totalRule is one phase of the total search. Rules run in order and the
// first one that yields a value wins.
type totalRule struct {
	name string
	find func(text string, lines []string) (string, bool)
}

var totalRules = []totalRule{
	{name: "labelled", find: labelledTotal},
	{name: "last-amount", find: lastAmount},
}

// ExtractTotal returns the receipt total as a decimal string. A line labelled
// as a total wins over any positional guess, and the labelled line closest to
// the end of the document wins since subtotals are printed first.
func ExtractTotal(text string) (string, bool) {
	lines := SplitLines(text)
	for _, r := range totalRules {
		if v, ok := r.find(text, lines); ok {
			return v, true
		}
	}
	return "", false
}

func labelledTotal(_ string, lines []string) (string, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		if !reTotalLabel.MatchString(strings.ToLower(lines[i])) {
			continue
		}
		if v, ok := FindFirstCurrency(lines[i]); ok {
			return v, true
		}
	}
	return "", false
}

func lastAmount(text string, _ []string) (string, bool) {
	all := reLooseMoney.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return "", false
	}
	return strings.ReplaceAll(all[len(all)-1][1], ",", ""), true
}

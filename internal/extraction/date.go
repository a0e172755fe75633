package extraction

import "regexp"

const monthNames = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*`

// dateRule is tried against the whole text; rules are evaluated in priority
// order, not by position of the match in the text.
type dateRule struct {
	name string
	re   *regexp.Regexp
}

var dateRules = []dateRule{
	{name: "iso", re: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},
	{name: "slash", re: regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)},
	{name: "dotted", re: regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)},
	{name: "day-month", re: regexp.MustCompile(`(?i)\b\d{1,2}\s+` + monthNames + `\b`)},
	{name: "month-day-year", re: regexp.MustCompile(`(?i)\b` + monthNames + `\s+\d{1,2},\s*\d{4}\b`)},
}

// ExtractDate returns the first date found by the highest-priority rule that
// matches anywhere in text. The match is returned verbatim; no calendar
// validation is done.
func ExtractDate(text string) (string, bool) {
	for _, r := range dateRules {
		if m := r.re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

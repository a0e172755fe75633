package extraction

import (
	"regexp"
	"unicode/utf8"
)

const merchantScanLines = 5

var reHeaderWords = regexp.MustCompile(`(?i)receipt|invoice|tax|total`)

// ExtractMerchant returns the merchant name, which is conventionally the first
// printed text on a receipt. Among the first five lines it picks the first one
// that is not a section header and has a plausible length. When none
// qualifies the first line is returned anyway; ok is false only for an empty
// sequence.
func ExtractMerchant(lines []string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	for _, l := range lines[:min(merchantScanLines, len(lines))] {
		n := utf8.RuneCountInString(l)
		if !reHeaderWords.MatchString(l) && n > 2 && n < 40 {
			return l, true
		}
	}
	return lines[0], true
}

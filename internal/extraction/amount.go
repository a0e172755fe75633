package extraction

import (
	"regexp"
	"strings"
)

// reCurrencyNumber matches an optional currency symbol and a number. The
// integer part is either 1-3 digits followed by groups of exactly three
// digits separated by ',', '.' or a space, or a plain run of digits. A
// trailing ',' or '.' with one or two digits is the fractional part.
//
// With that rule "1.234" reads as one thousand two hundred thirty-four and
// "12,50" reads as twelve and a half.
var reCurrencyNumber = regexp.MustCompile(`[$€£]?(\d{1,3}(?:[,. ]\d{3})+|\d+)(?:[.,](\d{1,2}))?`)

// FindFirstCurrency returns the first currency-shaped number in line as a
// decimal string with grouping removed and a '.' decimal separator.
func FindFirstCurrency(line string) (string, bool) {
	m := reCurrencyNumber.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return joinAmount(m[1], m[2]), true
}

func joinAmount(integer, fraction string) string {
	integer = stripGrouping(integer)
	if fraction == "" {
		return integer
	}
	return integer + "." + fraction
}

func stripGrouping(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ' ':
			return -1
		}
		return r
	}, s)
}

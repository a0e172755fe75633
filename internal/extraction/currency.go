package extraction

import (
	"regexp"
	"strings"
)

// DefaultCurrency is applied by Extract when the text names no currency.
const DefaultCurrency = "USD"

var reCurrencyCode = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|INR|AUD|CAD)\b`)

// ExtractCurrency returns the first supported ISO currency code in text,
// uppercased. It never defaults.
func ExtractCurrency(text string) (string, bool) {
	m := reCurrencyCode.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

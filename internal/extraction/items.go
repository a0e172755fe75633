package extraction

import (
	"regexp"
	"strings"
)

var reLineItem = regexp.MustCompile(`^(.+)\s+[€£$]\s?(\d+)(?:[.,](\d{1,2}))?$`)

// LineItem is one purchased entry printed on a receipt.
type LineItem struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// ExtractLineItems returns every line that ends in a symbol-prefixed amount,
// in source order. Other lines are skipped. Duplicates are kept.
func ExtractLineItems(text string) []LineItem {
	items := make([]LineItem, 0)
	for _, line := range SplitLines(text) {
		m := reLineItem.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, LineItem{
			Description: strings.TrimSpace(m[1]),
			Amount:      joinAmount(m[2], m[3]),
		})
	}
	return items
}

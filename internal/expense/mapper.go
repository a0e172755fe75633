package expense

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

const (
	// DefaultCategory is assigned to every draft; extraction does not
	// categorize.
	DefaultCategory = "misc"

	titlePrefix = "Receipt"
)

// Candidate is the draft expense derived from one extraction. Amount and date
// are tagged so the caller chooses how to fill a missing value.
type Candidate struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	AmountOriginal   Field[decimal.Decimal] `json:"amountOriginal"`
	CurrencyOriginal string                 `json:"currencyOriginal"`
	DateOfExpense    Field[time.Time]       `json:"dateOfExpense"`
	Category         string                 `json:"category"`
	Merchant         *string                `json:"merchant"`
	Items            []extraction.LineItem  `json:"items"`
}

// ToCandidate maps an extraction, valid or not, onto a draft expense. The
// raw OCR text becomes the description so the draft keeps an audit trail.
func ToCandidate(x extraction.ReceiptExtraction) Candidate {
	title := titlePrefix
	if x.Merchant != nil {
		title = titlePrefix + " - " + *x.Merchant
	}
	currency := x.Currency
	if currency == "" {
		currency = extraction.DefaultCurrency
	}
	items := x.Items
	if items == nil {
		items = []extraction.LineItem{}
	}

	return Candidate{
		Title:            title,
		Description:      x.RawText,
		AmountOriginal:   parseAmount(x.Total),
		CurrencyOriginal: currency,
		DateOfExpense:    parseDate(x.Date),
		Category:         DefaultCategory,
		Merchant:         x.Merchant,
		Items:            items,
	}
}

func parseAmount(total *string) Field[decimal.Decimal] {
	if total == nil {
		return Missing[decimal.Decimal]()
	}
	d, err := decimal.NewFromString(*total)
	if err != nil {
		return Missing[decimal.Decimal]()
	}
	return Found(d)
}

// dateLayouts are tried in order. Day-first slash dates win over month-first
// ones because the extractor labels that shape DD/MM/YYYY.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02.01.2006",
	"2 Jan 2006",
	"2 January 2006",
	"2 Jan, 2006",
	"2 January, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var (
	reCommaSpace = regexp.MustCompile(`\s*,\s*`)
	reSept       = regexp.MustCompile(`(?i)\bsept\b`)
)

func parseDate(raw *string) Field[time.Time] {
	if raw == nil {
		return Missing[time.Time]()
	}
	s := strings.Join(strings.Fields(*raw), " ")
	s = reCommaSpace.ReplaceAllString(s, ", ")
	s = reSept.ReplaceAllString(s, "Sep")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Found(t)
		}
	}
	return Missing[time.Time]()
}

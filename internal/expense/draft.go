package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

// Draft is a candidate with every value filled in, ready to persist.
type Draft struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	AmountOriginal   decimal.Decimal       `json:"amountOriginal"`
	CurrencyOriginal string                `json:"currencyOriginal"`
	DateOfExpense    time.Time             `json:"dateOfExpense"`
	Category         string                `json:"category"`
	Merchant         *string               `json:"merchant"`
	Items            []extraction.LineItem `json:"items"`
	// AmountMissing and DateMissing record which values were defaulted.
	AmountMissing bool `json:"amountMissing"`
	DateMissing   bool `json:"dateMissing"`
}

// Resolve applies the draft policy to a candidate: a missing amount becomes
// zero and a missing date becomes now.
func Resolve(c Candidate, now time.Time) Draft {
	return Draft{
		Title:            c.Title,
		Description:      c.Description,
		AmountOriginal:   c.AmountOriginal.Or(decimal.Zero),
		CurrencyOriginal: c.CurrencyOriginal,
		DateOfExpense:    c.DateOfExpense.Or(now),
		Category:         c.Category,
		Merchant:         c.Merchant,
		Items:            c.Items,
		AmountMissing:    !c.AmountOriginal.IsFound(),
		DateMissing:      !c.DateOfExpense.IsFound(),
	}
}

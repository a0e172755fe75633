package receipt

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

// StatusDraft marks an expense seeded from a receipt that nobody has
// reviewed yet.
const StatusDraft = "DRAFT"

// Expense is a draft expense created from a scanned receipt
type Expense struct {
	ID               string                `json:"id"`
	CompanyID        string                `json:"companyId"`
	CreatedByID      string                `json:"createdById"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	AmountOriginal   decimal.Decimal       `json:"amountOriginal"`
	AmountMissing    bool                  `json:"amountMissing"` // amount defaulted to zero
	CurrencyOriginal string                `json:"currencyOriginal"`
	DateOfExpense    time.Time             `json:"dateOfExpense"`
	DateMissing      bool                  `json:"dateMissing"` // date defaulted to creation time
	Category         string                `json:"category"`
	Merchant         *string               `json:"merchant"`
	Items            []extraction.LineItem `json:"items"`
	Status           string                `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// Receipt is the uploaded file behind an expense, with the extraction it
// produced stored as an opaque blob
type Receipt struct {
	ID          string                      `json:"id"`
	ExpenseID   string                      `json:"expenseId"`
	Filename    string                      `json:"filename"`
	ContentType string                      `json:"contentType"`
	URL         *string                     `json:"url"` // always null; files are served from /api/receipts/{id}/file
	OCRExtract  json.RawMessage             `json:"ocrExtract"`
	Validation  extraction.ValidationResult `json:"validation"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

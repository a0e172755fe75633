package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-scanner/internal/expense"
	"github.com/zombor/receipt-scanner/internal/extraction"
	"github.com/zombor/receipt-scanner/internal/scanning"
)

var (
	// ErrScanFailed wraps an OCR provider failure.
	ErrScanFailed = errors.New("scanning receipt")
	// ErrInvalidExtraction is returned in strict mode when the extraction
	// misses a required field.
	ErrInvalidExtraction = errors.New("receipt extraction is incomplete")
)

// IDGenerator generates unique IDs for records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Options tunes how the service treats extractions
type Options struct {
	// Strict rejects receipts whose extraction fails validation instead of
	// saving an incomplete draft.
	Strict bool
}

// Service turns uploaded receipts into draft expenses
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	opts        Options
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUIDs and the wall clock
func NewService(db DB, scanner scanning.Scanner, storage Storage, opts Options) *Service {
	return NewServiceWithDeps(db, scanner, storage, opts, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, opts Options, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		opts:        opts,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Upload is one receipt file received from a client
type Upload struct {
	Filename    string
	Data        []byte
	ContentType string
	CompanyID   string
	CreatedByID string
}

// Result is what processing a receipt produced
type Result struct {
	Expense    *Expense                     `json:"expense"`
	Receipt    *Receipt                     `json:"receipt"`
	Extraction extraction.ReceiptExtraction `json:"ocr"`
	Validation extraction.ValidationResult  `json:"validation"`
}

// TextResult is the outcome of running the extraction on plain text
type TextResult struct {
	Extraction extraction.ReceiptExtraction `json:"ocr"`
	Validation extraction.ValidationResult  `json:"validation"`
	Candidate  expense.Candidate            `json:"expense"`
}

var (
	reFilenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	reFilenameSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if reFilenameUnsafe.MatchString(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = reFilenameUnsafe.ReplaceAllString(base, "")
	base = strings.TrimSpace(reFilenameSpaces.ReplaceAllString(base, " "))

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ProcessReceipt stores the upload, recognizes its text, extracts the
// receipt fields and saves a draft expense with its receipt record. OCR
// failures are returned without retrying. Incomplete extractions are saved
// as drafts unless the service is strict.
func (s *Service) ProcessReceipt(ctx context.Context, up Upload) (*Result, error) {
	now := s.timeSource.Now()
	receiptID := s.idGenerator.Generate()
	expenseID := s.idGenerator.Generate()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", receiptID, sanitizeFilename(up.Filename)), up.Data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	doc, err := s.scanner.Recognize(ctx, up.Data, up.ContentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", up.Filename,
			"content_type", up.ContentType,
			"file_size", len(up.Data),
			"error", err,
		)
		s.discard(savedPath)
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}
	if doc == nil {
		s.discard(savedPath)
		return nil, fmt.Errorf("%w: scanner returned no document", ErrScanFailed)
	}

	x := extraction.Extract(*doc)
	validation := extraction.Validate(x)
	if !validation.IsValid {
		if s.opts.Strict {
			s.discard(savedPath)
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtraction, strings.Join(validation.Errors, ", "))
		}
		slog.Warn("Saving incomplete receipt extraction", "receipt_id", receiptID, "errors", validation.Errors)
	}

	blob, err := json.Marshal(x)
	if err != nil {
		s.discard(savedPath)
		return nil, fmt.Errorf("encoding extraction: %w", err)
	}

	draft := expense.Resolve(expense.ToCandidate(x), now)
	exp := &Expense{
		ID:               expenseID,
		CompanyID:        up.CompanyID,
		CreatedByID:      up.CreatedByID,
		Title:            draft.Title,
		Description:      draft.Description,
		AmountOriginal:   draft.AmountOriginal,
		AmountMissing:    draft.AmountMissing,
		CurrencyOriginal: draft.CurrencyOriginal,
		DateOfExpense:    draft.DateOfExpense,
		DateMissing:      draft.DateMissing,
		Category:         draft.Category,
		Merchant:         draft.Merchant,
		Items:            draft.Items,
		Status:           StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	rec := &Receipt{
		ID:          receiptID,
		ExpenseID:   expenseID,
		Filename:    savedPath,
		ContentType: up.ContentType,
		OCRExtract:  blob,
		Validation:  validation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveDraft(exp, rec); err != nil {
		s.discard(savedPath)
		return nil, fmt.Errorf("saving draft: %w", err)
	}

	slog.Info("Receipt processed",
		"receipt_id", receiptID,
		"expense_id", expenseID,
		"valid", validation.IsValid,
		"amount_missing", draft.AmountMissing,
		"date_missing", draft.DateMissing,
	)

	return &Result{
		Expense:    exp,
		Receipt:    rec,
		Extraction: x,
		Validation: validation,
	}, nil
}

func (s *Service) discard(path string) {
	if err := s.storage.Delete(path); err != nil {
		slog.Warn("Failed to delete file", "filename", path, "error", err)
	}
}

// ExtractText runs the extraction on already recognized text. Nothing is
// stored and the candidate keeps missing values unresolved.
func (s *Service) ExtractText(text string) TextResult {
	x := extraction.Extract(extraction.Document{Text: text})
	return TextResult{
		Extraction: x,
		Validation: extraction.Validate(x),
		Candidate:  expense.ToCandidate(x),
	}
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	exp, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return exp, nil
}

// ListExpenses returns all expenses
func (s *Service) ListExpenses() ([]*Expense, error) {
	expenses, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense, its receipts and their files
func (s *Service) DeleteExpense(id string) error {
	receipts, err := s.db.ListReceiptsForExpense(id)
	if err != nil {
		return fmt.Errorf("listing receipts for expense: %w", err)
	}
	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	for _, r := range receipts {
		s.discard(r.Filename)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return rec, nil
}

// ListReceipts returns all receipts
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// GetReceiptFile retrieves the file data for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	rec, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(rec.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, rec.ContentType, nil
}

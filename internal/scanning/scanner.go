package scanning

import (
	"context"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

// Scanner recognizes the text on a receipt image or PDF.
type Scanner interface {
	// Recognize returns the recognized text and any layout metadata the
	// provider reports. A provider failure is returned as-is; callers do
	// not retry.
	Recognize(ctx context.Context, imageData []byte, contentType string) (*extraction.Document, error)
	// Close closes the scanner and releases resources
	Close() error
}

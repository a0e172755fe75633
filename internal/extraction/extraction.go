package extraction

// ReceiptExtraction is the structured result recovered from one receipt.
// Nil fields mean the value was not found. Currency is always a three letter
// code.
type ReceiptExtraction struct {
	Merchant   *string    `json:"merchant"`
	Date       *string    `json:"date"`
	Total      *string    `json:"total"`
	Currency   string     `json:"currency"`
	Items      []LineItem `json:"items"`
	RawText    string     `json:"rawText"`
	Confidence *float64   `json:"confidence"`
}

// Extract runs every field extractor over the document text and combines the
// results. It is a pure function of doc.
func Extract(doc Document) ReceiptExtraction {
	text := doc.Text
	lines := SplitLines(text)

	currency, ok := ExtractCurrency(text)
	if !ok {
		currency = DefaultCurrency
	}

	return ReceiptExtraction{
		Merchant:   optional(ExtractMerchant(lines)),
		Date:       optional(ExtractDate(text)),
		Total:      optional(ExtractTotal(text)),
		Currency:   currency,
		Items:      ExtractLineItems(text),
		RawText:    text,
		Confidence: ComputeConfidence(doc),
	}
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

package extraction

// Document is the text recognized from one receipt image together with the
// layout the OCR provider reported. Providers that only return text leave
// Pages empty.
type Document struct {
	Text  string `json:"text"`
	Pages []Page `json:"pages,omitempty"`
}

// Page is a single recognized page.
type Page struct {
	Blocks []Block `json:"blocks,omitempty"`
}

// Block groups paragraphs that the provider laid out together.
type Block struct {
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
}

// Paragraph carries the provider's recognition confidence in [0,1] when one
// was reported.
type Paragraph struct {
	Confidence *float64 `json:"confidence,omitempty"`
}

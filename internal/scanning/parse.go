package scanning

import (
	"strings"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

// transcriptionPrompt is shared by the language model backends. They are
// used as plain OCR engines; field extraction happens locally.
const transcriptionPrompt = `You are an OCR engine. Transcribe every piece of text printed on this receipt or invoice exactly as it appears.

Rules:
- Keep the original reading order, top to bottom.
- Put each printed line on its own line, keeping amounts on the same line as their label.
- Copy numbers, currency symbols, dates and punctuation exactly; do not reformat or correct them.
- Do not summarize, translate, explain or add anything that is not printed.
- Do not use markdown or code blocks.
- If there is no readable text, return an empty response.`

// documentFromTranscript turns a model's plain text answer into a document.
// Models sometimes wrap the answer in a code block anyway.
func documentFromTranscript(text string) *extraction.Document {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```text")
		text = strings.TrimPrefix(text, "```plaintext")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return &extraction.Document{Text: extraction.Normalize(text)}
}

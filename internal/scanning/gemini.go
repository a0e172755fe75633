package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini implements the Scanner interface by asking a Gemini model to
// transcribe the receipt. It reports no layout, so extractions made from its
// output carry no confidence.
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGemini creates a new Gemini Scanner instance
func NewGemini(apiKey string, modelName string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	if timeout <= 0 {
		timeout = defaultScanTimeout
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Transcription should be as literal as the model allows.
	model.SetTemperature(0)

	return &Gemini{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Recognize transcribes the receipt text.
func (g *Gemini) Recognize(ctx context.Context, imageData []byte, contentType string) (*extraction.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	finalImageData, _, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return nil, err
	}

	// genai.ImageData takes the format suffix, not the MIME type; everything
	// is PNG after prepareImageData.
	parts := []genai.Part{
		genai.ImageData("png", finalImageData),
		genai.Text(transcriptionPrompt),
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	slog.Debug("gemini transcription done", "duration_ms", time.Since(start).Milliseconds())

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return documentFromTranscript(text.String()), nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}

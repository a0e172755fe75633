package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llava"
	// Local vision models are slow; the client timeout only caps a hung
	// connection, the request context carries the scan timeout.
	ollamaClientTimeout = 5 * time.Minute
)

// Ollama implements the Scanner interface with a local vision model served
// by Ollama. Like Gemini it only returns text.
type Ollama struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewOllama creates a new Ollama Scanner instance. Models with decent OCR,
// such as llava:1.6 or qwen2-vl, work best.
func NewOllama(baseURL string, modelName string, timeout time.Duration) (*Ollama, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if modelName == "" {
		modelName = defaultOllamaModel
	}
	if timeout <= 0 {
		timeout = 4 * defaultScanTimeout
	}

	return &Ollama{
		baseURL: baseURL,
		model:   modelName,
		timeout: timeout,
		client:  &http.Client{Timeout: ollamaClientTimeout},
	}, nil
}

// ollamaChatRequest represents the request body for Ollama's chat API
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// ollamaChatResponse represents the response from Ollama's chat API
type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Recognize transcribes the receipt text.
func (o *Ollama) Recognize(ctx context.Context, imageData []byte, contentType string) (*extraction.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	finalImageData, _, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return nil, err
	}

	reqBody := ollamaChatRequest{
		Model:  o.model,
		Stream: false,
		Messages: []ollamaMessage{
			{
				Role:    "user",
				Content: transcriptionPrompt,
				Images:  []string{base64.StdEncoding.EncodeToString(finalImageData)},
			},
		},
		Options: map[string]any{"temperature": 0},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	slog.Debug("ollama transcription done", "model", o.model, "duration_ms", time.Since(start).Milliseconds())

	return documentFromTranscript(chatResp.Message.Content), nil
}

// Close is a no-op for the HTTP client
func (o *Ollama) Close() error {
	return nil
}

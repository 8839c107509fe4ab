package gsc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultGeminiBaseURL is the Generative Language API endpoint.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultGeminiModel is the model used for query translation.
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Decoding parameters for query translation. Low randomness and a bounded
// output ceiling: the model is emitting a small JSON object, not prose.
const (
	generationTemperature = 0.1
	generationTopK        = 40
	generationTopP        = 0.95
	generationMaxTokens   = 2048
)

// Synthesizer translates natural language into a search analytics query by
// way of a Gemini generateContent call. Safe for concurrent use.
type Synthesizer struct {
	client      *http.Client
	baseURL     string
	model       string
	apiKey      string
	propertyURL string
	logger      *slog.Logger
	now         func() time.Time
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSynthesizerHTTPClient sets the HTTP client used for model calls.
func WithSynthesizerHTTPClient(c *http.Client) SynthesizerOption {
	return func(s *Synthesizer) { s.client = c }
}

// WithSynthesizerBaseURL overrides the Generative Language API endpoint.
func WithSynthesizerBaseURL(url string) SynthesizerOption {
	return func(s *Synthesizer) { s.baseURL = strings.TrimRight(url, "/") }
}

// WithSynthesizerModel sets the model name.
func WithSynthesizerModel(model string) SynthesizerOption {
	return func(s *Synthesizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithSynthesizerLogger sets the logger.
func WithSynthesizerLogger(logger *slog.Logger) SynthesizerOption {
	return func(s *Synthesizer) { s.logger = logger }
}

// WithSynthesizerClock overrides the time source. Tests use this to pin the
// "current time" the prompt and date defaults are computed from.
func WithSynthesizerClock(now func() time.Time) SynthesizerOption {
	return func(s *Synthesizer) { s.now = now }
}

// NewSynthesizer creates a Synthesizer for the given property.
func NewSynthesizer(apiKey, propertyURL string, opts ...SynthesizerOption) (*Synthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	s := &Synthesizer{
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     DefaultGeminiBaseURL,
		model:       DefaultGeminiModel,
		apiKey:      apiKey,
		propertyURL: strings.TrimRight(propertyURL, "/"),
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Gemini wire format.

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Synthesize translates a natural-language request into a normalized Query.
// The model's raw output is stripped of formatting fences, parsed, and then
// run through Query.Normalize so the hard postconditions hold regardless of
// how well the model followed its instructions.
func (s *Synthesizer) Synthesize(ctx context.Context, naturalQuery string) (*Query, error) {
	now := s.now()

	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: BuildSystemPrompt(now, s.propertyURL)}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: naturalQuery}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     generationTemperature,
			TopK:            generationTopK,
			TopP:            generationTopP,
			MaxOutputTokens: generationMaxTokens,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{API: "gemini", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{API: "gemini", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			API:        "gemini",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &UpstreamError{API: "gemini", Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &TranslationError{Err: fmt.Errorf("model returned no candidates")}
	}

	raw := parsed.Candidates[0].Content.Parts[0].Text
	cleaned := stripFences(raw)

	s.logger.Debug("synthesized api query",
		slog.String("model", s.model),
		slog.Int("raw_len", len(raw)),
	)

	var q Query
	if err := json.Unmarshal([]byte(cleaned), &q); err != nil {
		return nil, &TranslationError{Output: raw, Err: err}
	}
	if err := q.Normalize(now, s.propertyURL); err != nil {
		return nil, &TranslationError{Output: raw, Err: err}
	}
	return &q, nil
}

// stripFences removes markdown code-fence markers the model sometimes wraps
// its output in despite being told not to.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel = "gemini-2.0-flash"
)

// GeminiBackend implements LLMBackend using the Gemini generateContent API.
type GeminiBackend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// GeminiOption configures the GeminiBackend.
type GeminiOption func(*GeminiBackend)

// WithGeminiEndpoint overrides the API base URL.
func WithGeminiEndpoint(u string) GeminiOption {
	return func(b *GeminiBackend) {
		b.endpoint = strings.TrimRight(u, "/")
	}
}

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(b *GeminiBackend) {
		b.model = model
	}
}

// WithGeminiAPIKey overrides the API key (instead of reading from env).
func WithGeminiAPIKey(key string) GeminiOption {
	return func(b *GeminiBackend) {
		b.apiKey = key
	}
}

// WithGeminiHTTPClient overrides the default HTTP client.
func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(b *GeminiBackend) {
		b.client = c
	}
}

// NewGeminiBackend creates a Gemini backend. The API key is read from
// GOOGLE_API_KEY if not provided via options.
func NewGeminiBackend(opts ...GeminiOption) *GeminiBackend {
	b := &GeminiBackend{
		apiKey:   os.Getenv("GOOGLE_API_KEY"),
		model:    defaultGeminiModel,
		endpoint: defaultGeminiURL,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*GeminiBackend) Name() string {
	return "gemini"
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata geminiUsage       `json:"usageMetadata"`
	ModelVersion  string            `json:"modelVersion"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate calls models/{model}:generateContent.
func (b *GeminiBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if b.apiKey == "" {
		return GenerateResponse{}, errors.New("GOOGLE_API_KEY is not set")
	}

	gemReq := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.SystemMsg != "" {
		gemReq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemMsg}}}
	}

	cfg := &geminiGenerationConfig{MaxOutputTokens: req.MaxTokens}
	if req.Temperature > 0 {
		cfg.Temperature = &req.Temperature
	}
	if req.Format == FormatJSON {
		cfg.ResponseMimeType = "application/json"
	}
	gemReq.GenerationConfig = cfg

	u := fmt.Sprintf("%s/models/%s:generateContent", b.endpoint, url.PathEscape(b.model))

	respBody, status, err := postJSON(ctx, b.client, u, map[string]string{
		"x-goog-api-key": b.apiKey,
	}, gemReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling gemini API: %w", err)
	}

	if !isSuccess(status) {
		var apiErr geminiError
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil &&
			apiErr.Error.Message != "" {
			return GenerateResponse{}, fmt.Errorf(
				"gemini API error (status %d): %s: %s",
				status,
				apiErr.Error.Status,
				apiErr.Error.Message,
			)
		}
		return GenerateResponse{}, fmt.Errorf(
			"gemini API error (status %d): %s",
			status,
			string(respBody),
		)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing gemini response: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return GenerateResponse{}, errors.New("empty response from gemini")
	}

	var text strings.Builder
	for _, p := range gemResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	model := gemResp.ModelVersion
	if model == "" {
		model = b.model
	}

	return GenerateResponse{
		Content: text.String(),
		Model:   model,
		Usage: TokenUsage{
			PromptTokens:     gemResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: gemResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gemResp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

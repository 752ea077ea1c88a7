package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	defaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel   = "claude-haiku-4-20250514"
	defaultAnthropicVersion = "2023-06-01"
)

// AnthropicBackend implements LLMBackend using the Anthropic Messages API.
type AnthropicBackend struct {
	apiKey     string
	model      string
	endpoint   string
	apiVersion string
	client     *http.Client
}

// AnthropicOption configures the AnthropicBackend.
type AnthropicOption func(*AnthropicBackend)

// WithAnthropicEndpoint overrides the default API endpoint.
func WithAnthropicEndpoint(url string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.endpoint = url
	}
}

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.model = model
	}
}

// WithAnthropicAPIKey overrides the API key (instead of reading from env).
func WithAnthropicAPIKey(key string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.apiKey = key
	}
}

// WithAnthropicHTTPClient overrides the default HTTP client.
func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.client = c
	}
}

// NewAnthropicBackend creates a new Anthropic Claude API backend.
// The API key is read from the ANTHROPIC_API_KEY environment variable
// if not provided via options.
func NewAnthropicBackend(opts ...AnthropicOption) *AnthropicBackend {
	b := &AnthropicBackend{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		model:      defaultAnthropicModel,
		endpoint:   defaultAnthropicURL,
		apiVersion: defaultAnthropicVersion,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*AnthropicBackend) Name() string {
	return "anthropic"
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Model   string             `json:"model"`
	Usage   anthropicUsage     `json:"usage"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate calls the Anthropic Messages API. The Messages API has no JSON
// mode, so FormatJSON is expressed as an instruction in the system prompt.
func (b *AnthropicBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if b.apiKey == "" {
		return GenerateResponse{}, errors.New("ANTHROPIC_API_KEY is not set")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	system := req.SystemMsg
	if req.Format == FormatJSON {
		system = joinNonEmpty(system, "Respond with a single JSON object and nothing else.")
	}

	anthropicReq := anthropicRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	if req.Temperature > 0 {
		anthropicReq.Temperature = &req.Temperature
	}

	respBody, status, err := postJSON(ctx, b.client, b.endpoint, map[string]string{
		"x-api-key":         b.apiKey,
		"anthropic-version": b.apiVersion,
	}, anthropicReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling anthropic API: %w", err)
	}

	if !isSuccess(status) {
		var apiErr anthropicError
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil &&
			apiErr.Error.Message != "" {
			return GenerateResponse{}, fmt.Errorf(
				"anthropic API error (status %d): %s: %s",
				status,
				apiErr.Error.Type,
				apiErr.Error.Message,
			)
		}
		return GenerateResponse{}, fmt.Errorf(
			"anthropic API error (status %d): %s",
			status,
			string(respBody),
		)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing anthropic response: %w", err)
	}

	if len(apiResp.Content) == 0 {
		return GenerateResponse{}, errors.New("empty response from anthropic")
	}

	return GenerateResponse{
		Content: apiResp.Content[0].Text,
		Model:   apiResp.Model,
		Usage: TokenUsage{
			PromptTokens:     apiResp.Usage.InputTokens,
			CompletionTokens: apiResp.Usage.OutputTokens,
			TotalTokens:      apiResp.Usage.InputTokens + apiResp.Usage.OutputTokens,
		},
	}, nil
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n\n" + b
	}
}

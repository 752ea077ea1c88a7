package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest listing title eBay accepts.
const MaxTitleLength = 80

var (
	// ErrMalformedResponse is returned when the LLM output is not a JSON
	// object with a non-empty title and description.
	ErrMalformedResponse = errors.New("malformed copy response")

	// ErrIncompleteProduct is returned when title, manufacturer or summary
	// is blank.
	ErrIncompleteProduct = errors.New("title, manufacturer and summary are required")
)

// LLMCopywriter implements Copywriter using an LLM backend.
type LLMCopywriter struct {
	backend     LLMBackend
	temperature float64
	maxTokens   int
	systemMsg   string
	log         *slog.Logger
}

// LLMCopywriterOption configures the LLMCopywriter.
type LLMCopywriterOption func(*LLMCopywriter)

// WithTemperature sets the LLM temperature.
func WithTemperature(t float64) LLMCopywriterOption {
	return func(c *LLMCopywriter) {
		c.temperature = t
	}
}

// WithMaxTokens sets the max tokens for LLM responses.
func WithMaxTokens(n int) LLMCopywriterOption {
	return func(c *LLMCopywriter) {
		c.maxTokens = n
	}
}

// WithSystemMessage sets a system prompt sent with every request.
func WithSystemMessage(msg string) LLMCopywriterOption {
	return func(c *LLMCopywriter) {
		c.systemMsg = msg
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) LLMCopywriterOption {
	return func(c *LLMCopywriter) {
		c.log = l
	}
}

// NewLLMCopywriter creates a new LLMCopywriter.
func NewLLMCopywriter(backend LLMBackend, opts ...LLMCopywriterOption) *LLMCopywriter {
	c := &LLMCopywriter{
		backend:     backend,
		temperature: 0.7,
		maxTokens:   1024,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the name of the underlying LLM backend.
func (c *LLMCopywriter) Backend() string {
	return c.backend.Name()
}

// Compose generates a listing title and description for product.
func (c *LLMCopywriter) Compose(ctx context.Context, product ProductInfo) (Copy, error) {
	if strings.TrimSpace(product.Title) == "" ||
		strings.TrimSpace(product.Manufacturer) == "" ||
		strings.TrimSpace(product.Summary) == "" {
		return Copy{}, ErrIncompleteProduct
	}

	prompt, err := RenderListingPrompt(product)
	if err != nil {
		return Copy{}, fmt.Errorf("rendering listing prompt: %w", err)
	}

	resp, err := c.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   c.systemMsg,
		Format:      FormatJSON,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return Copy{}, fmt.Errorf("calling LLM for listing copy: %w", err)
	}

	out, full, err := parseCopy(resp.Content)
	if err != nil {
		return Copy{}, err
	}
	if out.Title != full {
		c.log.Debug("generated title truncated",
			"backend", c.backend.Name(),
			"length", utf8.RuneCountInString(full),
			"max", MaxTitleLength,
			"title", out.Title,
		)
	}
	return out, nil
}

// ParseCopy decodes LLM output into Copy. Markdown code fences and text
// around the JSON object are tolerated. Titles longer than MaxTitleLength
// runes are cut back to the last space, or hard cut at MaxTitleLength when
// that space would drop more than half the title.
func ParseCopy(raw string) (Copy, error) {
	out, _, err := parseCopy(raw)
	return out, err
}

// parseCopy is ParseCopy that also returns the title before truncation.
func parseCopy(raw string) (Copy, string, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return Copy{}, "", fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var out Copy
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return Copy{}, "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out.Title = strings.TrimSpace(out.Title)
	out.Description = strings.TrimSpace(out.Description)
	if out.Title == "" || out.Description == "" {
		return Copy{}, "", fmt.Errorf("%w: title and description must be non-empty", ErrMalformedResponse)
	}

	full := out.Title
	out.Title = truncateTitle(out.Title)
	return out, full, nil
}

func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= MaxTitleLength {
		return title
	}
	cut := string(runes[:MaxTitleLength])
	if i := strings.LastIndex(cut, " "); i > MaxTitleLength/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

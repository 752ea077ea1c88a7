// Package copywriter generates marketing copy for eBay listings through
// pluggable LLM backends, abstracted behind interfaces for testability.
package copywriter

import (
	"context"
)

// FormatJSON is the format string for requesting JSON mode from LLM backends.
const FormatJSON = "json"

// GenerateRequest defines the input for an LLM generation call.
type GenerateRequest struct {
	Prompt      string
	SystemMsg   string
	Format      string // FormatJSON for JSON mode
	Temperature float64
	MaxTokens   int
}

// TokenUsage tracks LLM token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// LLMBackend defines the interface for LLM text generation.
type LLMBackend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// ProductInfo is the seller's description of the item being listed.
type ProductInfo struct {
	Title        string
	Manufacturer string
	Summary      string
}

// Copy is generated listing text.
type Copy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Copywriter turns product information into listing copy.
type Copywriter interface {
	Compose(ctx context.Context, product ProductInfo) (Copy, error)
	Backend() string
}

package copywriter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-listing-creator/pkg/copywriter"
)

func TestAnthropicBackend_Name(t *testing.T) {
	t.Parallel()
	b := copywriter.NewAnthropicBackend()
	assert.Equal(t, "anthropic", b.Name())
}

func TestAnthropicBackend_Generate(t *testing.T) {
	t.Parallel()

	successResponse := `{
		"content": [{"type": "text", "text": "{\"title\":\"t\",\"description\":\"d\"}"}],
		"model": "claude-haiku-4-20250514",
		"usage": {"input_tokens": 10, "output_tokens": 20}
	}`

	tests := []struct {
		name       string
		apiKey     string
		handler    http.HandlerFunc
		req        copywriter.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantUsage  int
	}{
		{
			name:   "successful generation",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Contains(t, body["system"], "JSON object")

				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: copywriter.GenerateRequest{
				Prompt:      "write copy",
				Format:      copywriter.FormatJSON,
				Temperature: 0.7,
			},
			wantResp:  `{"title":"t","description":"d"}`,
			wantUsage: 30,
		},
		{
			name:       "missing API key",
			apiKey:     "",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			req:        copywriter.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "ANTHROPIC_API_KEY",
		},
		{
			name:   "rate limited 429",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{
					"error": {"type": "rate_limit_error", "message": "rate limit exceeded"}
				}`))
			},
			req:        copywriter.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "rate_limit_error",
		},
		{
			name:   "server error without JSON body",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`upstream down`))
			},
			req:        copywriter.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "status 502",
		},
		{
			name:   "invalid JSON response",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			req:        copywriter.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "parsing anthropic",
		},
		{
			name:   "empty content array",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"content":[],"model":"test","usage":{}}`))
			},
			req:        copywriter.GenerateRequest{Prompt: "test"},
			wantErr:    true,
			wantErrMsg: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			backend := copywriter.NewAnthropicBackend(
				copywriter.WithAnthropicEndpoint(srv.URL),
				copywriter.WithAnthropicHTTPClient(srv.Client()),
				copywriter.WithAnthropicAPIKey(tt.apiKey),
			)

			resp, err := backend.Generate(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, tt.wantUsage, resp.Usage.TotalTokens)
		})
	}
}

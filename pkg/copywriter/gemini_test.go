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

func TestGeminiBackend_Name(t *testing.T) {
	t.Parallel()
	b := copywriter.NewGeminiBackend()
	assert.Equal(t, "gemini", b.Name())
}

func TestGeminiBackend_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		apiKey     string
		handler    http.HandlerFunc
		req        copywriter.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantModel  string
	}{
		{
			name:   "successful generation",
			apiKey: "g-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
				assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))

				var body struct {
					Contents []struct {
						Parts []struct {
							Text string `json:"text"`
						} `json:"parts"`
					} `json:"contents"`
					GenerationConfig struct {
						ResponseMimeType string `json:"responseMimeType"`
					} `json:"generationConfig"`
				}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "application/json", body.GenerationConfig.ResponseMimeType)
				assert.Equal(t, "write copy", body.Contents[0].Parts[0].Text)

				_, _ = w.Write([]byte(`{
					"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"title\":"}, {"text": "\"x\"}"}]}, "finishReason": "STOP"}],
					"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 8, "totalTokenCount": 20},
					"modelVersion": "gemini-test-001"
				}`))
			},
			req:       copywriter.GenerateRequest{Prompt: "write copy", Format: copywriter.FormatJSON},
			wantResp:  `{"title":"x"}`,
			wantModel: "gemini-test-001",
		},
		{
			name:       "missing API key",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			req:        copywriter.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "GOOGLE_API_KEY",
		},
		{
			name:   "API error",
			apiKey: "g-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
			},
			req:        copywriter.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "INVALID_ARGUMENT: API key not valid",
		},
		{
			name:   "no candidates",
			apiKey: "g-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			req:        copywriter.GenerateRequest{Prompt: "x"},
			wantErr:    true,
			wantErrMsg: "empty response from gemini",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			backend := copywriter.NewGeminiBackend(
				copywriter.WithGeminiEndpoint(srv.URL),
				copywriter.WithGeminiModel("gemini-test"),
				copywriter.WithGeminiAPIKey(tt.apiKey),
				copywriter.WithGeminiHTTPClient(srv.Client()),
			)

			resp, err := backend.Generate(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, tt.wantModel, resp.Model)
			assert.Equal(t, 20, resp.Usage.TotalTokens)
		})
	}
}

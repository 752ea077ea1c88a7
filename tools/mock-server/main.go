// Package main implements a mock eBay API server for local development.
// It serves canned OAuth and Taxonomy responses from embedded JSON fixtures
// and fakes the consent page by redirecting straight to the callback
// listener, so the whole sign-in flow runs without real eBay credentials.
package main

import (
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

//go:embed fixtures/*.json
var fixtures embed.FS

const (
	mockCode         = "v^1.1#i^1#mock-code"
	mockRefreshToken = "mock-refresh-token"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	callback := flag.String("callback", "http://localhost:8000/callback", "where the fake consent page redirects")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler, err := newMux(logger, *callback)
	if err != nil {
		logger.Error("failed to load fixtures", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock eBay server", "addr", addr, "callback", *callback)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, callback string) (*http.ServeMux, error) {
	suggestions, err := fixtures.ReadFile("fixtures/category_suggestions.json")
	if err != nil {
		return nil, fmt.Errorf("reading suggestions fixture: %w", err)
	}
	aspects, err := fixtures.ReadFile("fixtures/item_aspects.json")
	if err != nil {
		return nil, fmt.Errorf("reading aspects fixture: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/v1/oauth2/token", tokenHandler(logger))
	mux.HandleFunc("GET /oauth2/authorize", authorizeHandler(logger, callback))
	mux.HandleFunc("GET /commerce/taxonomy/v1/get_default_category_tree_id", defaultTreeHandler)
	mux.HandleFunc("GET /commerce/taxonomy/v1/category_tree/{tree}/get_category_suggestions",
		bearerOnly(fixtureHandler(logger, "suggestions", suggestions)))
	mux.HandleFunc("GET /commerce/taxonomy/v1/category_tree/{tree}/get_item_aspects_for_category",
		bearerOnly(fixtureHandler(logger, "aspects", aspects)))
	return mux, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func oauthError(w http.ResponseWriter, status int, code, desc string) {
	writeJSON(w, status, map[string]string{"error": code, "error_description": desc})
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate Basic Auth header is present (don't verify creds).
		if _, _, ok := r.BasicAuth(); !ok {
			logger.Warn("token request missing Basic Auth header")
			oauthError(w, http.StatusUnauthorized, "invalid_client", "client authentication failed")
			return
		}
		if err := r.ParseForm(); err != nil {
			oauthError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		suffix := strconv.FormatInt(int64(os.Getpid()), 16)
		grant := r.PostForm.Get("grant_type")

		switch grant {
		case "client_credentials":
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "mock-app-token-" + suffix,
				"expires_in":   7200,
				"token_type":   "Application Access Token",
			})
		case "authorization_code":
			if r.PostForm.Get("code") != mockCode {
				oauthError(w, http.StatusBadRequest, "invalid_grant", "the provided authorization grant code is invalid")
				return
			}
			writeJSON(w, http.StatusOK, userToken(suffix))
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != mockRefreshToken {
				oauthError(w, http.StatusBadRequest, "invalid_grant", "the provided refresh token is invalid")
				return
			}
			tok := userToken(suffix)
			delete(tok, "refresh_token")
			delete(tok, "refresh_token_expires_in")
			writeJSON(w, http.StatusOK, tok)
		default:
			oauthError(w, http.StatusBadRequest, "unsupported_grant_type", "grant type "+grant+" is not supported")
			return
		}
		logger.Info("issued mock token", "grant", grant)
	}
}

func userToken(suffix string) map[string]any {
	return map[string]any{
		"access_token":             "mock-user-token-" + suffix,
		"expires_in":               7200,
		"refresh_token":            mockRefreshToken,
		"refresh_token_expires_in": 47304000,
		"token_type":               "User Access Token",
	}
}

// authorizeHandler stands in for the consent page: it approves at once
// and sends the browser to the callback with the fixed code.
func authorizeHandler(logger *slog.Logger, callback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := url.Parse(callback)
		if err != nil {
			http.Error(w, "bad callback url", http.StatusInternalServerError)
			return
		}
		q := target.Query()
		q.Set("code", mockCode)
		if state := r.URL.Query().Get("state"); state != "" {
			q.Set("state", state)
		}
		q.Set("expires_in", "299")
		target.RawQuery = q.Encode()

		logger.Info("approving consent", "client_id", r.URL.Query().Get("client_id"), "state", r.URL.Query().Get("state"))
		http.Redirect(w, r, target.String(), http.StatusFound)
	}
}

func bearerOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(r.Header.Get("Authorization")) <= len("Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []map[string]any{{"errorId": 1001, "message": "Invalid access token"}},
			})
			return
		}
		next(w, r)
	}
}

func defaultTreeHandler(w http.ResponseWriter, r *http.Request) {
	// Every marketplace maps to tree 0.
	if r.URL.Query().Get("marketplace_id") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []map[string]any{{"errorId": 62004, "message": "marketplace_id is required"}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"categoryTreeId":      "0",
		"categoryTreeVersion": "119",
	})
}

func fixtureHandler(logger *slog.Logger, name string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write(body)
		logger.Info("served fixture", "fixture", name, "tree", r.PathValue("tree"), "query", r.URL.RawQuery)
	}
}

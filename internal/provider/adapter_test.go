package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/personaworks/report-gateway/internal/config"
)

// chatServer fakes an OpenAI-compatible vendor returning content as the
// assistant message body.
func chatServer(t *testing.T, status int, content string, sawRequest func(r *http.Request, body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if sawRequest != nil {
			sawRequest(r, body)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"vendor error"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testAdapter(srv *httptest.Server, cfg config.ProviderConfig) Adapter {
	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "sk-test"
	}
	return New("testprov", cfg, srv.Client())
}

func TestGenerate_ParsesFragment(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"summary":{"text":"hello","keyword":"calm"}}`, nil)
	defer srv.Close()

	a := testAdapter(srv, config.ProviderConfig{Model: "test-model"})
	frag, err := a.Generate(context.Background(), &Request{SystemPrompt: "sys", UserPrompt: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := frag["summary"]; !ok {
		t.Error("expected summary module in fragment")
	}
}

func TestGenerate_MissingAPIKey_NoCall(t *testing.T) {
	called := false
	srv := chatServer(t, http.StatusOK, `{}`, func(*http.Request, map[string]any) { called = true })
	defer srv.Close()

	cfg := config.ProviderConfig{BaseURL: srv.URL, Model: "m"}
	a := New("testprov", cfg, srv.Client())
	_, err := a.Generate(context.Background(), &Request{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if called {
		t.Error("expected no HTTP call without an API key")
	}
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "Invalid API Key"},
		{http.StatusPaymentRequired, "Insufficient Balance"},
		{http.StatusInternalServerError, "API Error (500)"},
		{http.StatusTooManyRequests, "API Error (429)"},
	}
	for _, tt := range tests {
		srv := chatServer(t, tt.status, "", nil)
		a := testAdapter(srv, config.ProviderConfig{Model: "m"})
		_, err := a.Generate(context.Background(), &Request{})
		srv.Close()

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: expected StatusError, got %v", tt.status, err)
		}
		if err.Error() != tt.want {
			t.Errorf("status %d: message = %q, want %q", tt.status, err.Error(), tt.want)
		}
	}
}

func TestGenerate_NonJSONContent_ParseError(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "Sorry, here is your report: {...", nil)
	defer srv.Close()

	a := testAdapter(srv, config.ProviderConfig{Model: "m"})
	_, err := a.Generate(context.Background(), &Request{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestGenerate_ModelOverride(t *testing.T) {
	var gotModel string
	srv := chatServer(t, http.StatusOK, `{}`, func(_ *http.Request, body map[string]any) {
		gotModel, _ = body["model"].(string)
	})
	defer srv.Close()

	a := testAdapter(srv, config.ProviderConfig{Model: "default-model"})
	a.Generate(context.Background(), &Request{Model: "override-model"})
	if gotModel != "override-model" {
		t.Errorf("expected override-model, got %q", gotModel)
	}

	a.Generate(context.Background(), &Request{})
	if gotModel != "default-model" {
		t.Errorf("expected default-model without override, got %q", gotModel)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	var sawAuth, sawGroup string
	var sawFormat any
	srv := chatServer(t, http.StatusOK, `{}`, func(r *http.Request, body map[string]any) {
		sawAuth = r.Header.Get("Authorization")
		sawGroup = r.URL.Query().Get("GroupId")
		sawFormat = body["response_format"]
	})
	defer srv.Close()

	a := testAdapter(srv, config.ProviderConfig{
		Model: "m",
		Query: map[string]string{"GroupId": "grp-1"},
	})
	a.Generate(context.Background(), &Request{SystemPrompt: "s", UserPrompt: "u"})

	if sawAuth != "Bearer sk-test" {
		t.Errorf("expected Bearer auth, got %q", sawAuth)
	}
	if sawGroup != "grp-1" {
		t.Errorf("expected GroupId query param, got %q", sawGroup)
	}
	rf, _ := sawFormat.(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("expected response_format json_object, got %v", sawFormat)
	}
}

func TestBuildFromConfig(t *testing.T) {
	provCfg := &config.ProvidersConfig{Providers: map[string]config.ProviderConfig{
		"qwen":     {BaseURL: "http://qwen", Model: "qwen-plus"},
		"deepseek": {BaseURL: "http://ds", Model: "deepseek-chat"},
	}}
	adapters := BuildFromConfig(provCfg)
	if len(adapters) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(adapters))
	}
	if adapters["qwen"].Name() != "qwen" {
		t.Errorf("expected adapter named qwen, got %s", adapters["qwen"].Name())
	}
}

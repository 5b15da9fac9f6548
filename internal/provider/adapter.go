package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/personaworks/report-gateway/internal/config"
	"github.com/personaworks/report-gateway/internal/report"
)

// Request is one prompt pair bound for a vendor. The model override, when
// set, replaces the provider's configured default for this call only.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
}

// Adapter calls one LLM vendor and returns a partial report, or an error
// from the taxonomy in errors.go. Adapters know nothing about fallback:
// the chain coordinator owns that.
type Adapter interface {
	Name() string
	Generate(ctx context.Context, req *Request) (report.Fragment, error)
}

// httpAdapter is the one adapter implementation. The four vendors (Qwen,
// MiniMax, Moonshot, DeepSeek) all speak the OpenAI chat-completions wire
// format and differ only in endpoint, credentials, default model, and
// query parameters, so a provider is a config row rather than its own type.
type httpAdapter struct {
	name   string
	cfg    config.ProviderConfig
	client *http.Client
}

// New creates an adapter for one configured provider.
func New(name string, cfg config.ProviderConfig, client *http.Client) Adapter {
	return &httpAdapter{name: name, cfg: cfg, client: client}
}

// BuildFromConfig creates one adapter per configured provider, each with
// its own HTTP client.
func BuildFromConfig(provCfg *config.ProvidersConfig) map[string]Adapter {
	adapters := make(map[string]Adapter, len(provCfg.Providers))
	for name, cfg := range provCfg.Providers {
		client := &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		}
		adapters[name] = New(name, cfg, client)
	}
	return adapters
}

func (a *httpAdapter) Name() string { return a.name }

func (a *httpAdapter) Generate(ctx context.Context, req *Request) (report.Fragment, error) {
	if a.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := a.cfg.Model
	if req.Model != "" {
		model = req.Model
	}

	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(a.authHeader(), a.authValue())
	for k, v := range a.cfg.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: a.name, Code: resp.StatusCode, Body: string(raw)}
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, &ParseError{Provider: a.name, Err: err}
	}
	if len(chat.Choices) == 0 {
		return nil, &ParseError{Provider: a.name, Err: fmt.Errorf("response has no choices")}
	}

	var frag report.Fragment
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &frag); err != nil {
		return nil, &ParseError{Provider: a.name, Err: err}
	}
	return frag, nil
}

func (a *httpAdapter) endpoint() string {
	endpoint := a.cfg.BaseURL + "/chat/completions"
	if len(a.cfg.Query) == 0 {
		return endpoint
	}
	q := url.Values{}
	for k, v := range a.cfg.Query {
		q.Set(k, v)
	}
	return endpoint + "?" + q.Encode()
}

func (a *httpAdapter) authHeader() string {
	if a.cfg.AuthHeader != "" {
		return a.cfg.AuthHeader
	}
	return "Authorization"
}

func (a *httpAdapter) authValue() string {
	scheme := a.cfg.AuthScheme
	if a.cfg.AuthHeader == "" && scheme == "" {
		scheme = "Bearer"
	}
	if scheme == "" {
		return a.cfg.APIKey
	}
	return scheme + " " + a.cfg.APIKey
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

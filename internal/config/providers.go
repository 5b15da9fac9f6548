package config

import "time"

type ProvidersConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one OpenAI-compatible chat-completions vendor.
// The four vendors differ only in endpoint, auth header shape, default
// model id, and extra query parameters, so each is a row of data rather
// than its own adapter implementation.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Model is the vendor's default model id, used unless the request
	// carries an override addressed to this provider.
	Model string `yaml:"model"`
	// AuthHeader and AuthScheme shape the credential header.
	// Defaults: "Authorization" / "Bearer".
	AuthHeader string `yaml:"auth_header,omitempty"`
	AuthScheme string `yaml:"auth_scheme,omitempty"`
	// Query holds extra query parameters appended to the completions URL
	// (MiniMax wants GroupId here).
	Query   map[string]string `yaml:"query,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout time.Duration     `yaml:"timeout,omitempty"`
}

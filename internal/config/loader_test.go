package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "hello")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "hello"},
		{"${TEST_VAR:default}", "hello"},
		{"${UNSET_VAR:fallback}", "fallback"},
		{"${UNSET_VAR}", ""},
		{"no vars here", "no vars here"},
		{"prefix-${TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExpandEnvVars_NestedFallback(t *testing.T) {
	os.Setenv("TEST_ALT_KEY", "sk-alt")
	defer os.Unsetenv("TEST_ALT_KEY")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_PRIMARY_KEY:${TEST_ALT_KEY:}}", "sk-alt"},
		{"${TEST_ALT_KEY:${TEST_PRIMARY_KEY:}}", "sk-alt"},
		{"${TEST_PRIMARY_KEY:${TEST_OTHER_KEY:}}", ""},
		{"${TEST_PRIMARY_KEY:${TEST_OTHER_KEY:fallback}}", "fallback"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile_QwenKeyAlias(t *testing.T) {
	os.Setenv("TEST_QWEN_KEY", "sk-qwen-alias")
	defer os.Unsetenv("TEST_QWEN_KEY")

	tmpFile, err := os.CreateTemp("", "test-providers-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
providers:
  qwen:
    base_url: "https://dashscope.aliyuncs.com/compatible-mode/v1"
    api_key: "${TEST_DASHSCOPE_KEY:${TEST_QWEN_KEY:}}"
    model: qwen-plus
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var provs ProvidersConfig
	if err := LoadFile(tmpFile.Name(), &provs); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if got := provs.Providers["qwen"].APIKey; got != "sk-qwen-alias" {
		t.Errorf("expected api key from the alias variable, got %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "0.0.0.0"
  port: 9999
chain:
  provider_timeout: 45s
  require_complete: true
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	cfg := DefaultConfig()
	if err := LoadFile(tmpFile.Name(), cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Chain.ProviderTimeout != 45*time.Second {
		t.Errorf("expected 45s provider timeout, got %s", cfg.Chain.ProviderTimeout)
	}
	if !cfg.Chain.RequireComplete {
		t.Error("expected require_complete=true")
	}
}

func TestLoadFile_ProviderAPIKeyFromEnv(t *testing.T) {
	os.Setenv("TEST_DEEPSEEK_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_DEEPSEEK_KEY")

	tmpFile, err := os.CreateTemp("", "test-providers-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
providers:
  deepseek:
    base_url: "${TEST_DEEPSEEK_URL:https://api.deepseek.com/v1}"
    api_key: "${TEST_DEEPSEEK_KEY}"
    model: deepseek-chat
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var provs ProvidersConfig
	if err := LoadFile(tmpFile.Name(), &provs); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	ds, ok := provs.Providers["deepseek"]
	if !ok {
		t.Fatal("expected deepseek provider")
	}
	if ds.APIKey != "sk-test-123" {
		t.Errorf("expected api key from env, got %q", ds.APIKey)
	}
	if ds.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("expected default base URL, got %q", ds.BaseURL)
	}
}

func TestLoad_WarnsOnUnconfiguredChainProvider(t *testing.T) {
	dir := t.TempDir()
	gateway := "server:\n  port: 8080\n"
	providers := `
providers:
  deepseek:
    base_url: "https://api.deepseek.com/v1"
    api_key: "sk-test"
    model: deepseek-chat
`
	if err := os.WriteFile(dir+"/gateway.yaml", []byte(gateway), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/providers.yaml", []byte(providers), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	l := NewLoader(dir, logger)
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Default chain order names qwen first; only deepseek is configured.
	if !strings.Contains(buf.String(), "chain provider has no adapter config") {
		t.Error("expected warning about unconfigured chain providers")
	}
	if !strings.Contains(buf.String(), "provider=qwen") {
		t.Errorf("expected qwen named in the warning, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "provider=deepseek") {
		t.Errorf("did not expect a warning for the configured provider, got: %s", buf.String())
	}
}

func TestDefaultConfig_ChainOrder(t *testing.T) {
	cfg := DefaultConfig()
	want := []string{"qwen", "minimax", "moonshot", "deepseek"}
	if len(cfg.Chain.Order) != len(want) {
		t.Fatalf("expected %d providers in chain, got %d", len(want), len(cfg.Chain.Order))
	}
	for i, name := range want {
		if cfg.Chain.Order[i] != name {
			t.Errorf("chain[%d] = %s, want %s", i, cfg.Chain.Order[i], name)
		}
	}
	if cfg.Chain.ProviderTimeout != 60*time.Second {
		t.Errorf("expected 60s provider timeout, got %s", cfg.Chain.ProviderTimeout)
	}
}

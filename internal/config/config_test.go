package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "claude" {
		t.Errorf("default provider = %q, want claude", cfg.LLM.Provider)
	}
	if cfg.Analyzer.MaxKeywords != 15 {
		t.Errorf("default max keywords = %d, want 15", cfg.Analyzer.MaxKeywords)
	}
	if !cfg.Analyzer.SemanticMatching {
		t.Error("semantic matching should default to enabled")
	}
	if cfg.Analyzer.StrictMatching {
		t.Error("strict matching should default to disabled")
	}
	if cfg.Snapshot.MaxRetries != 3 {
		t.Errorf("default snapshot retries = %d, want 3", cfg.Snapshot.MaxRetries)
	}
	if cfg.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("default rate limit = %d, want 30", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
llm:
  model: claude-3-opus-20240229
  timeout: 90s
analyzer:
  max_keywords: 25
  strict_matching: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.LLM.Model != "claude-3-opus-20240229" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("timeout = %v, want 90s", cfg.LLM.Timeout)
	}
	if cfg.Analyzer.MaxKeywords != 25 {
		t.Errorf("max keywords = %d, want 25", cfg.Analyzer.MaxKeywords)
	}
	if !cfg.Analyzer.StrictMatching {
		t.Error("strict matching should be enabled from file")
	}
	// Untouched values keep their defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("ANALYZER_MAX_KEYWORDS", "10")
	t.Setenv("ANALYZER_STRICT_MATCHING", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070 from env", cfg.Server.Port)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("api key = %q, want env value", cfg.LLM.APIKey)
	}
	if cfg.Analyzer.MaxKeywords != 10 {
		t.Errorf("max keywords = %d, want 10 from env", cfg.Analyzer.MaxKeywords)
	}
	if !cfg.Analyzer.StrictMatching {
		t.Error("strict matching should be enabled from env")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_VALUE", "expanded")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_EXPAND_VALUE}", "expanded"},
		{"prefix-${TEST_EXPAND_VALUE}", "prefix-expanded"},
		{"$TEST_EXPAND_VALUE", "expanded"},
		{"${UNSET_VARIABLE_XYZ}", "${UNSET_VARIABLE_XYZ}"},
		{"no variables here", "no variables here"},
	}

	for _, tt := range tests {
		if got := expandEnvVars(tt.input); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

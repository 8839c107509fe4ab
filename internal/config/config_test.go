package config

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestLoad(t *testing.T) {
	yaml := []byte(`
site_url: "sc-domain:www.example.ai"
service_account_key: "c2VjcmV0"
gemini_api_key: "gem-key"
gemini_model: "gemini-2.5-pro"
`)

	cfg, err := Load(bytes.NewReader(yaml))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SiteURL != "sc-domain:www.example.ai" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
	if cfg.ServiceAccountKey != "c2VjcmV0" {
		t.Errorf("ServiceAccountKey = %q", cfg.ServiceAccountKey)
	}
	if cfg.GeminiAPIKey != "gem-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("site_url: [unclosed"))); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\") error: %v", err)
	}
	if cfg.SiteURL != "" {
		t.Errorf("expected empty config, got SiteURL = %q", cfg.SiteURL)
	}

	if _, err := LoadFile("/nonexistent/config.yaml"); err != nil {
		t.Errorf("missing file should yield empty config, got error: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSearchConsoleKey, "env-key")
	t.Setenv(EnvSiteURL, "sc-domain:env.example.ai")

	cfg := &Config{
		SiteURL:           "sc-domain:file.example.ai",
		ServiceAccountKey: "file-key",
		GeminiAPIKey:      "file-gemini",
	}
	cfg.ApplyEnv()

	// Set variables win over file values; unset variables don't clobber.
	if cfg.ServiceAccountKey != "env-key" {
		t.Errorf("ServiceAccountKey = %q", cfg.ServiceAccountKey)
	}
	if cfg.SiteURL != "sc-domain:env.example.ai" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
	if cfg.GeminiAPIKey != "file-gemini" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
}

func TestValidate(t *testing.T) {
	full := Config{
		SiteURL:           "sc-domain:www.example.ai",
		ServiceAccountKey: "key",
		GeminiAPIKey:      "gem",
	}
	if err := full.Validate(); err != nil {
		t.Errorf("Validate() on complete config: %v", err)
	}

	tests := []struct {
		name string
		mod  func(c *Config)
	}{
		{"missing site", func(c *Config) { c.SiteURL = "" }},
		{"missing service key", func(c *Config) { c.ServiceAccountKey = "" }},
		{"missing gemini key", func(c *Config) { c.GeminiAPIKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDecodeServiceAccountKey(t *testing.T) {
	keyJSON := `{"type":"service_account"}`
	cfg := &Config{ServiceAccountKey: base64.StdEncoding.EncodeToString([]byte(keyJSON))}

	decoded, err := cfg.DecodeServiceAccountKey()
	if err != nil {
		t.Fatalf("DecodeServiceAccountKey() error: %v", err)
	}
	if string(decoded) != keyJSON {
		t.Errorf("decoded = %q", decoded)
	}
}

func TestDecodeServiceAccountKeyInvalid(t *testing.T) {
	cfg := &Config{ServiceAccountKey: "!!! not base64 !!!"}
	if _, err := cfg.DecodeServiceAccountKey(); err == nil {
		t.Error("expected error for invalid base64")
	}

	empty := &Config{}
	if _, err := empty.DecodeServiceAccountKey(); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestPropertyURL(t *testing.T) {
	tests := []struct {
		siteURL string
		want    string
	}{
		{"sc-domain:www.example.ai", "https://www.example.ai"},
		{"sc-domain:example.com", "https://example.com"},
		{"https://www.example.ai/", "https://www.example.ai"},
		{"https://www.example.ai", "https://www.example.ai"},
	}

	for _, tt := range tests {
		cfg := &Config{SiteURL: tt.siteURL}
		if got := cfg.PropertyURL(); got != tt.want {
			t.Errorf("PropertyURL(%q) = %q, want %q", tt.siteURL, got, tt.want)
		}
	}
}

package config

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv. They override file values so
// deployments can keep credentials out of config files entirely.
const (
	EnvSearchConsoleKey = "SEARCH_CONSOLE_KEY"
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvSiteURL          = "GSC_SITE_URL"
	EnvGeminiModel      = "GEMINI_MODEL"
)

// Config holds the process-wide settings: the target property, the
// base64-encoded service-account key for Search Console, and the Gemini
// credentials. Constructed once at startup and treated as immutable.
type Config struct {
	// SiteURL is the Search Console property identifier, either a
	// URL-prefix property ("https://www.example.ai/") or a domain
	// property ("sc-domain:www.example.ai").
	SiteURL string `yaml:"site_url"`

	// ServiceAccountKey is the base64-encoded JSON service-account key.
	ServiceAccountKey string `yaml:"service_account_key"`

	// GeminiAPIKey authenticates generateContent calls.
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// GeminiModel overrides the default translation model.
	GeminiModel string `yaml:"gemini_model"`
}

// LoadFile loads configuration from a YAML file. An empty path or a
// missing file yields an empty config, on the assumption that everything
// arrives via environment variables.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from an io.Reader.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config YAML: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Set variables
// win over file values.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSearchConsoleKey); v != "" {
		c.ServiceAccountKey = v
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvSiteURL); v != "" {
		c.SiteURL = v
	}
	if v := os.Getenv(EnvGeminiModel); v != "" {
		c.GeminiModel = v
	}
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("site URL is not set (config site_url or %s)", EnvSiteURL)
	}
	if c.ServiceAccountKey == "" {
		return fmt.Errorf("service account key is not set (config service_account_key or %s)", EnvSearchConsoleKey)
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("gemini API key is not set (config gemini_api_key or %s)", EnvGeminiAPIKey)
	}
	return nil
}

// DecodeServiceAccountKey decodes the base64 service-account key into the
// JSON document the OAuth2 JWT flow consumes.
func (c *Config) DecodeServiceAccountKey() ([]byte, error) {
	if c.ServiceAccountKey == "" {
		return nil, fmt.Errorf("service account key is empty")
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.ServiceAccountKey))
	if err != nil {
		return nil, fmt.Errorf("decoding service account key: %w", err)
	}
	return decoded, nil
}

// PropertyURL derives the absolute URL of the analyzed property for use in
// prompts and page-filter rewriting. Domain properties map to their https
// form; URL-prefix properties pass through without the trailing slash.
func (c *Config) PropertyURL() string {
	if domain, ok := strings.CutPrefix(c.SiteURL, "sc-domain:"); ok {
		return "https://" + domain
	}
	return strings.TrimRight(c.SiteURL, "/")
}

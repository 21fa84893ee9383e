package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfig tests configuration loading from the environment
func TestLoadConfig(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("FUSEKI_ENDPOINT", "http://fuseki:3030/eco")
	t.Setenv("FUSEKI_TIMEOUT", "5")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODELS", "gemini-1.5-flash, gemini-pro")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected environment 'test', got '%s'", cfg.Environment)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.Fuseki.Endpoint != "http://fuseki:3030/eco" {
		t.Errorf("Expected fuseki endpoint override, got '%s'", cfg.Fuseki.Endpoint)
	}
	if cfg.Fuseki.Timeout != 5 {
		t.Errorf("Expected fuseki timeout 5, got %d", cfg.Fuseki.Timeout)
	}
	if !cfg.GeminiEnabled() {
		t.Error("Expected Gemini to be enabled")
	}
	if len(cfg.Gemini.Models) != 2 || cfg.Gemini.Models[0] != "gemini-1.5-flash" {
		t.Errorf("Unexpected Gemini models: %v", cfg.Gemini.Models)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORS.AllowedOrigins)
	}
}

// TestLoadConfigDefaults tests default values
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port '8080', got '%s'", cfg.Port)
	}
	if cfg.Fuseki.Endpoint != "http://localhost:3030/eco-ontology" {
		t.Errorf("Expected default endpoint, got '%s'", cfg.Fuseki.Endpoint)
	}
	if cfg.Fuseki.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", cfg.Fuseki.Timeout)
	}
	if cfg.TALN.Timeout != 10 {
		t.Errorf("Expected default TALN timeout 10, got %d", cfg.TALN.Timeout)
	}
	if cfg.GeminiEnabled() {
		t.Error("Gemini should be disabled without an API key")
	}
	if cfg.History.DBPath != "ecoapi-history.db" {
		t.Errorf("Expected default history path, got '%s'", cfg.History.DBPath)
	}
	if cfg.Monitor.Schedule != "@every 5m" {
		t.Errorf("Expected default monitor schedule, got '%s'", cfg.Monitor.Schedule)
	}
}

// TestLoadConfigFile tests YAML loading and environment precedence
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecoapi.yaml")
	content := `
port: "7000"
fuseki:
  endpoint: http://store:3030/eco
  timeout: 12
logging:
  format: text
history:
  db_path: /tmp/history.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("PORT", "7001")
	t.Setenv("MONITOR_SCHEDULE", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != "7001" {
		t.Errorf("Expected environment to win over file, got port '%s'", cfg.Port)
	}
	if cfg.Fuseki.Endpoint != "http://store:3030/eco" || cfg.Fuseki.Timeout != 12 {
		t.Errorf("Unexpected fuseki config: %+v", cfg.Fuseki)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected text format, got '%s'", cfg.Logging.Format)
	}
	if cfg.History.DBPath != "/tmp/history.db" {
		t.Errorf("Expected file history path, got '%s'", cfg.History.DBPath)
	}
	if cfg.Monitor.Schedule != "" {
		t.Errorf("Expected monitor disabled, got '%s'", cfg.Monitor.Schedule)
	}
}

// TestValidate tests rejected values
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non numeric port", func(c *Config) { c.Port = "http" }},
		{"relative endpoint", func(c *Config) { c.Fuseki.Endpoint = "localhost:3030" }},
		{"ftp endpoint", func(c *Config) { c.Fuseki.Endpoint = "ftp://host/eco" }},
		{"zero timeout", func(c *Config) { c.Fuseki.Timeout = 0 }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestLoadConfigMissingFile tests the error path for an unreadable file
func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

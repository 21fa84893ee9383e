package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`

	Logging LoggingConfig `yaml:"logging"`
	Fuseki  FusekiConfig  `yaml:"fuseki"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	TALN    TALNConfig    `yaml:"taln"`
	History HistoryConfig `yaml:"history"`
	Monitor MonitorConfig `yaml:"monitor"`
	CORS    CORSConfig    `yaml:"cors"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// FusekiConfig points at the triple store dataset
type FusekiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  int    `yaml:"timeout"` // seconds
}

// GeminiConfig configures the SPARQL generator
type GeminiConfig struct {
	APIKey string   `yaml:"api_key"`
	Models []string `yaml:"models"`
}

// TALNConfig configures the entity extraction API
type TALNConfig struct {
	APIKey  string `yaml:"api_key"`
	APIURL  string `yaml:"api_url"`
	Timeout int    `yaml:"timeout"` // seconds
}

// HistoryConfig configures the search history database; an empty path
// disables it.
type HistoryConfig struct {
	DBPath string `yaml:"db_path"`
}

// MonitorConfig configures the periodic store check; an empty schedule
// disables it.
type MonitorConfig struct {
	Schedule string `yaml:"schedule"`
}

// CORSConfig lists the origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Environment: "development",
		Port:        "8080",
		Logging:     LoggingConfig{Level: "info", Format: "json"},
		Fuseki: FusekiConfig{
			Endpoint: "http://localhost:3030/eco-ontology",
			Timeout:  30,
		},
		Gemini: GeminiConfig{Models: []string{"models/gemini-pro", "gemini-pro"}},
		TALN: TALNConfig{
			APIURL:  "https://api.taln.fr/v1",
			Timeout: 10,
		},
		History: HistoryConfig{DBPath: "ecoapi-history.db"},
		Monitor: MonitorConfig{Schedule: "@every 5m"},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// then environment variables, in that order of precedence.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.Port = getEnv("PORT", c.Port)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	c.Fuseki.Endpoint = getEnv("FUSEKI_ENDPOINT", c.Fuseki.Endpoint)
	c.Fuseki.Timeout = getEnvAsInt("FUSEKI_TIMEOUT", c.Fuseki.Timeout)

	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Models = getEnvAsList("GEMINI_MODELS", c.Gemini.Models)

	c.TALN.APIKey = getEnv("TALN_API_KEY", c.TALN.APIKey)
	c.TALN.APIURL = getEnv("TALN_API_URL", c.TALN.APIURL)
	c.TALN.Timeout = getEnvAsInt("TALN_TIMEOUT", c.TALN.Timeout)

	// Both may be set to empty on purpose to disable the feature.
	if v, ok := os.LookupEnv("HISTORY_DB_PATH"); ok {
		c.History.DBPath = v
	}
	if v, ok := os.LookupEnv("MONITOR_SCHEDULE"); ok {
		c.Monitor.Schedule = v
	}

	c.CORS.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
}

// Validate checks the values that would otherwise fail late at startup
func (c *Config) Validate() error {
	var errs []error

	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}

	u, err := url.Parse(c.Fuseki.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("FUSEKI_ENDPOINT must be an absolute http(s) URL, got %q", c.Fuseki.Endpoint))
	}
	if c.Fuseki.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("FUSEKI_TIMEOUT must be positive"))
	}
	if c.TALN.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("TALN_TIMEOUT must be positive"))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// GeminiEnabled reports whether an API key is configured
func (c *Config) GeminiEnabled() bool {
	return c.Gemini.APIKey != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

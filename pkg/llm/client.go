package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no API key was provided for the model.
var ErrNotConfigured = errors.New("llm: not configured")

// LLMProvider identifies the backing model vendor
type LLMProvider string

const (
	ProviderGoogle LLMProvider = "google"
	ProviderMock   LLMProvider = "mock"
)

// LLMMessage represents a single message in a conversation
type LLMMessage struct {
	Role    string `json:"role"` // system, user
	Content string `json:"content"`
}

// LLMRequest represents a request to an LLM
type LLMRequest struct {
	Messages    []LLMMessage `json:"messages"`
	Model       string       `json:"model,omitempty"`
	Temperature float32      `json:"temperature,omitempty"`
	TopP        float32      `json:"top_p,omitempty"`
	TopK        int32        `json:"top_k,omitempty"`
	MaxTokens   int32        `json:"max_tokens,omitempty"`
	SystemMsg   string       `json:"system,omitempty"`
}

// LLMResponse represents a response from an LLM
type LLMResponse struct {
	Content      string    `json:"content"`
	FinishReason string    `json:"finish_reason,omitempty"`
	Usage        *LLMUsage `json:"usage,omitempty"`
	Model        string    `json:"model,omitempty"`
}

// LLMUsage tracks token usage
type LLMUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// LLMClient is the interface that all LLM providers must implement
type LLMClient interface {
	// Complete sends a completion request to the LLM
	Complete(ctx context.Context, request LLMRequest) (*LLMResponse, error)

	// CompleteSimple is a convenience method for simple text completion
	CompleteSimple(ctx context.Context, prompt string) (string, error)

	// GetProvider returns the provider type
	GetProvider() LLMProvider

	// GetDefaultModel returns the default model for this provider
	GetDefaultModel() string

	// ValidateConfig validates the client configuration
	ValidateConfig() error
}

// LLMClientConfig holds configuration for creating LLM clients
type LLMClientConfig struct {
	Provider LLMProvider `json:"provider"`
	APIKey   string      `json:"api_key,omitempty"`
	// Models are tried in order until one answers.
	Models []string `json:"models,omitempty"`
}

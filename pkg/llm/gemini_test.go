package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), LLMClientConfig{Provider: ProviderGoogle}, nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestGeminiModelOrder(t *testing.T) {
	c := &GeminiClient{apiKey: "k", models: []string{"models/gemini-pro", "gemini-pro", "gemini-1.5-flash"}}

	assert.Equal(t, []string{"models/gemini-pro", "gemini-pro", "gemini-1.5-flash"}, c.modelOrder(""))
	assert.Equal(t, "models/gemini-pro", c.GetDefaultModel())

	c.prefer("gemini-pro")
	assert.Equal(t, "gemini-pro", c.GetDefaultModel())
	assert.Equal(t, []string{"gemini-pro", "models/gemini-pro", "gemini-1.5-flash"}, c.modelOrder(""))

	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-pro", "models/gemini-pro"}, c.modelOrder("gemini-1.5-flash"))

	c.prefer("unknown")
	assert.Equal(t, "gemini-pro", c.GetDefaultModel())
}

func TestGeminiValidateConfig(t *testing.T) {
	c := &GeminiClient{models: []string{"gemini-pro"}}
	assert.ErrorIs(t, c.ValidateConfig(), ErrNotConfigured)

	c.apiKey = "k"
	assert.NoError(t, c.ValidateConfig())
	assert.Equal(t, ProviderGoogle, c.GetProvider())
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var defaultGeminiModels = []string{"models/gemini-pro", "gemini-pro"}

// GeminiClient talks to the Gemini API. Model names are tried in order and
// the first one that answers is preferred for later calls.
type GeminiClient struct {
	client    *genai.Client
	apiKey    string
	models    []string
	preferred atomic.Int32
	logger    *slog.Logger
}

// NewGeminiClient creates a Gemini client. It fails with ErrNotConfigured
// when the key is empty.
func NewGeminiClient(ctx context.Context, config LLMClientConfig, logger *slog.Logger) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	if logger == nil {
		logger = slog.Default()
	}
	models := config.Models
	if len(models) == 0 {
		models = defaultGeminiModels
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		apiKey: config.APIKey,
		models: models,
		logger: logger,
	}, nil
}

// Close releases the underlying connection
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Complete sends the request to each configured model until one succeeds
func (c *GeminiClient) Complete(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	order := c.modelOrder(request.Model)

	var errs []error
	for _, name := range order {
		resp, err := c.generate(ctx, name, request)
		if err == nil {
			c.prefer(name)
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("gemini model failed", "model", name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, fmt.Errorf("all gemini models failed: %w", errors.Join(errs...))
}

func (c *GeminiClient) generate(ctx context.Context, name string, request LLMRequest) (*LLMResponse, error) {
	model := c.client.GenerativeModel(name)
	model.SetCandidateCount(1)
	if request.Temperature > 0 {
		model.SetTemperature(request.Temperature)
	}
	if request.TopP > 0 {
		model.SetTopP(request.TopP)
	}
	if request.TopK > 0 {
		model.SetTopK(request.TopK)
	}
	if request.MaxTokens > 0 {
		model.SetMaxOutputTokens(request.MaxTokens)
	}
	if request.SystemMsg != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(request.SystemMsg)}}
	}

	var parts []genai.Part
	for _, msg := range request.Messages {
		if msg.Role == "system" {
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}
	if len(parts) == 0 {
		return nil, errors.New("empty prompt")
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no candidates in response")
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := &LLMResponse{
		Content:      sb.String(),
		FinishReason: candidate.FinishReason.String(),
		Model:        name,
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &LLMUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// CompleteSimple is a convenience method for simple text completion
func (c *GeminiClient) CompleteSimple(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Complete(ctx, LLMRequest{
		Messages: []LLMMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GetProvider returns the provider type
func (c *GeminiClient) GetProvider() LLMProvider {
	return ProviderGoogle
}

// GetDefaultModel returns the model tried first
func (c *GeminiClient) GetDefaultModel() string {
	return c.models[c.preferred.Load()]
}

// ValidateConfig validates the client configuration
func (c *GeminiClient) ValidateConfig() error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	if len(c.models) == 0 {
		return fmt.Errorf("gemini: no model configured")
	}
	return nil
}

// modelOrder puts an explicitly requested model first, then the model that
// last worked, then the remaining configured models.
func (c *GeminiClient) modelOrder(requested string) []string {
	order := make([]string, 0, len(c.models)+1)
	if requested != "" {
		order = append(order, requested)
	}
	first := c.models[c.preferred.Load()]
	if first != requested {
		order = append(order, first)
	}
	for _, m := range c.models {
		if m != first && m != requested {
			order = append(order, m)
		}
	}
	return order
}

func (c *GeminiClient) prefer(name string) {
	for i, m := range c.models {
		if m == name {
			c.preferred.Store(int32(i))
			return
		}
	}
}

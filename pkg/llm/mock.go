package llm

import (
	"context"
	"sync"
)

// MockLLMClient is a simple mock for testing
type MockLLMClient struct {
	mu       sync.Mutex
	response string
	err      error
	requests []LLMRequest
}

// NewMockLLMClient creates a mock LLM client that always answers response
func NewMockLLMClient(response string) *MockLLMClient {
	return &MockLLMClient{response: response}
}

// NewFailingLLMClient creates a mock LLM client whose calls all fail with err
func NewFailingLLMClient(err error) *MockLLMClient {
	return &MockLLMClient{err: err}
}

func (m *MockLLMClient) Complete(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return &LLMResponse{
		Content:      m.response,
		FinishReason: "stop",
		Model:        m.GetDefaultModel(),
		Usage: &LLMUsage{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		},
	}, nil
}

func (m *MockLLMClient) CompleteSimple(ctx context.Context, prompt string) (string, error) {
	resp, err := m.Complete(ctx, LLMRequest{Messages: []LLMMessage{{Role: "user", Content: prompt}}})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (m *MockLLMClient) GetProvider() LLMProvider {
	return ProviderMock
}

func (m *MockLLMClient) GetDefaultModel() string {
	return "mock-model"
}

func (m *MockLLMClient) ValidateConfig() error {
	return nil
}

// Requests returns a copy of every request received so far
func (m *MockLLMClient) Requests() []LLMRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LLMRequest(nil), m.requests...)
}

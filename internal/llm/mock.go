package llm

import (
	"context"

	"github.com/sundialhq/sundial/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	RespondResponse           string
	RespondError              error
	ExtractPreferenceResponse *domain.ExtractedPreference
	ExtractPreferenceError    error

	// Call tracking for assertions
	RespondCalls           []string
	ExtractPreferenceCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		RespondResponse: "Mock response",
	}
}

func (c *MockClient) Respond(ctx context.Context, system, prompt string) (string, error) {
	c.RespondCalls = append(c.RespondCalls, prompt)
	if c.RespondError != nil {
		return "", c.RespondError
	}
	return c.RespondResponse, nil
}

func (c *MockClient) ExtractPreference(ctx context.Context, message string) (*domain.ExtractedPreference, error) {
	c.ExtractPreferenceCalls = append(c.ExtractPreferenceCalls, message)
	if c.ExtractPreferenceError != nil {
		return nil, c.ExtractPreferenceError
	}
	return c.ExtractPreferenceResponse, nil
}

// Reset clears all recorded calls and resets responses to defaults.
func (c *MockClient) Reset() {
	c.RespondResponse = "Mock response"
	c.RespondError = nil
	c.ExtractPreferenceResponse = nil
	c.ExtractPreferenceError = nil
	c.RespondCalls = nil
	c.ExtractPreferenceCalls = nil
}

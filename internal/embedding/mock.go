package embedding

import (
	"context"
	"hash/fnv"
)

// MockClient produces deterministic embeddings derived from the input
// text, so tests get stable similarity orderings without network calls.
// Vectors are Dimensions wide, same as the real client.
type MockClient struct {
	EmbedError error

	// Call tracking for assertions
	EmbedCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, Dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed>>33))/float32(1<<31) - 0.5
	}
	return vec, nil
}

package embedding

import (
	"context"
	"testing"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		model    string
		wantErr  bool
	}{
		{"openai", "openai", "sk-test", "", false},
		{"openai with model override", "openai", "sk-test", "text-embedding-3-large", false},
		{"openai without key", "openai", "", "", true},
		{"mock", "mock", "", "", false},
		{"unknown provider", "cohere", "key", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.provider, tt.apiKey, tt.model)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if client == nil {
				t.Error("expected a client")
			}
		})
	}
}

func TestNewOpenAIClientDefaultsModel(t *testing.T) {
	c := NewOpenAIClient("sk-test", "")
	if c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}

	c = NewOpenAIClient("sk-test", "text-embedding-3-large")
	if c.model != "text-embedding-3-large" {
		t.Errorf("model = %q, want the override", c.model)
	}
}

func TestMockClientEmbed(t *testing.T) {
	ctx := context.Background()
	c := NewMockClient()

	t.Run("matches the schema width", func(t *testing.T) {
		vec, err := c.Embed(ctx, "I prefer meetings after 2pm")
		if err != nil {
			t.Fatalf("Embed() error = %v", err)
		}
		if len(vec) != Dimensions {
			t.Errorf("vector width = %d, want %d", len(vec), Dimensions)
		}
	})

	t.Run("deterministic per input", func(t *testing.T) {
		a, err := c.Embed(ctx, "mornings are bad")
		if err != nil {
			t.Fatal(err)
		}
		b, err := c.Embed(ctx, "mornings are bad")
		if err != nil {
			t.Fatal(err)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("vectors diverge at index %d: %v vs %v", i, a[i], b[i])
			}
		}

		other, err := c.Embed(ctx, "evenings are fine")
		if err != nil {
			t.Fatal(err)
		}
		same := true
		for i := range a {
			if a[i] != other[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("different inputs should produce different vectors")
		}
	})
}

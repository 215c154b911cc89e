package llm

import (
	"testing"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  bool
	}{
		{"openai", "openai", "sk-test", false},
		{"anthropic", "anthropic", "sk-ant-test", false},
		{"mock", "mock", "", false},
		{"openai without key", "openai", "", true},
		{"anthropic without key", "anthropic", "", true},
		{"unknown provider", "bard", "key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.provider, tt.apiKey)
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

func TestParseExtractedPreference(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		got, err := parseExtractedPreference(`{"value":"I prefer meetings after 2pm"}`)
		if err != nil {
			t.Fatalf("parseExtractedPreference() error = %v", err)
		}
		if got == nil || got.Value != "I prefer meetings after 2pm" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("NONE means no preference", func(t *testing.T) {
		got, err := parseExtractedPreference("NONE")
		if err != nil || got != nil {
			t.Errorf("got (%+v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("lowercase none and whitespace", func(t *testing.T) {
		got, err := parseExtractedPreference("  none\n")
		if err != nil || got != nil {
			t.Errorf("got (%+v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("empty value means no preference", func(t *testing.T) {
		got, err := parseExtractedPreference(`{"value":"  "}`)
		if err != nil || got != nil {
			t.Errorf("got (%+v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := parseExtractedPreference("{value: nope"); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*User, error)
}

type PreferenceStore interface {
	Create(ctx context.Context, p *Preference) error
	// ListByUser returns all stored preferences for the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Preference, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	// SearchSimilar returns up to limit preferences nearest to the
	// embedding by cosine distance.
	SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int) ([]PreferenceWithScore, error)
}

type ChatStore interface {
	Create(ctx context.Context, m *ChatMessage) error
	// ListByUser returns the most recent messages, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]ChatMessage, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// CalendarClient talks to the user's calendar provider. The access token
// is passed per call because it belongs to the user, not the client.
type CalendarClient interface {
	CreateEvent(ctx context.Context, token string, ev CalendarEvent) (*CalendarEvent, error)
	ListEvents(ctx context.Context, token string, date time.Time) ([]CalendarEvent, error)
	DeleteEvent(ctx context.Context, token string, eventID string) error
}

// ExtractedPreference is a scheduling statement an LLM pulled out of a
// chat message, or nothing when the message carries no lasting preference.
type ExtractedPreference struct {
	Value string `json:"value"`
}

type LLMClient interface {
	// Respond produces the assistant's final conversational reply.
	Respond(ctx context.Context, system, prompt string) (string, error)
	// ExtractPreference returns a scheduling preference worth remembering
	// from the message, or nil when there is none.
	ExtractPreference(ctx context.Context, message string) (*ExtractedPreference, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

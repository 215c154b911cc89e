package domain

import (
	"time"

	"github.com/google/uuid"
)

// PreferenceSource indicates where a stored preference originated.
type PreferenceSource string

const (
	SourceChat PreferenceSource = "chat"
	SourceAPI  PreferenceSource = "api"
)

func ValidPreferenceSource(s string) bool {
	switch PreferenceSource(s) {
	case SourceChat, SourceAPI:
		return true
	}
	return false
}

// Preference is one raw scheduling statement as stored, before
// interpretation. Value holds the verbatim text; ScopeDate is set at write
// time when the text carried a date cue ("today"/"tomorrow") and must use
// the same calendar semantics the interpreter applies at read time.
type Preference struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Value     string           `json:"value"`
	ScopeDate *time.Time       `json:"scope_date,omitempty"`
	Source    PreferenceSource `json:"source,omitempty"`
	Embedding []float32        `json:"-"`
	CreatedAt time.Time        `json:"created_at"`
}

// PreferenceWithScore pairs a preference with its similarity score from an
// embedding search.
type PreferenceWithScore struct {
	Preference
	Score float32 `json:"score"`
}

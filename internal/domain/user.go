package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns preferences, chat history and an optional
// connected calendar. API access is authenticated by a hashed key.
type User struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name,omitempty"`
	APIKeyHash        string    `json:"-"`
	CalendarToken     string    `json:"-"` // OAuth access token for the calendar provider
	CalendarConnected bool      `json:"calendar_connected"`
	CreatedAt         time.Time `json:"created_at"`
}

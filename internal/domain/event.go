package domain

import "time"

// CalendarEvent is the provider-neutral view of a calendar entry.
// Start/End are naive local wall-clock times; the reasoning core works at
// hour granularity and never does timezone arithmetic.
type CalendarEvent struct {
	ID    string    `json:"id,omitempty"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

package service

import (
	"testing"
	"time"

	"github.com/sundialhq/sundial/internal/domain"
)

func TestDetectIntent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		message string
		want    domain.Intent
	}{
		{"create meeting", "Schedule a meeting for project sync tomorrow", domain.IntentCreateEvent},
		{"add event", "add an event for lunch today", domain.IntentCreateEvent},
		{"create appointment", "create an appointment at 10am", domain.IntentCreateEvent},
		{"move is reschedule", "move my dentist appointment", domain.IntentRescheduleEvent},
		{"cancel is delete", "cancel the standup", domain.IntentDeleteEvent},
		{"calendar question reads", "what's on my calendar?", domain.IntentReadCalendar},
		{"plain chat", "how are you doing?", domain.IntentChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIntent(tt.message, now)
			if got.Intent != tt.want {
				t.Errorf("DetectIntent(%q) = %v, want %v", tt.message, got.Intent, tt.want)
			}
			if got.Message != tt.message {
				t.Errorf("message must be carried verbatim, got %q", got.Message)
			}
		})
	}

	t.Run("tomorrow sets target date", func(t *testing.T) {
		got := DetectIntent("schedule a meeting tomorrow", now)
		want := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
		if !got.TargetDate.Equal(want) {
			t.Errorf("target date = %v, want %v", got.TargetDate, want)
		}
	})

	t.Run("undated request defaults to today", func(t *testing.T) {
		got := DetectIntent("schedule a meeting", now)
		want := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
		if !got.TargetDate.Equal(want) {
			t.Errorf("target date = %v, want %v", got.TargetDate, want)
		}
	})

	t.Run("non-create intents carry no date", func(t *testing.T) {
		got := DetectIntent("what's on my calendar?", now)
		if !got.TargetDate.IsZero() {
			t.Errorf("target date should be zero, got %v", got.TargetDate)
		}
	})
}

func TestExtractExplicitTime(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"pm hour", "schedule a meeting at 3pm", "15:00"},
		{"am hour", "schedule a meeting at 9am", "09:00"},
		{"bare hour leans pm", "schedule a meeting at 2", "14:00"},
		{"minutes preserved", "schedule a meeting at 2:30pm", "14:30"},
		{"12am is midnight", "schedule a meeting at 12am", "00:00"},
		{"24-hour form", "schedule a meeting at 15:00", "15:00"},
		{"no time stated", "schedule a meeting tomorrow", ""},
	}

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIntent(tt.message, now)
			if got.ExplicitTime != tt.want {
				t.Errorf("explicit time = %q, want %q", got.ExplicitTime, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"for clause", "schedule a meeting for project sync tomorrow", "project sync"},
		{"about clause", "add a meeting about budget review at 3pm", "budget review"},
		{"regarding clause", "create an event regarding hiring", "hiring"},
		{"no title", "schedule a meeting tomorrow", ""},
	}

	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIntent(tt.message, now)
			if got.Title != tt.want {
				t.Errorf("title = %q, want %q", got.Title, tt.want)
			}
		})
	}
}

package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sundialhq/sundial/internal/domain"
)

var (
	explicitTimePattern = regexp.MustCompile(`at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	titlePattern        = regexp.MustCompile(`(?i)(?:for|about|regarding)\s+(.+?)(?:\s+tomorrow|\s+today|\s+at\s+.*|$)`)
)

// DetectIntent classifies a chat message and extracts the literal
// date/time/title cues the orchestration needs. Pure pattern matching,
// same register as the interpreter: this is the only place message text
// is inspected before reasoning runs.
func DetectIntent(message string, now time.Time) domain.RequestState {
	lower := strings.ToLower(message)

	state := domain.RequestState{Message: message, Intent: domain.IntentChat}

	switch {
	case containsAny(lower, []string{"add", "create", "schedule"}) &&
		containsAny(lower, []string{"meeting", "event", "appointment"}):
		state.Intent = domain.IntentCreateEvent
	case containsAny(lower, []string{"reschedule", "move"}):
		state.Intent = domain.IntentRescheduleEvent
	case containsAny(lower, []string{"delete", "cancel"}):
		state.Intent = domain.IntentDeleteEvent
	case containsAny(lower, []string{"calendar", "schedule", "meeting", "event"}):
		state.Intent = domain.IntentReadCalendar
	}

	if state.Intent == domain.IntentCreateEvent {
		switch {
		case strings.Contains(lower, "tomorrow"):
			state.TargetDate = dateOnly(now.AddDate(0, 0, 1))
		default:
			// "today" and undated requests both default to today.
			state.TargetDate = dateOnly(now)
		}
		state.ExplicitTime = extractExplicitTime(lower)
		state.Title = extractTitle(message)
	}

	return state
}

// extractExplicitTime pulls a directly stated meeting time ("at 3pm") out
// of the message. When present it is used verbatim and reasoning is
// skipped entirely.
func extractExplicitTime(lower string) string {
	m := explicitTimePattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	period := m[3]

	// Same bare-hour disambiguation the interpreter uses.
	if period == "" && hour <= 12 {
		period = "pm"
	}
	switch {
	case period == "pm" && hour < 12:
		hour += 12
	case period == "am" && hour == 12:
		hour = 0
	}
	if hour > 23 || minute > 59 {
		return ""
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func extractTitle(message string) string {
	m := titlePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

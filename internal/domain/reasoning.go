package domain

import "time"

// Intent is the high-level classification of a chat message.
type Intent string

const (
	IntentCreateEvent     Intent = "CREATE_EVENT"
	IntentReadCalendar    Intent = "READ_CALENDAR"
	IntentRescheduleEvent Intent = "RESCHEDULE_EVENT"
	IntentDeleteEvent     Intent = "DELETE_EVENT"
	IntentChat            Intent = "CHAT"
)

// Outcome is the terminal state of one reasoning pass.
type Outcome string

const (
	// OutcomeProposed means a single time satisfying all active
	// constraints was found.
	OutcomeProposed Outcome = "proposed"
	// OutcomeConflict means two or more active constraints oppose each
	// other and the user must say which to prioritize.
	OutcomeConflict Outcome = "conflict"
	// OutcomeNoPreference means no constraint applies to the target date.
	OutcomeNoPreference Outcome = "no_preference"
	// OutcomeNoSatisfyingTime means constraints exist and do not conflict,
	// yet the proposal failed final validation.
	OutcomeNoSatisfyingTime Outcome = "no_satisfying_time"
)

// Decision is the immutable result of one reasoning pass. Exactly one of
// ProposedTime or Clarification is meaningful, keyed off Outcome.
type Decision struct {
	Outcome       Outcome        `json:"outcome"`
	TargetDate    time.Time      `json:"target_date"`
	ProposedTime  string         `json:"proposed_time,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
	Conflicts     []ConflictPair `json:"conflicts,omitempty"`
	Clarification string         `json:"clarification,omitempty"`
}

// NeedsClarification reports whether the decision requires user input
// before any action can be taken.
func (d Decision) NeedsClarification() bool {
	return d.Outcome != OutcomeProposed
}

// RequestState carries the parsed view of one chat message through the
// orchestration pipeline. Fields are filled once by intent detection and
// read-only afterwards.
type RequestState struct {
	Message      string
	Intent       Intent
	TargetDate   time.Time // zero unless the intent needs a date
	ExplicitTime string    // "HH:MM" stated directly by the user, bypasses reasoning
	Title        string    // extracted event title, "" when absent
}

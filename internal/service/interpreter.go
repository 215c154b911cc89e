package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sundialhq/sundial/internal/domain"
)

var (
	ErrPreferenceTextEmpty = errors.New("preference text is empty")
	ErrBoundaryOutOfRange  = errors.New("boundary time is out of range")
)

// timePattern matches "6pm", "6:30pm", "18:00" and bare hours like "2".
var timePattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

// hardConstraintCues are the negative-intensity phrases that promote a
// statement to an inviolable rule.
var hardConstraintCues = []string{
	"hate", "never", "don't", "do not", "cannot", "can't", "no meetings",
}

// boundaryRule maps a set of trigger phrases to the rule they imply.
// The cascade is evaluated top to bottom, first match wins.
type boundaryRule struct {
	phrases []string
	rule    domain.ConstraintRule
}

var ruleCascade = []boundaryRule{
	{phrases: []string{"hate meeting after", "hate meetings after", "no meetings after"}, rule: domain.RuleNotAfter},
	{phrases: []string{"not after", "no later than"}, rule: domain.RuleNotAfter},
	// "before X" is treated as a ceiling, same as "not after X".
	{phrases: []string{"before", "earlier than"}, rule: domain.RuleNotAfter},
	{phrases: []string{"after"}, rule: domain.RuleAfter},
}

// InterpreterConfig carries the interpreter's defaults so tests can
// override them.
type InterpreterConfig struct {
	// DefaultBoundary is assumed when the text mentions no time ("18:00").
	DefaultBoundary string
	// Now supplies the clock for "today"/"tomorrow" resolution.
	Now func() time.Time
}

// Interpreter converts one raw preference string into exactly one
// Constraint using lexical cues. It is deterministic and purely local;
// callers skip entries it rejects so one bad statement never aborts a
// belief-state build.
type Interpreter struct {
	cfg InterpreterConfig
}

func NewInterpreter(cfg InterpreterConfig) *Interpreter {
	if cfg.DefaultBoundary == "" {
		cfg.DefaultBoundary = "18:00"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Interpreter{cfg: cfg}
}

// Interpret builds a Constraint from raw text plus an optional scope date
// recorded when the statement was stored.
func (it *Interpreter) Interpret(text string, storedScopeDate *time.Time) (domain.Constraint, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Constraint{}, ErrPreferenceTextEmpty
	}
	lower := strings.ToLower(text)

	scope, scopeDate := it.resolveScope(lower, storedScopeDate)

	kind := domain.KindPreference
	priority := domain.PriorityGlobal
	if containsAny(lower, hardConstraintCues) {
		kind = domain.KindHardConstraint
		priority = domain.PriorityHardConstraint
	} else if scope == domain.ScopeDateSpecific {
		priority = domain.PriorityDateSpecific
	}

	boundaryHour, boundaryTime, err := it.extractBoundary(lower)
	if err != nil {
		return domain.Constraint{}, err
	}

	rule := domain.RuleAfter
	for _, r := range ruleCascade {
		if containsAny(lower, r.phrases) {
			rule = r.rule
			break
		}
	}

	return domain.Constraint{
		Kind:         kind,
		Scope:        scope,
		ScopeDate:    scopeDate,
		Rule:         rule,
		BoundaryHour: boundaryHour,
		BoundaryTime: boundaryTime,
		OriginalText: text,
		Priority:     priority,
	}, nil
}

func (it *Interpreter) resolveScope(lower string, stored *time.Time) (domain.ConstraintScope, time.Time) {
	switch {
	case strings.Contains(lower, "tomorrow"):
		if stored != nil {
			return domain.ScopeDateSpecific, dateOnly(*stored)
		}
		return domain.ScopeDateSpecific, dateOnly(it.cfg.Now().AddDate(0, 0, 1))
	case strings.Contains(lower, "today"):
		// "today" always resolves against the current clock, even when a
		// stored scope date exists.
		return domain.ScopeDateSpecific, dateOnly(it.cfg.Now())
	case stored != nil:
		return domain.ScopeDateSpecific, dateOnly(*stored)
	}
	return domain.ScopeGlobal, time.Time{}
}

// extractBoundary finds a time mention and normalizes it to 24-hour form.
// Minutes are kept for display only; the hour drives all comparisons.
func (it *Interpreter) extractBoundary(lower string) (int, string, error) {
	m := timePattern.FindStringSubmatch(lower)
	if m == nil {
		hour, minute, ok := parseClock(it.cfg.DefaultBoundary)
		if !ok {
			return 0, "", ErrBoundaryOutOfRange
		}
		return hour, fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	period := m[3]

	// Bare hours without am/pm lean pm: small hours are evening
	// ("after 2" means 14:00), 8-12 sits at the workday boundary and is
	// read as pm too. Anything above 12 is already 24-hour.
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
		return 0, "", ErrBoundaryOutOfRange
	}

	return hour, fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// parseClock splits an "HH:MM" string into hour and minute.
func parseClock(t string) (hour, minute int, ok bool) {
	if _, err := fmt.Sscanf(t, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// dateOnly truncates a timestamp to midnight of its calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

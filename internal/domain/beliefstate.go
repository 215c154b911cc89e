package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultProposalFloorHour is the business-hours floor for proposed times.
// A not_after constraint proposes one hour before its boundary, never
// earlier than this.
const DefaultProposalFloorHour = 9

// ConflictPair is an unordered pair of constraints that cannot both hold.
type ConflictPair struct {
	A Constraint `json:"a"`
	B Constraint `json:"b"`
}

// BeliefState is the full set of a user's scheduling constraints,
// queryable per date. It is rebuilt from stored preference text on every
// reasoning request and never shared across requests. Duplicates are
// allowed; repeated statements are not deduplicated.
type BeliefState struct {
	Constraints []Constraint

	// ProposalFloorHour overrides DefaultProposalFloorHour when positive.
	ProposalFloorHour int
}

func NewBeliefState(constraints []Constraint) BeliefState {
	return BeliefState{Constraints: constraints}
}

func (b BeliefState) floor() int {
	if b.ProposalFloorHour > 0 {
		return b.ProposalFloorHour
	}
	return DefaultProposalFloorHour
}

// ActiveConstraints returns the constraints that apply to date, sorted by
// priority descending. The sort is stable: equal priorities keep their
// original relative order.
func (b BeliefState) ActiveConstraints(date time.Time) []Constraint {
	var active []Constraint
	for _, c := range b.Constraints {
		if c.AppliesTo(date) {
			active = append(active, c)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})
	return active
}

// DetectConflicts returns every conflicting pair of active constraints for
// date, in scan order (outer index ascending, inner index ascending). Each
// unordered pair is tested once.
func (b BeliefState) DetectConflicts(date time.Time) []ConflictPair {
	active := b.ActiveConstraints(date)
	var conflicts []ConflictPair
	for i, c1 := range active {
		for _, c2 := range active[i+1:] {
			if c1.ConflictsWith(c2, date) {
				conflicts = append(conflicts, ConflictPair{A: c1, B: c2})
			}
		}
	}
	return conflicts
}

// ProposeTime returns a single "HH:MM" time satisfying every active
// constraint for date, or ok=false when there is nothing to propose:
// no active constraints, an unresolved conflict, or no satisfying time.
//
// Constraints are applied in priority order and each after/not_after
// constraint overwrites the running proposal, so the last one visited wins
// the literal value. Conflicts are never resolved by priority here;
// priority only decides which constraints get quoted first in
// explanations.
func (b BeliefState) ProposeTime(date time.Time) (string, bool) {
	active := b.ActiveConstraints(date)
	if len(active) == 0 {
		return "", false
	}

	if len(b.DetectConflicts(date)) > 0 {
		return "", false
	}

	proposed := ""
	for _, c := range active {
		switch c.Rule {
		case RuleAfter:
			proposed = c.BoundaryTime
		case RuleNotAfter:
			// One hour before the limit, floored at business hours.
			hour := c.BoundaryHour - 1
			if floor := b.floor(); hour < floor {
				hour = floor
			}
			proposed = fmt.Sprintf("%02d:00", hour)
		}
	}

	if proposed == "" {
		return "", false
	}

	// The greedy pass above can land on a time an earlier constraint
	// rejects. Never emit an invalid proposal.
	for _, c := range active {
		if !c.Satisfies(proposed) {
			return "", false
		}
	}

	return proposed, true
}

// ExplainReasoning produces a user-facing justification for the outcome of
// ProposeTime. Pass the proposed time, or "" when no proposal was made.
func (b BeliefState) ExplainReasoning(date time.Time, proposed string) string {
	active := b.ActiveConstraints(date)

	if len(active) == 0 {
		return "I don't have any scheduling preferences for this date."
	}

	if proposed == "" {
		if conflicts := b.DetectConflicts(date); len(conflicts) > 0 {
			return fmt.Sprintf(
				"I found conflicting preferences:\n- %q\n- %q\n\nWhich should I prioritize?",
				conflicts[0].A.OriginalText, conflicts[0].B.OriginalText,
			)
		}
		return "I couldn't find a time that satisfies all your preferences."
	}

	reasons := make([]string, 0, 2)
	for _, c := range active {
		reasons = append(reasons, "- "+c.OriginalText)
		if len(reasons) == 2 {
			break
		}
	}
	return fmt.Sprintf("I chose %s because:\n%s", proposed, strings.Join(reasons, "\n"))
}

package domain

import (
	"fmt"
	"time"
)

type ConstraintKind string

const (
	KindPreference     ConstraintKind = "preference"
	KindHardConstraint ConstraintKind = "hard_constraint"
)

type ConstraintScope string

const (
	ScopeGlobal       ConstraintScope = "global"
	ScopeDateSpecific ConstraintScope = "date_specific"
)

type ConstraintRule string

const (
	RuleAfter     ConstraintRule = "after"
	RuleBefore    ConstraintRule = "before"
	RuleNotAfter  ConstraintRule = "not_after"
	RuleNotBefore ConstraintRule = "not_before"
)

// Priority levels derived from kind and scope. Used only as a sort key.
const (
	PriorityHardConstraint = 100
	PriorityDateSpecific   = 50
	PriorityGlobal         = 10
)

func ValidConstraintRule(r string) bool {
	switch ConstraintRule(r) {
	case RuleAfter, RuleBefore, RuleNotAfter, RuleNotBefore:
		return true
	}
	return false
}

// Constraint is a structured belief about a scheduling boundary, derived
// from a single user statement. Constraints are immutable once built;
// reinterpreting a statement produces a new Constraint.
//
// Comparisons (ConflictsWith, Satisfies) operate on BoundaryHour only.
// Minutes are kept in BoundaryTime for display and proposals but never
// participate in conflict or satisfaction checks.
type Constraint struct {
	Kind         ConstraintKind  `json:"kind"`
	Scope        ConstraintScope `json:"scope"`
	ScopeDate    time.Time       `json:"scope_date,omitempty"` // date only; zero when Scope is global
	Rule         ConstraintRule  `json:"rule"`
	BoundaryHour int             `json:"boundary_hour"` // 0-23
	BoundaryTime string          `json:"boundary_time"` // "HH:MM"
	OriginalText string          `json:"original_text"`
	Priority     int             `json:"priority"`
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AppliesTo reports whether the constraint is active for the given date.
func (c Constraint) AppliesTo(date time.Time) bool {
	switch c.Scope {
	case ScopeGlobal:
		return true
	case ScopeDateSpecific:
		return SameDate(c.ScopeDate, date)
	}
	return false
}

// ConflictsWith reports whether two constraints are logically incompatible
// for the given date. Only directly opposing rule pairs can conflict:
//
//	after(h1)      vs not_after(h2)  → conflict iff h1 >= h2
//	before(h1)     vs not_before(h2) → conflict iff h1 <= h2
//
// Two constraints with the same rule never conflict; the tighter bound
// simply dominates.
func (c Constraint) ConflictsWith(other Constraint, date time.Time) bool {
	if !c.AppliesTo(date) || !other.AppliesTo(date) {
		return false
	}

	switch {
	case c.Rule == RuleAfter && other.Rule == RuleNotAfter:
		return c.BoundaryHour >= other.BoundaryHour
	case c.Rule == RuleNotAfter && other.Rule == RuleAfter:
		return other.BoundaryHour >= c.BoundaryHour
	case c.Rule == RuleBefore && other.Rule == RuleNotBefore:
		return c.BoundaryHour <= other.BoundaryHour
	case c.Rule == RuleNotBefore && other.Rule == RuleBefore:
		return other.BoundaryHour <= c.BoundaryHour
	}

	return false
}

// Satisfies reports whether a candidate "HH:MM" time honors the constraint.
// The candidate's minutes are ignored; only whole hours are compared.
func (c Constraint) Satisfies(candidate string) bool {
	hour, ok := HourOf(candidate)
	if !ok {
		return false
	}

	switch c.Rule {
	case RuleAfter:
		return hour >= c.BoundaryHour
	case RuleNotAfter:
		return hour < c.BoundaryHour
	case RuleBefore:
		return hour <= c.BoundaryHour
	case RuleNotBefore:
		return hour > c.BoundaryHour
	}
	return true
}

// HourOf extracts the hour component of an "HH:MM" string. The whole
// string must be a valid wall-clock time, minutes included.
func HourOf(t string) (int, bool) {
	var hour, minute int
	if _, err := fmt.Sscanf(t, "%d:%d", &hour, &minute); err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour, true
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sundialhq/sundial/internal/domain"
)

var fixedNow = time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)

func testInterpreter() *Interpreter {
	return NewInterpreter(InterpreterConfig{
		Now: func() time.Time { return fixedNow },
	})
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantKind     domain.ConstraintKind
		wantRule     domain.ConstraintRule
		wantHour     int
		wantTime     string
		wantPriority int
	}{
		{
			name:     "soft preference after a time",
			text:     "I prefer meetings after 2pm",
			wantKind: domain.KindPreference, wantRule: domain.RuleAfter,
			wantHour: 14, wantTime: "14:00", wantPriority: domain.PriorityGlobal,
		},
		{
			name:     "hate promotes to hard constraint",
			text:     "I hate meetings after 6pm",
			wantKind: domain.KindHardConstraint, wantRule: domain.RuleNotAfter,
			wantHour: 18, wantTime: "18:00", wantPriority: domain.PriorityHardConstraint,
		},
		{
			name:     "no meetings after morning boundary",
			text:     "No meetings after 9am",
			wantKind: domain.KindHardConstraint, wantRule: domain.RuleNotAfter,
			wantHour: 9, wantTime: "09:00", wantPriority: domain.PriorityHardConstraint,
		},
		{
			name:     "before reads as a ceiling",
			text:     "meetings before 5pm work best",
			wantKind: domain.KindPreference, wantRule: domain.RuleNotAfter,
			wantHour: 17, wantTime: "17:00", wantPriority: domain.PriorityGlobal,
		},
		{
			name:     "no later than",
			text:     "schedule it no later than 4pm",
			wantKind: domain.KindPreference, wantRule: domain.RuleNotAfter,
			wantHour: 16, wantTime: "16:00", wantPriority: domain.PriorityGlobal,
		},
		{
			name:     "bare hour leans pm",
			text:     "after 2 is fine",
			wantKind: domain.KindPreference, wantRule: domain.RuleAfter,
			wantHour: 14, wantTime: "14:00", wantPriority: domain.PriorityGlobal,
		},
		{
			name:     "minutes kept for display",
			text:     "after 2:30",
			wantKind: domain.KindPreference, wantRule: domain.RuleAfter,
			wantHour: 14, wantTime: "14:30", wantPriority: domain.PriorityGlobal,
		},
		{
			name:     "12am is midnight",
			text:     "no meetings after 12am",
			wantKind: domain.KindHardConstraint, wantRule: domain.RuleNotAfter,
			wantHour: 0, wantTime: "00:00", wantPriority: domain.PriorityHardConstraint,
		},
		{
			name:     "24-hour input passes through",
			text:     "after 18:00",
			wantKind: domain.KindPreference, wantRule: domain.RuleAfter,
			wantHour: 18, wantTime: "18:00", wantPriority: domain.PriorityGlobal,
		},
		{
			name:     "no time mention uses the default boundary",
			text:     "I don't like evening calls",
			wantKind: domain.KindHardConstraint, wantRule: domain.RuleAfter,
			wantHour: 18, wantTime: "18:00", wantPriority: domain.PriorityHardConstraint,
		},
	}

	it := testInterpreter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := it.Interpret(tt.text, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, c.Kind)
			assert.Equal(t, tt.wantRule, c.Rule)
			assert.Equal(t, tt.wantHour, c.BoundaryHour)
			assert.Equal(t, tt.wantTime, c.BoundaryTime)
			assert.Equal(t, tt.wantPriority, c.Priority)
			assert.Equal(t, tt.text, c.OriginalText, "original text must be preserved verbatim")
		})
	}
}

func TestInterpretScope(t *testing.T) {
	it := testInterpreter()
	stored := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

	t.Run("no cue and no stored date is global", func(t *testing.T) {
		c, err := it.Interpret("I prefer meetings after 2pm", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeGlobal, c.Scope)
		assert.True(t, c.ScopeDate.IsZero())
	})

	t.Run("tomorrow without stored date resolves against the clock", func(t *testing.T) {
		c, err := it.Interpret("meetings after 2pm tomorrow", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeDateSpecific, c.Scope)
		assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), c.ScopeDate)
		assert.Equal(t, domain.PriorityDateSpecific, c.Priority)
	})

	t.Run("tomorrow prefers the stored date", func(t *testing.T) {
		c, err := it.Interpret("meetings after 2pm tomorrow", &stored)
		require.NoError(t, err)
		assert.Equal(t, stored, c.ScopeDate)
	})

	t.Run("today ignores the stored date", func(t *testing.T) {
		c, err := it.Interpret("no meetings after 3pm today", &stored)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), c.ScopeDate)
	})

	t.Run("stored date without cue is date specific", func(t *testing.T) {
		c, err := it.Interpret("I prefer meetings after 2pm", &stored)
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeDateSpecific, c.Scope)
		assert.Equal(t, stored, c.ScopeDate)
	})
}

func TestInterpretErrors(t *testing.T) {
	it := testInterpreter()

	t.Run("empty text", func(t *testing.T) {
		_, err := it.Interpret("   ", nil)
		assert.ErrorIs(t, err, ErrPreferenceTextEmpty)
	})

	t.Run("hour out of range", func(t *testing.T) {
		_, err := it.Interpret("after 25:00", nil)
		assert.ErrorIs(t, err, ErrBoundaryOutOfRange)
	})
}

func TestInterpretDefaultBoundaryOverride(t *testing.T) {
	it := NewInterpreter(InterpreterConfig{
		DefaultBoundary: "17:30",
		Now:             func() time.Time { return fixedNow },
	})

	c, err := it.Interpret("keep my afternoons light", nil)
	require.NoError(t, err)
	assert.Equal(t, 17, c.BoundaryHour)
	assert.Equal(t, "17:30", c.BoundaryTime)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sundialhq/sundial/internal/domain"
	"go.uber.org/zap"
)

const clarifyAskForTime = "What time would you like for this meeting?"

// ReasoningService runs one scheduling decision per call: build the
// belief state, then land on exactly one of proposed / conflict /
// no-preference / no-satisfying-time. No state survives between calls.
type ReasoningService struct {
	beliefs *BeliefService
	logger  *zap.Logger
}

func NewReasoningService(beliefs *BeliefService, logger *zap.Logger) *ReasoningService {
	return &ReasoningService{beliefs: beliefs, logger: logger}
}

// Schedule decides a time for the user on the target date. An explicit
// time stated by the user bypasses reasoning entirely and is used
// verbatim.
func (s *ReasoningService) Schedule(ctx context.Context, userID uuid.UUID, date time.Time, explicitTime string) (*domain.Decision, error) {
	if explicitTime != "" {
		return &domain.Decision{
			Outcome:      domain.OutcomeProposed,
			TargetDate:   date,
			ProposedTime: explicitTime,
		}, nil
	}

	bs, err := s.beliefs.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	decision := Decide(bs, date)
	s.logger.Info("reasoning decision",
		zap.String("user_id", userID.String()),
		zap.String("outcome", string(decision.Outcome)),
		zap.String("proposed_time", decision.ProposedTime),
	)
	return decision, nil
}

// Decide evaluates a belief state for a date. Split out from Schedule so
// the state machine is testable without a store.
func Decide(bs domain.BeliefState, date time.Time) *domain.Decision {
	active := bs.ActiveConstraints(date)
	if len(active) == 0 {
		return &domain.Decision{
			Outcome:       domain.OutcomeNoPreference,
			TargetDate:    date,
			Clarification: clarifyAskForTime,
		}
	}

	if conflicts := bs.DetectConflicts(date); len(conflicts) > 0 {
		first := conflicts[0]
		return &domain.Decision{
			Outcome:    domain.OutcomeConflict,
			TargetDate: date,
			Conflicts:  conflicts,
			Clarification: fmt.Sprintf(
				"I found conflicting preferences:\n- %q\n- %q\n\nWhich should I prioritize for %s?",
				first.A.OriginalText, first.B.OriginalText, date.Format("January 2"),
			),
		}
	}

	proposed, ok := bs.ProposeTime(date)
	if !ok {
		lines := make([]string, 0, 3)
		for _, c := range active {
			lines = append(lines, "- "+c.OriginalText)
			if len(lines) == 3 {
				break
			}
		}
		return &domain.Decision{
			Outcome:    domain.OutcomeNoSatisfyingTime,
			TargetDate: date,
			Clarification: fmt.Sprintf(
				"I'm having trouble finding a time that satisfies:\n%s\n\nWhat time would work best?",
				strings.Join(lines, "\n"),
			),
		}
	}

	return &domain.Decision{
		Outcome:      domain.OutcomeProposed,
		TargetDate:   date,
		ProposedTime: proposed,
		Explanation:  bs.ExplainReasoning(date, proposed),
	}
}

// ActiveConstraints exposes the per-date constraint view for API callers.
func (s *ReasoningService) ActiveConstraints(ctx context.Context, userID uuid.UUID, date time.Time) ([]domain.Constraint, error) {
	bs, err := s.beliefs.Build(ctx, userID)
	if err != nil {
		return nil, err
	}
	return bs.ActiveConstraints(date), nil
}

// Conflicts exposes the per-date conflict pairs for API callers.
func (s *ReasoningService) Conflicts(ctx context.Context, userID uuid.UUID, date time.Time) ([]domain.ConflictPair, error) {
	bs, err := s.beliefs.Build(ctx, userID)
	if err != nil {
		return nil, err
	}
	return bs.DetectConflicts(date), nil
}

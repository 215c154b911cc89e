package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sundialhq/sundial/internal/domain"
	"go.uber.org/zap"
)

// BeliefService projects a user's stored preference text into a fresh
// BeliefState. Nothing is cached: every call re-reads the store and
// re-interprets every statement, so the belief state is always a pure
// function of what is currently stored.
type BeliefService struct {
	prefStore domain.PreferenceStore
	interp    *Interpreter
	floorHour int
	logger    *zap.Logger
}

func NewBeliefService(ps domain.PreferenceStore, interp *Interpreter, floorHour int, logger *zap.Logger) *BeliefService {
	return &BeliefService{
		prefStore: ps,
		interp:    interp,
		floorHour: floorHour,
		logger:    logger,
	}
}

// Build loads the user's preferences newest-first and interprets each one.
// Statements the interpreter rejects are logged and skipped; one bad entry
// never aborts the build. Build performs no writes.
func (s *BeliefService) Build(ctx context.Context, userID uuid.UUID) (domain.BeliefState, error) {
	prefs, err := s.prefStore.ListByUser(ctx, userID)
	if err != nil {
		return domain.BeliefState{}, fmt.Errorf("load preferences: %w", err)
	}

	constraints := make([]domain.Constraint, 0, len(prefs))
	for _, p := range prefs {
		c, err := s.interp.Interpret(p.Value, p.ScopeDate)
		if err != nil {
			s.logger.Warn("skipping unparseable preference",
				zap.String("preference_id", p.ID.String()),
				zap.String("value", p.Value),
				zap.Error(err),
			)
			continue
		}
		constraints = append(constraints, c)
	}

	bs := domain.NewBeliefState(constraints)
	bs.ProposalFloorHour = s.floorHour
	return bs, nil
}

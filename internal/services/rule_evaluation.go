package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/rules"
)

// RuleEvaluationService runs one registry of rules for a client at a given
// logical timestamp. Each rule is evaluated independently so one broken
// detector never silences the others; failures come back joined.
type RuleEvaluationService interface {
	EvaluateEventBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) ([]rules.Outcome, error)
	EvaluateTimeBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) ([]rules.Outcome, error)
}

type ruleEvaluationService struct {
	evaluator *rules.Evaluator
	log       *logger.Logger
}

func NewRuleEvaluationService(evaluator *rules.Evaluator, baseLog *logger.Logger) RuleEvaluationService {
	return &ruleEvaluationService{
		evaluator: evaluator,
		log:       baseLog.With("service", "RuleEvaluationService"),
	}
}

func (s *ruleEvaluationService) EvaluateEventBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) ([]rules.Outcome, error) {
	return s.evaluateList(ctx, rules.EventBasedRules, clientID, requestedAt)
}

func (s *ruleEvaluationService) EvaluateTimeBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) ([]rules.Outcome, error) {
	return s.evaluateList(ctx, rules.TimeBasedRules, clientID, requestedAt)
}

func (s *ruleEvaluationService) evaluateList(ctx context.Context, constructors []rules.Constructor, clientID uuid.UUID, requestedAt time.Time) ([]rules.Outcome, error) {
	outcomes := make([]rules.Outcome, 0, len(constructors))
	var errs []error
	for _, construct := range constructors {
		rule := construct(s.evaluator.Deps(), clientID, requestedAt)
		out, err := s.evaluator.Evaluate(ctx, rule)
		if err != nil {
			s.log.Error("Rule evaluation failed", "rule", rule.Title(), "client_id", clientID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", rule.Title(), err))
			continue
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, errors.Join(errs...)
}

package rules

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// Gate names the check that stopped an evaluation.
type Gate string

const (
	GateSubscription Gate = "subscription"
	GateDiaryExists  Gate = "diary_exists"
	GateCooldown     Gate = "cooldown"
	GatePrecondition Gate = "precondition"
	GatePassed       Gate = "passed"
)

// Outcome records what a single rule evaluation did.
type Outcome struct {
	Rule      string
	ClientID  uuid.UUID
	Triggered bool
	Gate      Gate
}

// PushSender delivers a best-effort push message after a trigger has been
// persisted. Implementations absorb delivery failures.
type PushSender interface {
	SendRuleTriggered(ctx context.Context, clientID uuid.UUID, title, message string) error
}

// Evaluator runs the gate sequence for one rule and commits the side
// effects of a full pass: trigger-log row, notification, then push. The
// push runs strictly after persistence so a delivery failure can never lose
// the detection.
type Evaluator struct {
	deps          Deps
	notifications repos.NotificationRepo
	push          PushSender
	log           *logger.Logger
}

func NewEvaluator(deps Deps, notifications repos.NotificationRepo, push PushSender, baseLog *logger.Logger) *Evaluator {
	return &Evaluator{
		deps:          deps,
		notifications: notifications,
		push:          push,
		log:           baseLog.With("component", "RuleEvaluator"),
	}
}

func (ev *Evaluator) Deps() Deps {
	return ev.deps
}

// Evaluate runs subscription, diary-exists, cooldown and precondition
// checks in order, short-circuiting without side effects on the first
// failure. Gate failures are not errors; a missing catalog row is.
func (ev *Evaluator) Evaluate(ctx context.Context, r Rule) (Outcome, error) {
	out := Outcome{Rule: r.Title(), ClientID: r.ClientID()}

	row, err := r.Row(ctx)
	if err != nil {
		return out, err
	}

	subscribed, err := ev.deps.Rules.SubscriptionActive(ctx, nil, row.ID, r.ClientID())
	if err != nil {
		return out, err
	}
	if !subscribed {
		out.Gate = GateSubscription
		return out, nil
	}

	hasEntries, err := ev.deps.Diaries.HasEntries(ctx, nil, r.ClientID())
	if err != nil {
		return out, err
	}
	if !hasEntries {
		out.Gate = GateDiaryExists
		return out, nil
	}

	allowed, err := r.TriggeringAllowed(ctx)
	if err != nil {
		return out, err
	}
	if !allowed {
		out.Gate = GateCooldown
		return out, nil
	}

	met, err := r.EvaluatePreconditions(ctx)
	if err != nil {
		return out, err
	}
	if !met {
		out.Gate = GatePrecondition
		return out, nil
	}

	if _, err := ev.deps.TriggerLogs.Create(ctx, nil, &domain.RuleTriggeredLog{
		RuleID:      row.ID,
		ClientID:    r.ClientID(),
		RequestedAt: r.RequestedAt(),
	}); err != nil {
		return out, err
	}
	if _, err := ev.notifications.Create(ctx, nil, &domain.Notification{
		ClientID: r.ClientID(),
		RuleID:   row.ID,
		Message:  row.ConclusionMessage,
	}); err != nil {
		return out, err
	}

	out.Triggered = true
	out.Gate = GatePassed
	ev.log.Info("Rule triggered", "rule", r.Title(), "client_id", r.ClientID(), "requested_at", r.RequestedAt())

	if ev.push != nil {
		if err := ev.push.SendRuleTriggered(ctx, r.ClientID(), row.Title, row.ConclusionMessage); err != nil {
			// Persistence already happened; push is fire-and-forget here.
			ev.log.Warn("Push delivery failed after trigger", "rule", r.Title(), "client_id", r.ClientID(), "error", err)
		}
	}
	return out, nil
}

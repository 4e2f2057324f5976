package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
)

func TestEvaluatorGateOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	requested := day(2026, time.August, 24).Add(10 * time.Hour)

	row := h.store.seedRule(TitleActivityWithPeakMood, h.clientID)

	// Inactive subscription stops before anything else.
	if err := h.deps.Rules.SetSubscriptionActive(ctx, nil, row.ID, h.clientID, false); err != nil {
		t.Fatalf("deactivate subscription: %v", err)
	}
	out, err := h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Triggered || out.Gate != GateSubscription {
		t.Fatalf("expected subscription gate, got %+v", out)
	}

	// Active subscription but no entries stops at the diary gate.
	if _, err := h.deps.Rules.Subscribe(ctx, nil, row.ID, h.clientID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	out, err = h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Triggered || out.Gate != GateDiaryExists {
		t.Fatalf("expected diary gate, got %+v", out)
	}

	// An entry below peak mood stops at the precondition.
	h.entry(day(2026, time.August, 24), 8*time.Hour, 9*time.Hour, newMood(2), nil, requested.Add(-time.Hour))
	out, err = h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if out.Triggered || out.Gate != GatePrecondition {
		t.Fatalf("expected precondition gate, got %+v", out)
	}

	if len(h.store.logs) != 0 || len(h.store.notifications) != 0 || h.push.calls != 0 {
		t.Fatalf("gate stops must have no side effects: logs=%d notifications=%d pushes=%d",
			len(h.store.logs), len(h.store.notifications), h.push.calls)
	}
}

func TestEvaluatorCommitsTriggerAndNotification(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	requested := day(2026, time.August, 24).Add(10 * time.Hour)

	row := h.store.seedRule(TitleActivityWithPeakMood, h.clientID)
	h.entry(day(2026, time.August, 24), 8*time.Hour, 9*time.Hour, newMood(domain.MoodMaxValue), nil, requested.Add(-time.Hour))

	out, err := h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !out.Triggered || out.Gate != GatePassed {
		t.Fatalf("expected trigger, got %+v", out)
	}

	if len(h.store.logs) != 1 {
		t.Fatalf("expected 1 trigger log, got %d", len(h.store.logs))
	}
	log := h.store.logs[0]
	if log.RuleID != row.ID || log.ClientID != h.clientID {
		t.Fatalf("trigger log bound wrong: %+v", log)
	}
	if !log.RequestedAt.Equal(requested) {
		t.Fatalf("trigger log must carry the logical timestamp, got %v want %v", log.RequestedAt, requested)
	}

	if len(h.store.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(h.store.notifications))
	}
	if h.store.notifications[0].Message != row.ConclusionMessage {
		t.Fatalf("notification message %q, want catalog conclusion %q", h.store.notifications[0].Message, row.ConclusionMessage)
	}
	if h.push.calls != 1 {
		t.Fatalf("expected 1 push, got %d", h.push.calls)
	}
}

func TestEvaluatorReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	requested := day(2026, time.August, 24).Add(10 * time.Hour)

	h.store.seedRule(TitleRelaxingActivity, h.clientID)
	relax := newActivity("Meditation", domain.CategoryRelaxationValue)
	h.entry(day(2026, time.August, 24), 8*time.Hour, 9*time.Hour, nil, relax, requested.Add(-time.Hour))

	first, err := h.evaluator.Evaluate(ctx, NewRelaxingActivityRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	if !first.Triggered {
		t.Fatalf("expected first run to trigger, got %+v", first)
	}

	// Re-delivery of the same request hits the cooldown via the log.
	second, err := h.evaluator.Evaluate(ctx, NewRelaxingActivityRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if second.Triggered || second.Gate != GateCooldown {
		t.Fatalf("expected cooldown on replay, got %+v", second)
	}
	if len(h.store.logs) != 1 || len(h.store.notifications) != 1 {
		t.Fatalf("replay must not duplicate side effects: logs=%d notifications=%d", len(h.store.logs), len(h.store.notifications))
	}
}

func TestEvaluatorCooldownFreeRuleRefires(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.store.seedRule(TitleActivityWithPeakMood, h.clientID)
	first := day(2026, time.August, 24).Add(10 * time.Hour)
	h.entry(day(2026, time.August, 24), 8*time.Hour, 9*time.Hour, newMood(domain.MoodMaxValue), nil, first.Add(-time.Hour))

	if out, err := h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, first)); err != nil || !out.Triggered {
		t.Fatalf("first evaluation: out=%+v err=%v", out, err)
	}

	// A later edit re-fires: the rule carries no cooldown.
	second := first.Add(2 * time.Hour)
	h.entry(day(2026, time.August, 24), 11*time.Hour, 12*time.Hour, newMood(domain.MoodMaxValue), nil, second.Add(-time.Minute))
	if out, err := h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, second)); err != nil || !out.Triggered {
		t.Fatalf("second evaluation: out=%+v err=%v", out, err)
	}
	if len(h.store.logs) != 2 {
		t.Fatalf("expected 2 trigger logs, got %d", len(h.store.logs))
	}
}

func TestEvaluatorPushFailureKeepsTrigger(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	requested := day(2026, time.August, 24).Add(10 * time.Hour)

	h.store.seedRule(TitleActivityWithPeakMood, h.clientID)
	h.entry(day(2026, time.August, 24), 8*time.Hour, 9*time.Hour, newMood(domain.MoodMaxValue), nil, requested.Add(-time.Hour))
	h.push.fail = errors.New("endpoint down")

	out, err := h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, requested))
	if err != nil {
		t.Fatalf("push failure must not fail the evaluation: %v", err)
	}
	if !out.Triggered {
		t.Fatalf("expected trigger, got %+v", out)
	}
	if len(h.store.logs) != 1 || len(h.store.notifications) != 1 {
		t.Fatalf("persistence must survive push failure: logs=%d notifications=%d", len(h.store.logs), len(h.store.notifications))
	}
}

func TestEvaluatorMissingCatalogRow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	requested := day(2026, time.August, 24).Add(10 * time.Hour)

	_, err := h.evaluator.Evaluate(ctx, NewActivityWithPeakMoodRule(h.deps, h.clientID, requested))
	if !errors.Is(err, repos.ErrRuleNotSeeded) {
		t.Fatalf("expected ErrRuleNotSeeded, got %v", err)
	}
}

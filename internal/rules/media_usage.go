package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

const (
	highMediaUsageThreshold = 6 * time.Hour
	lowMediaUsageThreshold  = 30 * time.Minute
)

// mediaUsageBase shares the daily cooldown and the media duration sum
// between the high and low usage rules.
type mediaUsageBase struct {
	base
}

func (r *mediaUsageBase) TriggeringAllowed(ctx context.Context) (bool, error) {
	return r.notTriggeredSince(ctx, BeginningOfDay(r.requestedAt))
}

func (r *mediaUsageBase) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	return r.deps.Diaries.EntriesOnDate(ctx, nil, r.clientID, DateOf(r.requestedAt))
}

func (r *mediaUsageBase) mediaDuration(ctx context.Context) (time.Duration, int, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return 0, 0, err
	}
	media := filterByCategory(entries, domain.CategoryMediaUsageValue)
	return sumDurations(media), len(media), nil
}

// HighMediaUsagePerDayRule fires when media entries on the evaluation day
// sum to at least six hours. No media entries means nothing to warn about.
type HighMediaUsagePerDayRule struct {
	mediaUsageBase
}

func NewHighMediaUsagePerDayRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &HighMediaUsagePerDayRule{mediaUsageBase{newBase(deps, TitleHighMediaUsagePerDay, clientID, requestedAt)}}
}

func (r *HighMediaUsagePerDayRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	sum, n, err := r.mediaDuration(ctx)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	return sum >= highMediaUsageThreshold, nil
}

// LowMediaUsagePerDayRule fires when media usage stayed at or under 30
// minutes. A day without any media entries counts as low usage.
type LowMediaUsagePerDayRule struct {
	mediaUsageBase
}

func NewLowMediaUsagePerDayRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &LowMediaUsagePerDayRule{mediaUsageBase{newBase(deps, TitleLowMediaUsagePerDay, clientID, requestedAt)}}
}

func (r *LowMediaUsagePerDayRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	sum, n, err := r.mediaDuration(ctx)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return true, nil
	}
	return sum <= lowMediaUsageThreshold, nil
}

package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

const (
	// WHO recommendation band the weekly rules reason over.
	weeklyPhysicalActivityMinimum = 150 * time.Minute
	weeklyPhysicalActivityMaximum = 300 * time.Minute
)

// PhysicalActivityPerWeekRule fires once per ISO week when the client's
// physical activity in the current week reaches 150 minutes.
type PhysicalActivityPerWeekRule struct {
	base
}

func NewPhysicalActivityPerWeekRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &PhysicalActivityPerWeekRule{newBase(deps, TitlePhysicalActivityPerWeek, clientID, requestedAt)}
}

func (r *PhysicalActivityPerWeekRule) TriggeringAllowed(ctx context.Context) (bool, error) {
	return r.notTriggeredSince(ctx, BeginningOfWeek(r.requestedAt))
}

func (r *PhysicalActivityPerWeekRule) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	weekStart := DateOf(BeginningOfWeek(r.requestedAt))
	return r.deps.Diaries.EntriesBetweenDates(ctx, nil, r.clientID, weekStart, DateOf(r.requestedAt))
}

func (r *PhysicalActivityPerWeekRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	physical := filterByCategory(entries, domain.CategoryPhysicalActivityValue)
	if len(physical) == 0 {
		return false, nil
	}
	return sumDurations(physical) >= weeklyPhysicalActivityMinimum, nil
}

// PhysicalActivityPerWeekIncreasingRule fires on the last day of the ISO
// week, once per week, when the current week's physical activity exceeds
// the previous week's while staying within the recommended maximum.
type PhysicalActivityPerWeekIncreasingRule struct {
	base
}

func NewPhysicalActivityPerWeekIncreasingRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &PhysicalActivityPerWeekIncreasingRule{newBase(deps, TitlePhysicalActivityPerWeekIncreasing, clientID, requestedAt)}
}

func (r *PhysicalActivityPerWeekIncreasingRule) TriggeringAllowed(ctx context.Context) (bool, error) {
	if !IsLastDayOfWeek(r.requestedAt) {
		return false, nil
	}
	return r.notTriggeredSince(ctx, BeginningOfWeek(r.requestedAt))
}

func (r *PhysicalActivityPerWeekIncreasingRule) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	previousWeekStart := DateOf(BeginningOfWeek(r.requestedAt.AddDate(0, 0, -7)))
	return r.deps.Diaries.EntriesBetweenDates(ctx, nil, r.clientID, previousWeekStart, DateOf(r.requestedAt))
}

func (r *PhysicalActivityPerWeekIncreasingRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	physical := filterByCategory(entries, domain.CategoryPhysicalActivityValue)
	if len(physical) == 0 {
		return false, nil
	}

	currentWeekStart := DateOf(BeginningOfWeek(r.requestedAt))
	var previousSum, currentSum time.Duration
	var previousCount, currentCount int
	for _, e := range physical {
		day := DateOf(e.Date)
		if day.Before(currentWeekStart) {
			previousSum += e.Duration()
			previousCount++
		} else {
			currentSum += e.Duration()
			currentCount++
		}
	}
	// A week without any physical entries has no sum to compare against.
	if previousCount == 0 || currentCount == 0 {
		return false, nil
	}
	if currentSum > weeklyPhysicalActivityMaximum {
		return false, nil
	}
	return currentSum > previousSum, nil
}

package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

const (
	foodIntakeWindowDays    = 3
	foodIntakeMealsExpected = 3
)

// UnsteadyFoodIntakeRule fires at most once per three days when no day in
// the trailing three-day window reaches three logged meals. Days without
// any food entries count as unsteady.
type UnsteadyFoodIntakeRule struct {
	base
}

func NewUnsteadyFoodIntakeRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &UnsteadyFoodIntakeRule{newBase(deps, TitleUnsteadyFoodIntake, clientID, requestedAt)}
}

func (r *UnsteadyFoodIntakeRule) windowStart() time.Time {
	return DateOf(r.requestedAt).AddDate(0, 0, -(foodIntakeWindowDays - 1))
}

func (r *UnsteadyFoodIntakeRule) TriggeringAllowed(ctx context.Context) (bool, error) {
	since := BeginningOfDay(r.requestedAt).AddDate(0, 0, -(foodIntakeWindowDays - 1))
	return r.notTriggeredSince(ctx, since)
}

func (r *UnsteadyFoodIntakeRule) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	return r.deps.Diaries.EntriesBetweenDates(ctx, nil, r.clientID, r.windowStart(), DateOf(r.requestedAt))
}

func (r *UnsteadyFoodIntakeRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	mealsPerDay := make(map[time.Time]int)
	for _, e := range filterByCategory(entries, domain.CategoryFoodValue) {
		mealsPerDay[DateOf(e.Date)]++
	}
	for _, count := range mealsPerDay {
		if count >= foodIntakeMealsExpected {
			return false, nil
		}
	}
	return true, nil
}

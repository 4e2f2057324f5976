package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

const (
	fourteenDayWindow        = 14
	fourteenDayLowDaysNeeded = 9
)

// fourteenDayBase shares the gating and window of the two trailing-14-day
// rules: the client must have entries on exactly 14 distinct days in the
// window and the rule must not have fired within it.
type fourteenDayBase struct {
	base
}

func (r *fourteenDayBase) windowStart() time.Time {
	return DateOf(r.requestedAt).AddDate(0, 0, -fourteenDayWindow)
}

func (r *fourteenDayBase) TriggeringAllowed(ctx context.Context) (bool, error) {
	days, err := r.deps.Diaries.CountDistinctEntryDatesAfter(ctx, nil, r.clientID, r.windowStart())
	if err != nil {
		return false, err
	}
	if days != fourteenDayWindow {
		return false, nil
	}
	return r.notTriggeredAfter(ctx, r.windowStart())
}

func (r *fourteenDayBase) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	return r.deps.Diaries.EntriesAfterDate(ctx, nil, r.clientID, r.windowStart())
}

// FourteenDayMoodAverageRule fires when at least 9 of the last 14 days
// have a mean mood below zero.
type FourteenDayMoodAverageRule struct {
	fourteenDayBase
}

func NewFourteenDayMoodAverageRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &FourteenDayMoodAverageRule{fourteenDayBase{newBase(deps, TitleFourteenDayMoodAverage, clientID, requestedAt)}}
}

func (r *FourteenDayMoodAverageRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	means, days, err := meanMoodPerDay(entries)
	if err != nil {
		return false, err
	}
	low := 0
	for _, day := range days {
		if means[day] < 0 {
			low++
		}
	}
	return low >= fourteenDayLowDaysNeeded, nil
}

// FourteenDayMoodMaximumRule fires when the best mood in the last 14 days
// stayed below 1.
type FourteenDayMoodMaximumRule struct {
	fourteenDayBase
}

func NewFourteenDayMoodMaximumRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &FourteenDayMoodMaximumRule{fourteenDayBase{newBase(deps, TitleFourteenDayMoodMaximum, clientID, requestedAt)}}
}

func (r *FourteenDayMoodMaximumRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	max := 0
	for i, e := range entries {
		v, err := moodValue(e)
		if err != nil {
			return false, err
		}
		if i == 0 || v > max {
			max = v
		}
	}
	return max < 1, nil
}

// DailyAverageMoodImprovingRule fires once per day when today's mean mood
// beats yesterday's, requiring entries on both days.
type DailyAverageMoodImprovingRule struct {
	base
}

func NewDailyAverageMoodImprovingRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &DailyAverageMoodImprovingRule{newBase(deps, TitleDailyAverageMoodImproving, clientID, requestedAt)}
}

func (r *DailyAverageMoodImprovingRule) TriggeringAllowed(ctx context.Context) (bool, error) {
	return r.notTriggeredSince(ctx, BeginningOfDay(r.requestedAt))
}

func (r *DailyAverageMoodImprovingRule) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	today := DateOf(r.requestedAt)
	return r.deps.Diaries.EntriesBetweenDates(ctx, nil, r.clientID, today.AddDate(0, 0, -1), today)
}

func (r *DailyAverageMoodImprovingRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	means, days, err := meanMoodPerDay(entries)
	if err != nil {
		return false, err
	}
	if len(days) != 2 {
		return false, nil
	}
	return means[days[1]] > means[days[0]], nil
}

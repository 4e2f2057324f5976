package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

// ActivityWithPeakMoodRule fires when the entry last edited before the
// evaluation timestamp carries the top mood value. It has no cooldown, so
// it re-fires on every diary write while that entry stays the latest.
type ActivityWithPeakMoodRule struct {
	base
}

func NewActivityWithPeakMoodRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &ActivityWithPeakMoodRule{base: newBase(deps, TitleActivityWithPeakMood, clientID, requestedAt)}
}

func (r *ActivityWithPeakMoodRule) TriggeringAllowed(ctx context.Context) (bool, error) {
	return true, nil
}

func (r *ActivityWithPeakMoodRule) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	entry, err := r.latestEditedEntry(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return []*domain.MoodDiaryEntry{entry}, nil
}

func (r *ActivityWithPeakMoodRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	v, err := moodValue(entries[0])
	if err != nil {
		return false, err
	}
	return v == domain.MoodMaxValue, nil
}

// RelaxingActivityRule fires when the last edited entry's activity belongs
// to the relaxation category, at most once per day.
type RelaxingActivityRule struct {
	base
}

func NewRelaxingActivityRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &RelaxingActivityRule{base: newBase(deps, TitleRelaxingActivity, clientID, requestedAt)}
}

func (r *RelaxingActivityRule) TriggeringAllowed(ctx context.Context) (bool, error) {
	return r.notTriggeredSince(ctx, BeginningOfDay(r.requestedAt))
}

func (r *RelaxingActivityRule) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	entry, err := r.latestEditedEntry(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return []*domain.MoodDiaryEntry{entry}, nil
}

func (r *RelaxingActivityRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	entries, err := r.RelevantEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	return categoryValue(entries[0]) == domain.CategoryRelaxationValue, nil
}

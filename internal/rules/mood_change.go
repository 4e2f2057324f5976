package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

const moodChangeThreshold = 2

// moodChangeBase finds the pair the two change rules compare: the entry
// last edited at or before the evaluation timestamp and the entry that
// ended most recently before it. Entries logging the same activity form no
// valid pair - the rules look for a change *between* activities.
type moodChangeBase struct {
	base
}

// RelevantEntries returns either an empty slice or the pair ordered most
// recently ended first.
func (r *moodChangeBase) RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error) {
	latest, err := r.latestEditedEntry(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	previous, err := r.deps.Diaries.LatestEntryEndingBefore(ctx, nil, r.clientID, latest)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		return nil, nil
	}
	if latest.ActivityID == previous.ActivityID {
		return nil, nil
	}
	pair := []*domain.MoodDiaryEntry{latest, previous}
	if previous.EndsAt().After(latest.EndsAt()) {
		pair[0], pair[1] = pair[1], pair[0]
	}
	return pair, nil
}

func (r *moodChangeBase) TriggeringAllowed(ctx context.Context) (bool, error) {
	return true, nil
}

// moodDelta is mood(most recently ended) - mood(the one before).
func (r *moodChangeBase) moodDelta(ctx context.Context) (int, bool, error) {
	pair, err := r.RelevantEntries(ctx)
	if err != nil {
		return 0, false, err
	}
	if len(pair) != 2 {
		return 0, false, nil
	}
	recent, err := moodValue(pair[0])
	if err != nil {
		return 0, false, err
	}
	earlier, err := moodValue(pair[1])
	if err != nil {
		return 0, false, err
	}
	return recent - earlier, true, nil
}

// PositiveMoodChangeBetweenActivitiesRule fires when the mood jumped by at
// least the threshold between the two most recent distinct activities.
type PositiveMoodChangeBetweenActivitiesRule struct {
	moodChangeBase
}

func NewPositiveMoodChangeBetweenActivitiesRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &PositiveMoodChangeBetweenActivitiesRule{moodChangeBase{newBase(deps, TitlePositiveMoodChangeBetweenActivities, clientID, requestedAt)}}
}

func (r *PositiveMoodChangeBetweenActivitiesRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	delta, ok, err := r.moodDelta(ctx)
	if err != nil || !ok {
		return false, err
	}
	return delta >= moodChangeThreshold, nil
}

// NegativeMoodChangeBetweenActivitiesRule is the mirror image: a drop of
// at least the threshold.
type NegativeMoodChangeBetweenActivitiesRule struct {
	moodChangeBase
}

func NewNegativeMoodChangeBetweenActivitiesRule(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule {
	return &NegativeMoodChangeBetweenActivitiesRule{moodChangeBase{newBase(deps, TitleNegativeMoodChangeBetweenActivities, clientID, requestedAt)}}
}

func (r *NegativeMoodChangeBetweenActivitiesRule) EvaluatePreconditions(ctx context.Context) (bool, error) {
	delta, ok, err := r.moodDelta(ctx)
	if err != nil || !ok {
		return false, err
	}
	return delta <= -moodChangeThreshold, nil
}

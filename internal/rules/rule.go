package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// Rule is one detectable behavioral pattern, bound to a client and a
// logical evaluation timestamp at construction time. The timestamp is
// passed in rather than read from the wall clock so the same message can be
// replayed deterministically on any worker.
type Rule interface {
	Title() string
	ClientID() uuid.UUID
	RequestedAt() time.Time

	// Row is the persisted catalog row for this rule's title, looked up
	// once per evaluation. A missing row is a seeding defect and returns
	// repos.ErrRuleNotSeeded.
	Row(ctx context.Context) (*domain.Rule, error)

	// TriggeringAllowed is the cooldown gate, derived from the trigger log
	// alone - never from process state.
	TriggeringAllowed(ctx context.Context) (bool, error)

	// RelevantEntries is the entry subset the precondition reasons over.
	RelevantEntries(ctx context.Context) ([]*domain.MoodDiaryEntry, error)

	// EvaluatePreconditions is the pattern test itself.
	EvaluatePreconditions(ctx context.Context) (bool, error)
}

// Deps bundles the stores every rule reads from.
type Deps struct {
	Diaries     repos.DiaryRepo
	Rules       repos.RuleRepo
	TriggerLogs repos.TriggerLogRepo
	Log         *logger.Logger
}

// Constructor builds one rule instance for an evaluation request; the two
// registry lists are ordered slices of these.
type Constructor func(deps Deps, clientID uuid.UUID, requestedAt time.Time) Rule

// base carries the per-evaluation state shared by all rules, including the
// memoized catalog row. The memo is scoped to a single rule instance, i.e.
// one evaluation, so long-lived workers never serve a stale row.
type base struct {
	deps        Deps
	title       string
	clientID    uuid.UUID
	requestedAt time.Time
	row         *domain.Rule
}

func newBase(deps Deps, title string, clientID uuid.UUID, requestedAt time.Time) base {
	return base{deps: deps, title: title, clientID: clientID, requestedAt: requestedAt}
}

func (b *base) Title() string          { return b.title }
func (b *base) ClientID() uuid.UUID    { return b.clientID }
func (b *base) RequestedAt() time.Time { return b.requestedAt }

func (b *base) Row(ctx context.Context) (*domain.Rule, error) {
	if b.row != nil {
		return b.row, nil
	}
	row, err := b.deps.Rules.GetByTitle(ctx, nil, b.title)
	if err != nil {
		return nil, err
	}
	b.row = row
	return row, nil
}

// notTriggeredSince reports that no trigger-log row with
// requested_at >= since exists for this rule and client.
func (b *base) notTriggeredSince(ctx context.Context, since time.Time) (bool, error) {
	row, err := b.Row(ctx)
	if err != nil {
		return false, err
	}
	triggered, err := b.deps.TriggerLogs.TriggeredSince(ctx, nil, row.ID, b.clientID, since)
	if err != nil {
		return false, err
	}
	return !triggered, nil
}

// notTriggeredAfter is the strict variant (requested_at > after).
func (b *base) notTriggeredAfter(ctx context.Context, after time.Time) (bool, error) {
	row, err := b.Row(ctx)
	if err != nil {
		return false, err
	}
	triggered, err := b.deps.TriggerLogs.TriggeredAfter(ctx, nil, row.ID, b.clientID, after)
	if err != nil {
		return false, err
	}
	return !triggered, nil
}

// latestEditedEntry is the entry last modified at or before the evaluation
// timestamp, shared by the peak-mood, relaxing and mood-change rules.
func (b *base) latestEditedEntry(ctx context.Context) (*domain.MoodDiaryEntry, error) {
	return b.deps.Diaries.LatestEntryEditedAtOrBefore(ctx, nil, b.clientID, b.requestedAt)
}

func moodValue(e *domain.MoodDiaryEntry) (int, error) {
	if e.Mood == nil {
		return 0, fmt.Errorf("entry %s has no mood loaded", e.ID)
	}
	return e.Mood.Value, nil
}

func categoryValue(e *domain.MoodDiaryEntry) string {
	if e.Activity == nil || e.Activity.Category == nil {
		return ""
	}
	return e.Activity.Category.Value
}

func filterByCategory(entries []*domain.MoodDiaryEntry, category string) []*domain.MoodDiaryEntry {
	var out []*domain.MoodDiaryEntry
	for _, e := range entries {
		if categoryValue(e) == category {
			out = append(out, e)
		}
	}
	return out
}

func sumDurations(entries []*domain.MoodDiaryEntry) time.Duration {
	var sum time.Duration
	for _, e := range entries {
		sum += e.Duration()
	}
	return sum
}

// meanMoodPerDay groups entries by calendar date and averages their mood
// values. Dates come back sorted ascending.
func meanMoodPerDay(entries []*domain.MoodDiaryEntry) (map[time.Time]float64, []time.Time, error) {
	sums := make(map[time.Time]int)
	counts := make(map[time.Time]int)
	for _, e := range entries {
		v, err := moodValue(e)
		if err != nil {
			return nil, nil, err
		}
		day := DateOf(e.Date)
		sums[day] += v
		counts[day]++
	}
	means := make(map[time.Time]float64, len(sums))
	days := make([]time.Time, 0, len(sums))
	for day, sum := range sums {
		means[day] = float64(sum) / float64(counts[day])
		days = append(days, day)
	}
	for i := 0; i < len(days); i++ {
		for j := i + 1; j < len(days); j++ {
			if days[j].Before(days[i]) {
				days[i], days[j] = days[j], days[i]
			}
		}
	}
	return means, days, nil
}

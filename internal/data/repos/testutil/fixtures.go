package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, identifier string) *domain.Client {
	tb.Helper()
	granted := true
	c := &domain.Client{
		ID:                       uuid.New(),
		Identifier:               identifier,
		Active:                   true,
		PushNotificationsGranted: &granted,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func SeedDiary(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID) *domain.MoodDiary {
	tb.Helper()
	d := &domain.MoodDiary{
		ID:       uuid.New(),
		ClientID: clientID,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed diary: %v", err)
	}
	return d
}

func SeedMood(tb testing.TB, ctx context.Context, tx *gorm.DB, value int) *domain.Mood {
	tb.Helper()
	m := &domain.Mood{Value: value, Label: "mood"}
	err := tx.WithContext(ctx).
		Where("value = ?", value).
		FirstOrCreate(m).Error
	if err != nil {
		tb.Fatalf("seed mood %d: %v", value, err)
	}
	return m
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, category, value string) *domain.Activity {
	tb.Helper()
	cat := &domain.ActivityCategory{}
	err := tx.WithContext(ctx).
		Where(&domain.ActivityCategory{Value: category}).
		FirstOrCreate(cat).Error
	if err != nil {
		tb.Fatalf("seed category %q: %v", category, err)
	}
	a := &domain.Activity{CategoryID: cat.ID, Value: value}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity %q: %v", value, err)
	}
	a.Category = cat
	return a
}

// EntrySpec describes a fixture diary entry; zero values get sensible
// defaults.
type EntrySpec struct {
	Date      time.Time
	StartTime time.Duration
	EndTime   time.Duration
	Mood      *domain.Mood
	Activity  *domain.Activity
	UpdatedAt time.Time
}

func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, diaryID uuid.UUID, spec EntrySpec) *domain.MoodDiaryEntry {
	tb.Helper()
	if spec.EndTime == 0 {
		spec.EndTime = spec.StartTime + time.Hour
	}
	if spec.UpdatedAt.IsZero() {
		spec.UpdatedAt = time.Now().UTC()
	}
	e := &domain.MoodDiaryEntry{
		ID:          uuid.New(),
		MoodDiaryID: diaryID,
		Date:        spec.Date,
		StartTime:   spec.StartTime,
		EndTime:     spec.EndTime,
		MoodID:      spec.Mood.ID,
		ActivityID:  spec.Activity.ID,
		CreatedAt:   spec.UpdatedAt,
		UpdatedAt:   spec.UpdatedAt,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	e.Mood = spec.Mood
	e.Activity = spec.Activity
	return e
}

func SeedRule(tb testing.TB, ctx context.Context, tx *gorm.DB, title, evaluation string) *domain.Rule {
	tb.Helper()
	r := &domain.Rule{
		ID:                       uuid.New(),
		Title:                    title,
		PreconditionsDescription: "preconditions",
		Criterion:                domain.RuleCriterionThreshold,
		Evaluation:               evaluation,
		ConclusionMessage:        "conclusion for " + title,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rule %q: %v", title, err)
	}
	return r
}

func SubscribeRule(tb testing.TB, ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, active bool) *domain.RuleClient {
	tb.Helper()
	rc := &domain.RuleClient{
		ID:       uuid.New(),
		RuleID:   ruleID,
		ClientID: clientID,
		Active:   active,
	}
	if err := tx.WithContext(ctx).Create(rc).Error; err != nil {
		tb.Fatalf("subscribe rule: %v", err)
	}
	return rc
}

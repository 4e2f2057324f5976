package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/data/repos/testutil"
	"github.com/yungbote/mooddiary-backend/internal/domain"
)

func midnight(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetOrCreateDiaryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "diary-idempotent")
	first, err := repo.GetOrCreateDiary(ctx, tx, client.ID)
	if err != nil {
		t.Fatalf("first get-or-create: %v", err)
	}
	second, err := repo.GetOrCreateDiary(ctx, tx, client.ID)
	if err != nil {
		t.Fatalf("second get-or-create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeat calls must return the same diary: %s vs %s", first.ID, second.ID)
	}
}

func TestEntriesBetweenDatesIsInclusive(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "between-dates")
	diary := testutil.SeedDiary(t, ctx, tx, client.ID)
	mood := testutil.SeedMood(t, ctx, tx, 0)
	activity := testutil.SeedActivity(t, ctx, tx, "Other", "Walking")

	for d := 10; d <= 14; d++ {
		testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
			Date: midnight(2026, time.August, d), StartTime: 8 * time.Hour,
			Mood: mood, Activity: activity,
		})
	}

	entries, err := repo.EntriesBetweenDates(ctx, tx, client.ID, midnight(2026, time.August, 11), midnight(2026, time.August, 13))
	if err != nil {
		t.Fatalf("entries between: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].Date.Equal(midnight(2026, time.August, 11)) || !entries[2].Date.Equal(midnight(2026, time.August, 13)) {
		t.Fatalf("both bounds must be included: %v .. %v", entries[0].Date, entries[2].Date)
	}
	if entries[0].Activity == nil || entries[0].Activity.Category == nil {
		t.Fatalf("activity and category must be preloaded")
	}
}

func TestEntriesScopedToClient(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	mood := testutil.SeedMood(t, ctx, tx, 0)
	activity := testutil.SeedActivity(t, ctx, tx, "Other", "Walking")

	a := testutil.SeedClient(t, ctx, tx, "scoped-a")
	b := testutil.SeedClient(t, ctx, tx, "scoped-b")
	diaryA := testutil.SeedDiary(t, ctx, tx, a.ID)
	testutil.SeedDiary(t, ctx, tx, b.ID)
	testutil.SeedEntry(t, ctx, tx, diaryA.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 24), StartTime: 8 * time.Hour,
		Mood: mood, Activity: activity,
	})

	has, err := repo.HasEntries(ctx, tx, b.ID)
	if err != nil {
		t.Fatalf("has entries: %v", err)
	}
	if has {
		t.Fatalf("client B must not see client A's entries")
	}
	if has, err = repo.HasEntries(ctx, tx, a.ID); err != nil || !has {
		t.Fatalf("client A must see its own entries: has=%v err=%v", has, err)
	}
}

func TestLatestEntryEndingBeforeCrossesDays(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "ending-before")
	diary := testutil.SeedDiary(t, ctx, tx, client.ID)
	mood := testutil.SeedMood(t, ctx, tx, 0)
	activity := testutil.SeedActivity(t, ctx, tx, "Other", "Walking")

	// Yesterday evening, this morning, and the reference at noon.
	evening := testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 23), StartTime: 21 * time.Hour, EndTime: 23 * time.Hour,
		Mood: mood, Activity: activity,
	})
	morning := testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 24), StartTime: 8 * time.Hour, EndTime: 9 * time.Hour,
		Mood: mood, Activity: activity,
	})
	ref := testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 24), StartTime: 12 * time.Hour, EndTime: 13 * time.Hour,
		Mood: mood, Activity: activity,
	})

	got, err := repo.LatestEntryEndingBefore(ctx, tx, client.ID, ref)
	if err != nil {
		t.Fatalf("ending before: %v", err)
	}
	if got == nil || got.ID != morning.ID {
		t.Fatalf("expected the morning entry, got %+v", got)
	}

	// With the reference being the morning entry, yesterday evening wins.
	got, err = repo.LatestEntryEndingBefore(ctx, tx, client.ID, morning)
	if err != nil {
		t.Fatalf("ending before: %v", err)
	}
	if got == nil || got.ID != evening.ID {
		t.Fatalf("expected yesterday's evening entry, got %+v", got)
	}
}

func TestLatestEntryEditedAtOrBefore(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "edited-before")
	diary := testutil.SeedDiary(t, ctx, tx, client.ID)
	mood := testutil.SeedMood(t, ctx, tx, 0)
	activity := testutil.SeedActivity(t, ctx, tx, "Other", "Walking")

	cutoff := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	older := testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 24), StartTime: 8 * time.Hour,
		Mood: mood, Activity: activity, UpdatedAt: cutoff.Add(-time.Hour),
	})
	testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 24), StartTime: 14 * time.Hour,
		Mood: mood, Activity: activity, UpdatedAt: cutoff.Add(time.Hour),
	})

	got, err := repo.LatestEntryEditedAtOrBefore(ctx, tx, client.ID, cutoff)
	if err != nil {
		t.Fatalf("edited before: %v", err)
	}
	if got == nil || got.ID != older.ID {
		t.Fatalf("edits after the timestamp must not count, got %+v", got)
	}
}

func TestCountDistinctEntryDates(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "distinct-dates")
	diary := testutil.SeedDiary(t, ctx, tx, client.ID)
	mood := testutil.SeedMood(t, ctx, tx, 0)
	activity := testutil.SeedActivity(t, ctx, tx, "Other", "Walking")

	// Two entries on the 22nd, one on the 23rd, one on the boundary day.
	for _, spec := range []testutil.EntrySpec{
		{Date: midnight(2026, time.August, 22), StartTime: 8 * time.Hour},
		{Date: midnight(2026, time.August, 22), StartTime: 12 * time.Hour},
		{Date: midnight(2026, time.August, 23), StartTime: 8 * time.Hour},
		{Date: midnight(2026, time.August, 21), StartTime: 8 * time.Hour},
	} {
		spec.Mood = mood
		spec.Activity = activity
		testutil.SeedEntry(t, ctx, tx, diary.ID, spec)
	}

	// Strictly after the 21st: two distinct dates.
	count, err := repo.CountDistinctEntryDatesAfter(ctx, tx, client.ID, midnight(2026, time.August, 21))
	if err != nil {
		t.Fatalf("count distinct: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct dates, got %d", count)
	}
}

func TestReleaseEntries(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := repos.NewDiaryRepo(gdb, testutil.Logger(t))

	client := testutil.SeedClient(t, ctx, tx, "release")
	diary := testutil.SeedDiary(t, ctx, tx, client.ID)
	mood := testutil.SeedMood(t, ctx, tx, 0)
	activity := testutil.SeedActivity(t, ctx, tx, "Other", "Walking")
	testutil.SeedEntry(t, ctx, tx, diary.ID, testutil.EntrySpec{
		Date: midnight(2026, time.August, 24), StartTime: 8 * time.Hour,
		Mood: mood, Activity: activity,
	})

	if err := repo.ReleaseEntries(ctx, tx, client.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	var released int64
	if err := tx.Model(&domain.MoodDiaryEntry{}).
		Where("mood_diary_id = ? AND released = ?", diary.ID, true).
		Count(&released).Error; err != nil {
		t.Fatalf("count released: %v", err)
	}
	if released != 1 {
		t.Fatalf("expected 1 released entry, got %d", released)
	}
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/rules"
)

// RuleDispatcher hands rule evaluation requests to the async task layer.
// The logical timestamp travels with the request so retries re-evaluate the
// same moment instead of drifting with the wall clock.
type RuleDispatcher interface {
	DispatchEventBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) error
	DispatchTimeBased(ctx context.Context, clientID uuid.UUID, requestedAt time.Time) error
}

// lastSegmentEnd caps the first and middle segments of a split entry at
// 23:59 of their day.
const lastSegmentEnd = 24*time.Hour - time.Minute

// EntryInput is a diary entry as the client submits it: an absolute time
// range plus the mood and activity references.
type EntryInput struct {
	Start      time.Time
	End        time.Time
	MoodID     uuid.UUID
	ActivityID uuid.UUID
	Details    *string
}

var (
	ErrEntryRangeInvalid = errors.New("entry end must be after start")
	ErrEntryIncomplete   = errors.New("entry requires mood and activity")
)

// DiaryService is the write path for diary entries. Every successful write
// requests an event-based rule evaluation stamped with the row's updated_at,
// which the evaluator later uses as its logical timestamp.
type DiaryService interface {
	CreateEntry(ctx context.Context, clientID uuid.UUID, in EntryInput) ([]*domain.MoodDiaryEntry, error)
	UpdateEntry(ctx context.Context, clientID uuid.UUID, entry *domain.MoodDiaryEntry) error
	ReleaseEntries(ctx context.Context, clientID uuid.UUID) error
}

type diaryService struct {
	diaries    repos.DiaryRepo
	dispatcher RuleDispatcher
	log        *logger.Logger
}

func NewDiaryService(diaries repos.DiaryRepo, dispatcher RuleDispatcher, baseLog *logger.Logger) DiaryService {
	return &diaryService{
		diaries:    diaries,
		dispatcher: dispatcher,
		log:        baseLog.With("service", "DiaryService"),
	}
}

// CreateEntry persists the submitted range, split at midnight so no stored
// entry ever spans more than one calendar day, then requests an event-based
// evaluation.
func (s *diaryService) CreateEntry(ctx context.Context, clientID uuid.UUID, in EntryInput) ([]*domain.MoodDiaryEntry, error) {
	if !in.End.After(in.Start) {
		return nil, ErrEntryRangeInvalid
	}
	if in.MoodID == uuid.Nil || in.ActivityID == uuid.Nil {
		return nil, ErrEntryIncomplete
	}

	diary, err := s.diaries.GetOrCreateDiary(ctx, nil, clientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entries := splitEntry(diary.ID, in, now)
	created, err := s.diaries.CreateEntries(ctx, nil, entries)
	if err != nil {
		return nil, err
	}
	s.log.Info("Diary entries created", "client_id", clientID, "count", len(created))

	if err := s.dispatcher.DispatchEventBased(ctx, clientID, now); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateEntry saves the edited entry and requests a fresh event-based
// evaluation stamped with the edit time.
func (s *diaryService) UpdateEntry(ctx context.Context, clientID uuid.UUID, entry *domain.MoodDiaryEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	if err := s.diaries.UpdateEntry(ctx, nil, entry); err != nil {
		return err
	}
	return s.dispatcher.DispatchEventBased(ctx, clientID, entry.UpdatedAt)
}

// ReleaseEntries shares all of the client's entries with their counselor.
func (s *diaryService) ReleaseEntries(ctx context.Context, clientID uuid.UUID) error {
	return s.diaries.ReleaseEntries(ctx, nil, clientID)
}

// splitEntry cuts the absolute range into per-day segments: the first day
// runs from the start offset to 23:59, middle days cover 00:00-23:59 and
// the last day ends at the submitted end offset.
func splitEntry(diaryID uuid.UUID, in EntryInput, now time.Time) []*domain.MoodDiaryEntry {
	var out []*domain.MoodDiaryEntry

	startDay := rules.DateOf(in.Start)
	endDay := rules.DateOf(in.End)
	endOffset := in.End.Sub(endDay)

	// An end at exactly midnight belongs to the previous day.
	if endOffset == 0 {
		endDay = endDay.AddDate(0, 0, -1)
		endOffset = lastSegmentEnd
	}

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		segment := &domain.MoodDiaryEntry{
			MoodDiaryID: diaryID,
			Date:        day,
			StartTime:   0,
			EndTime:     lastSegmentEnd,
			MoodID:      in.MoodID,
			ActivityID:  in.ActivityID,
			Details:     in.Details,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if day.Equal(startDay) {
			segment.StartTime = in.Start.Sub(startDay)
		}
		if day.Equal(endDay) {
			segment.EndTime = endOffset
		}
		out = append(out, segment)
	}
	return out
}

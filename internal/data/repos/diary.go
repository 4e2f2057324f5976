package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// DiaryRepo is the read/write surface over mood diaries and their entries.
// The rule engine only reads; the diary write path creates and updates.
// All entry reads preload Mood and Activity.Category because the
// preconditions reason over mood values and category values.
type DiaryRepo interface {
	GetOrCreateDiary(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*domain.MoodDiary, error)
	HasEntries(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error)

	LatestEntryEditedAtOrBefore(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, ts time.Time) (*domain.MoodDiaryEntry, error)
	LatestEntryEndingBefore(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, ref *domain.MoodDiaryEntry) (*domain.MoodDiaryEntry, error)
	EntriesOnDate(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, date time.Time) ([]*domain.MoodDiaryEntry, error)
	EntriesBetweenDates(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*domain.MoodDiaryEntry, error)
	EntriesAfterDate(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, after time.Time) ([]*domain.MoodDiaryEntry, error)
	CountDistinctEntryDatesAfter(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, after time.Time) (int64, error)

	CreateEntries(ctx context.Context, tx *gorm.DB, entries []*domain.MoodDiaryEntry) ([]*domain.MoodDiaryEntry, error)
	UpdateEntry(ctx context.Context, tx *gorm.DB, entry *domain.MoodDiaryEntry) error
	ReleaseEntries(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error
}

type diaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiaryRepo(db *gorm.DB, baseLog *logger.Logger) DiaryRepo {
	return &diaryRepo{db: db, log: baseLog.With("repo", "DiaryRepo")}
}

func (r *diaryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *diaryRepo) GetOrCreateDiary(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*domain.MoodDiary, error) {
	conn := r.conn(tx)
	var diary domain.MoodDiary
	err := conn.WithContext(ctx).
		Where(&domain.MoodDiary{ClientID: clientID}).
		First(&diary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		diary = domain.MoodDiary{ClientID: clientID}
		if err := conn.WithContext(ctx).Create(&diary).Error; err != nil {
			return nil, err
		}
		return &diary, nil
	}
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

func (r *diaryRepo) HasEntries(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.entryQuery(ctx, tx, clientID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// entryQuery scopes entries to one client through the diary join.
func (r *diaryRepo) entryQuery(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) *gorm.DB {
	return r.conn(tx).WithContext(ctx).
		Model(&domain.MoodDiaryEntry{}).
		Joins("JOIN diaries_mood_diaries ON diaries_mood_diaries.id = diaries_mood_diary_entries.mood_diary_id").
		Where("diaries_mood_diaries.client_id = ?", clientID)
}

func (r *diaryRepo) entryQueryPreloaded(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) *gorm.DB {
	return r.entryQuery(ctx, tx, clientID).
		Preload("Mood").
		Preload("Activity").
		Preload("Activity.Category")
}

func (r *diaryRepo) LatestEntryEditedAtOrBefore(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, ts time.Time) (*domain.MoodDiaryEntry, error) {
	var entry domain.MoodDiaryEntry
	err := r.entryQueryPreloaded(ctx, tx, clientID).
		Where("diaries_mood_diary_entries.updated_at <= ?", ts).
		Order("diaries_mood_diary_entries.updated_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// LatestEntryEndingBefore returns the entry that ended most recently at or
// before the reference entry's end, the reference itself excluded. Ordering
// anchors end times on their calendar date so entries compare correctly
// across days.
func (r *diaryRepo) LatestEntryEndingBefore(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, ref *domain.MoodDiaryEntry) (*domain.MoodDiaryEntry, error) {
	var entries []*domain.MoodDiaryEntry
	err := r.entryQueryPreloaded(ctx, tx, clientID).
		Where("diaries_mood_diary_entries.date <= ?", ref.Date).
		Where("diaries_mood_diary_entries.id <> ?", ref.ID).
		Order("diaries_mood_diary_entries.date DESC, diaries_mood_diary_entries.end_time DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	refEnd := ref.EndsAt()
	var best *domain.MoodDiaryEntry
	for _, e := range entries {
		if e.EndsAt().After(refEnd) {
			continue
		}
		if best == nil || e.EndsAt().After(best.EndsAt()) {
			best = e
		}
	}
	return best, nil
}

func (r *diaryRepo) EntriesOnDate(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, date time.Time) ([]*domain.MoodDiaryEntry, error) {
	var entries []*domain.MoodDiaryEntry
	err := r.entryQueryPreloaded(ctx, tx, clientID).
		Where("diaries_mood_diary_entries.date = ?", date).
		Order("diaries_mood_diary_entries.start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepo) EntriesBetweenDates(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*domain.MoodDiaryEntry, error) {
	var entries []*domain.MoodDiaryEntry
	err := r.entryQueryPreloaded(ctx, tx, clientID).
		Where("diaries_mood_diary_entries.date >= ? AND diaries_mood_diary_entries.date <= ?", from, to).
		Order("diaries_mood_diary_entries.date ASC, diaries_mood_diary_entries.start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepo) EntriesAfterDate(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, after time.Time) ([]*domain.MoodDiaryEntry, error) {
	var entries []*domain.MoodDiaryEntry
	err := r.entryQueryPreloaded(ctx, tx, clientID).
		Where("diaries_mood_diary_entries.date > ?", after).
		Order("diaries_mood_diary_entries.date ASC, diaries_mood_diary_entries.start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepo) CountDistinctEntryDatesAfter(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, after time.Time) (int64, error) {
	var count int64
	err := r.entryQuery(ctx, tx, clientID).
		Where("diaries_mood_diary_entries.date > ?", after).
		Distinct("diaries_mood_diary_entries.date").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *diaryRepo) CreateEntries(ctx context.Context, tx *gorm.DB, entries []*domain.MoodDiaryEntry) ([]*domain.MoodDiaryEntry, error) {
	if len(entries) == 0 {
		return []*domain.MoodDiaryEntry{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *diaryRepo) UpdateEntry(ctx context.Context, tx *gorm.DB, entry *domain.MoodDiaryEntry) error {
	return r.conn(tx).WithContext(ctx).Save(entry).Error
}

func (r *diaryRepo) ReleaseEntries(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Model(&domain.MoodDiaryEntry{}).
		Where("mood_diary_id IN (?)",
			r.conn(tx).Model(&domain.MoodDiary{}).Select("id").Where("client_id = ?", clientID)).
		Where("released = ?", false).
		Update("released", true).Error
}

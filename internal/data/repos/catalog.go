package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// CatalogRepo manages the static lookup tables: the mood scale and the
// activity taxonomy. Seeding writes them, the diary write path reads them.
type CatalogRepo interface {
	FirstOrCreateMood(ctx context.Context, tx *gorm.DB, value int, label string) (*domain.Mood, error)
	ListMoods(ctx context.Context, tx *gorm.DB) ([]*domain.Mood, error)

	FirstOrCreateCategory(ctx context.Context, tx *gorm.DB, value string) (*domain.ActivityCategory, error)
	FirstOrCreateActivity(ctx context.Context, tx *gorm.DB, category, value string) (*domain.Activity, error)
	ListActivities(ctx context.Context, tx *gorm.DB) ([]*domain.Activity, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *catalogRepo) FirstOrCreateMood(ctx context.Context, tx *gorm.DB, value int, label string) (*domain.Mood, error) {
	mood := &domain.Mood{Value: value, Label: label}
	// String condition: a struct condition would drop value 0 as a zero
	// value and match an arbitrary row.
	err := r.conn(tx).WithContext(ctx).
		Where("value = ?", value).
		Assign(&domain.Mood{Label: label}).
		FirstOrCreate(mood).Error
	if err != nil {
		return nil, err
	}
	return mood, nil
}

func (r *catalogRepo) ListMoods(ctx context.Context, tx *gorm.DB) ([]*domain.Mood, error) {
	var moods []*domain.Mood
	err := r.conn(tx).WithContext(ctx).Order("value asc").Find(&moods).Error
	if err != nil {
		return nil, err
	}
	return moods, nil
}

func (r *catalogRepo) FirstOrCreateCategory(ctx context.Context, tx *gorm.DB, value string) (*domain.ActivityCategory, error) {
	category := &domain.ActivityCategory{Value: value}
	err := r.conn(tx).WithContext(ctx).
		Where(&domain.ActivityCategory{Value: value}).
		FirstOrCreate(category).Error
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *catalogRepo) FirstOrCreateActivity(ctx context.Context, tx *gorm.DB, category, value string) (*domain.Activity, error) {
	cat, err := r.FirstOrCreateCategory(ctx, tx, category)
	if err != nil {
		return nil, err
	}
	activity := &domain.Activity{CategoryID: cat.ID, Value: value}
	err = r.conn(tx).WithContext(ctx).
		Where(&domain.Activity{CategoryID: cat.ID, Value: value}).
		FirstOrCreate(activity).Error
	if err != nil {
		return nil, err
	}
	activity.Category = cat
	return activity, nil
}

func (r *catalogRepo) ListActivities(ctx context.Context, tx *gorm.DB) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	err := r.conn(tx).WithContext(ctx).Preload("Category").Order("value asc").Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

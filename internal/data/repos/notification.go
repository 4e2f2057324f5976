package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *domain.Notification) (*domain.Notification, error)
	ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*domain.Notification, error)
	CountUnviewed(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *domain.Notification) (*domain.Notification, error) {
	if err := r.conn(tx).WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (r *notificationRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := r.conn(tx).WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) CountUnviewed(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&domain.Notification{}).
		Where("client_id = ? AND viewed = ?", clientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

type PushSubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sub *domain.PushSubscription) (*domain.PushSubscription, error)
	ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*domain.PushSubscription, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type pushSubscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPushSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) PushSubscriptionRepo {
	return &pushSubscriptionRepo{db: db, log: baseLog.With("repo", "PushSubscriptionRepo")}
}

func (r *pushSubscriptionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *pushSubscriptionRepo) Create(ctx context.Context, tx *gorm.DB, sub *domain.PushSubscription) (*domain.PushSubscription, error) {
	if err := r.conn(tx).WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *pushSubscriptionRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*domain.PushSubscription, error) {
	var subs []*domain.PushSubscription
	err := r.conn(tx).WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *pushSubscriptionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Delete(&domain.PushSubscription{}, "id = ?", id).Error
}

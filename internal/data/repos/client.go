package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clients []*domain.Client) ([]*domain.Client, error)
	GetByID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*domain.Client, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*domain.Client, error)
	IsActive(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*domain.Client) ([]*domain.Client, error) {
	if len(clients) == 0 {
		return []*domain.Client{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) GetByID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.conn(tx).WithContext(ctx).
		Where("id = ?", clientID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*domain.Client, error) {
	var clients []*domain.Client
	err := r.conn(tx).WithContext(ctx).
		Where("active = ?", true).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) IsActive(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&domain.Client{}).
		Where("id = ? AND active = ?", clientID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

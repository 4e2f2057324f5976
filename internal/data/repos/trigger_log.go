package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// TriggerLogRepo is the append-only ledger behind every cooldown check.
// Both lookups filter on requested_at, the logical evaluation timestamp,
// never on insert wall clock (replay safety).
type TriggerLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, log *domain.RuleTriggeredLog) (*domain.RuleTriggeredLog, error)
	TriggeredSince(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, since time.Time) (bool, error)
	TriggeredAfter(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, after time.Time) (bool, error)
	ListByRuleAndClient(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) ([]*domain.RuleTriggeredLog, error)
}

type triggerLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTriggerLogRepo(db *gorm.DB, baseLog *logger.Logger) TriggerLogRepo {
	return &triggerLogRepo{db: db, log: baseLog.With("repo", "TriggerLogRepo")}
}

func (r *triggerLogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *triggerLogRepo) Create(ctx context.Context, tx *gorm.DB, log *domain.RuleTriggeredLog) (*domain.RuleTriggeredLog, error) {
	if err := r.conn(tx).WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

func (r *triggerLogRepo) TriggeredSince(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&domain.RuleTriggeredLog{}).
		Where("rule_id = ? AND client_id = ? AND requested_at >= ?", ruleID, clientID, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *triggerLogRepo) TriggeredAfter(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, after time.Time) (bool, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&domain.RuleTriggeredLog{}).
		Where("rule_id = ? AND client_id = ? AND requested_at > ?", ruleID, clientID, after).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *triggerLogRepo) ListByRuleAndClient(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) ([]*domain.RuleTriggeredLog, error) {
	var logs []*domain.RuleTriggeredLog
	err := r.conn(tx).WithContext(ctx).
		Where("rule_id = ? AND client_id = ?", ruleID, clientID).
		Order("requested_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

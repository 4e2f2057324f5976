package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// ErrRuleNotSeeded reports a registered rule title with no persisted row.
// This is a deployment defect (the seed step did not run), not a runtime
// condition to recover from.
var ErrRuleNotSeeded = errors.New("rule not seeded")

type RuleRepo interface {
	GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*domain.Rule, error)
	FirstOrCreateByTitle(ctx context.Context, tx *gorm.DB, rule *domain.Rule) (*domain.Rule, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Rule, error)

	SubscriptionActive(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) (bool, error)
	Subscribe(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) (*domain.RuleClient, error)
	SetSubscriptionActive(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, active bool) error
}

type ruleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRuleRepo(db *gorm.DB, baseLog *logger.Logger) RuleRepo {
	return &ruleRepo{db: db, log: baseLog.With("repo", "RuleRepo")}
}

func (r *ruleRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ruleRepo) GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*domain.Rule, error) {
	var rule domain.Rule
	err := r.conn(tx).WithContext(ctx).
		Where("title = ?", title).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrRuleNotSeeded, title)
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepo) FirstOrCreateByTitle(ctx context.Context, tx *gorm.DB, rule *domain.Rule) (*domain.Rule, error) {
	var existing domain.Rule
	err := r.conn(tx).WithContext(ctx).
		Where("title = ?", rule.Title).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.conn(tx).WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *ruleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Rule, error) {
	var rules []*domain.Rule
	err := r.conn(tx).WithContext(ctx).
		Order("title ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ruleRepo) SubscriptionActive(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&domain.RuleClient{}).
		Where("rule_id = ? AND client_id = ? AND active = ?", ruleID, clientID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ruleRepo) Subscribe(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) (*domain.RuleClient, error) {
	membership := &domain.RuleClient{RuleID: ruleID, ClientID: clientID, Active: true}
	if err := r.conn(tx).WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

func (r *ruleRepo) SetSubscriptionActive(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, active bool) error {
	return r.conn(tx).WithContext(ctx).
		Model(&domain.RuleClient{}).
		Where("rule_id = ? AND client_id = ?", ruleID, clientID).
		Update("active", active).Error
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rule criterion kinds.
const (
	RuleCriterionThreshold = "threshold"
	RuleCriterionChange    = "change"
)

// Rule evaluation kinds.
const (
	RuleEvaluationEventBased = "event-based"
	RuleEvaluationTimeBased  = "time-based"
)

// Rule is the persisted half of a pattern detector. The detection logic
// lives in the rules package and joins to this row by unique title; the row
// carries the client-facing texts and the subscription memberships.
type Rule struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title                    string    `gorm:"not null;uniqueIndex;column:title" json:"title"`
	PreconditionsDescription string    `gorm:"not null;column:preconditions_description" json:"preconditions_description"`
	Criterion                string    `gorm:"not null;column:criterion" json:"criterion"`
	Evaluation               string    `gorm:"not null;column:evaluation" json:"evaluation"`
	ConclusionMessage        string    `gorm:"not null;column:conclusion_message" json:"conclusion_message"`
	CreatedAt                time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Rule) TableName() string {
	return "rules_rules"
}

func (r *Rule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

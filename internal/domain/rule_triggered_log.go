package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleTriggeredLog is the append-only ledger of rule firings. RequestedAt
// is the logical evaluation timestamp the trigger was computed for, not the
// wall clock of the insert; cooldown checks filter on it so that queue
// redeliveries of the same message observe their own earlier firing.
type RuleTriggeredLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RuleID      uuid.UUID `gorm:"type:uuid;not null;index:idx_trigger_rule_client;column:rule_id" json:"rule_id"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index:idx_trigger_rule_client;column:client_id" json:"client_id"`
	RequestedAt time.Time `gorm:"not null;index;column:requested_at" json:"requested_at"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (RuleTriggeredLog) TableName() string {
	return "rules_triggered_logs"
}

func (l *RuleTriggeredLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleClient is a rule subscription membership. Deactivating keeps the row
// (and the client's trigger history) around, distinguishing "opted out"
// from "never opted in".
type RuleClient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RuleID    uuid.UUID `gorm:"type:uuid;not null;index:idx_rule_client,unique;column:rule_id" json:"rule_id"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index:idx_rule_client,unique;column:client_id" json:"client_id"`
	Active    bool      `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (RuleClient) TableName() string {
	return "rules_rules_clients"
}

func (rc *RuleClient) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}

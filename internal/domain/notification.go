package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is one in-app message produced by a rule trigger. The engine
// only ever creates rows; the viewed flag is flipped by the client-facing
// read surface.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index;column:client_id" json:"client_id"`
	RuleID    uuid.UUID `gorm:"type:uuid;not null;column:rule_id" json:"rule_id"`
	Message   string    `gorm:"not null;column:message" json:"message"`
	Viewed    bool      `gorm:"not null;default:false;column:viewed" json:"viewed"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications_notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PushSubscription is one browser push endpoint of a client. Raw keeps the
// subscription JSON exactly as the browser handed it over; the extracted
// columns are what the VAPID sender needs.
type PushSubscription struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  uuid.UUID      `gorm:"type:uuid;not null;index;column:client_id" json:"client_id"`
	Endpoint  string         `gorm:"not null;uniqueIndex;column:endpoint" json:"endpoint"`
	P256dhKey string         `gorm:"not null;column:p256dh_key" json:"p256dh_key"`
	AuthKey   string         `gorm:"not null;column:auth_key" json:"auth_key"`
	Raw       datatypes.JSON `gorm:"column:raw" json:"raw"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (PushSubscription) TableName() string {
	return "notifications_push_subscriptions"
}

func (s *PushSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a person executing the mood diary intervention. Counseling,
// auth and roles live outside this service; only the fields the rule
// engine and dispatch layer need are modeled here.
type Client struct {
	ID                        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Identifier                string    `gorm:"not null;column:identifier" json:"identifier"`
	Active                    bool      `gorm:"not null;default:true;column:active" json:"active"`
	PushNotificationsGranted  *bool     `gorm:"column:push_notifications_granted" json:"push_notifications_granted"`
	CreatedAt                 time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string {
	return "clients_clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

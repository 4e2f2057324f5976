package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is something a client can log time on, e.g. "Jogging".
type Activity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	Value      string    `gorm:"not null;column:value" json:"value"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Category *ActivityCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Activity) TableName() string {
	return "diaries_activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

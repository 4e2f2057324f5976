package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodDiary is the per-client container for diary entries, one per client.
type MoodDiary struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:client_id" json:"client_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (MoodDiary) TableName() string {
	return "diaries_mood_diaries"
}

func (d *MoodDiary) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodMaxValue is the top of the mood scale (-3..+3).
const MoodMaxValue = 3

// Mood is one step of the mood scale.
type Mood struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Value     int       `gorm:"not null;uniqueIndex;column:value" json:"value"`
	Label     string    `gorm:"not null;column:label" json:"label"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Mood) TableName() string {
	return "diaries_moods"
}

func (m *Mood) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Well-known category values the rules match on.
const (
	CategoryPhysicalActivityValue = "Physical Activity"
	CategoryRelaxationValue       = "Relaxation"
	CategoryMediaUsageValue       = "Media"
	CategoryFoodValue             = "Food"
)

// ActivityCategory groups activities, e.g. "Physical Activity".
type ActivityCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Value     string    `gorm:"not null;uniqueIndex;column:value" json:"value"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ActivityCategory) TableName() string {
	return "diaries_activity_categories"
}

func (c *ActivityCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

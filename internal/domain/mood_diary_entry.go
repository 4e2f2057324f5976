package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodDiaryEntry is one logged activity with its mood rating. Date is the
// calendar day the entry belongs to; StartTime and EndTime are offsets from
// midnight of that day. The write path guarantees an entry never spans more
// than one calendar day, so EndTime-StartTime is the activity duration.
type MoodDiaryEntry struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	MoodDiaryID uuid.UUID     `gorm:"type:uuid;not null;index;column:mood_diary_id" json:"mood_diary_id"`
	Released    bool          `gorm:"not null;default:false;column:released" json:"released"`
	Date        time.Time     `gorm:"type:date;not null;index;column:date" json:"date"`
	StartTime   time.Duration `gorm:"not null;column:start_time" json:"start_time"`
	EndTime     time.Duration `gorm:"not null;column:end_time" json:"end_time"`
	MoodID      uuid.UUID     `gorm:"type:uuid;not null;column:mood_id" json:"mood_id"`
	ActivityID  uuid.UUID     `gorm:"type:uuid;not null;column:activity_id" json:"activity_id"`
	Details     *string       `gorm:"column:details" json:"details"`
	CreatedAt   time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	// UpdatedAt is the logical edit timestamp the rule engine keys on; the
	// write path stamps it explicitly, so no autoUpdateTime here.
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Mood     *Mood     `gorm:"foreignKey:MoodID" json:"mood,omitempty"`
	Activity *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}

func (MoodDiaryEntry) TableName() string {
	return "diaries_mood_diary_entries"
}

func (e *MoodDiaryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Duration is the time spent on the entry's activity.
func (e *MoodDiaryEntry) Duration() time.Duration {
	return e.EndTime - e.StartTime
}

// EndsAt anchors the entry's end time on its calendar date, used to order
// entries across days.
func (e *MoodDiaryEntry) EndsAt() time.Time {
	return e.Date.Add(e.EndTime)
}

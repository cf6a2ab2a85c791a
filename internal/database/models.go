package database

import (
	"time"
)

// NotificationPreference records whether the adhan is played for one prayer
// at one location. Absent rows mean enabled.
type NotificationPreference struct {
	Location  string    `gorm:"primaryKey;column:location"`
	Prayer    string    `gorm:"primaryKey;column:prayer"`
	Enabled   bool      `gorm:"column:enabled;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for NotificationPreference
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

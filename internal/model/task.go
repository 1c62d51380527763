package model

import "time"

// Categories is the fixed set offered by the UI. Storage accepts any string,
// so this list is a convention, not a constraint.
var Categories = []string{"Home", "Work", "School", "Other"}

// NotificationLeadOptions are the lead times (minutes) the UI offers.
var NotificationLeadOptions = []int{0, 5, 10, 15, 30, 60}

// Task represents a single item on the to-do list.
type Task struct {
	ID                           uint `gorm:"primaryKey"`
	Title                        string
	Description                  string
	CreatedAt                    time.Time
	DueAt                        *time.Time `gorm:"index"`
	IsCompleted                  bool       `gorm:"default:false"`
	NotificationEnabled          bool       `gorm:"default:false"`
	NotificationMinutesInAdvance int        `gorm:"not null;default:0"`
	Category                     *string
	Attachments                  AttachmentList `gorm:"type:text"`
}

func (Task) TableName() string { return "tasks" }

package models

import (
	"time"

	"unimap/src/types"
)

// UserCalendar is one row per user: the external ICS source (if any), a
// feed token for read access without a session, and sync metadata.
type UserCalendar struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SourceLink string     `json:"source_link,omitempty"`
	Token      string     `gorm:"uniqueIndex" json:"token,omitempty"`
	LastSynced *time.Time `json:"last_synced,omitempty"`
	Enabled    bool       `gorm:"default:true" json:"enabled"`

	types.Timestamps
}

type CalendarEvent struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"index:idx_calendar_events_user_start,priority:1;uniqueIndex:calendar_event_uid" json:"user_id,omitempty"`
	SourceUID   *string   `gorm:"uniqueIndex:calendar_event_uid" json:"source_uid,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `gorm:"index:idx_calendar_events_user_start,priority:2" json:"start"`
	End         time.Time `json:"end"`

	types.Timestamps
}

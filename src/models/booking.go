package models

import "time"

// Booking holds a reservation claim on a room. Date is "2006-01-02" and the
// times are zero-padded "15:04", so lexical comparison of two times on the
// same date matches chronological order. The interval is half-open:
// [start_time, end_time).
//
// No soft delete here: the booking_slot unique index must stop matching a
// deleted row, otherwise the slot could never be booked again.
type Booking struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	RoomID    uint   `gorm:"uniqueIndex:booking_slot" json:"room_id,omitempty"`
	UserID    uint   `json:"user_id,omitempty"`
	Date      string `gorm:"type:date;uniqueIndex:booking_slot" json:"date,omitempty"`
	StartTime string `gorm:"type:time;uniqueIndex:booking_slot" json:"start_time,omitempty"`
	EndTime   string `gorm:"type:time;uniqueIndex:booking_slot" json:"end_time,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
	Status    string `gorm:"default:'pending'" json:"status,omitempty"`

	Room *Room `gorm:"foreignKey:room_id" json:"room,omitempty"`
	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}

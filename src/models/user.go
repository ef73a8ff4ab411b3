package models

import (
	"time"

	"unimap/src/types"
)

type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Username   string    `gorm:"uniqueIndex" json:"username,omitempty"`
	Email      string    `gorm:"uniqueIndex" json:"email,omitempty"`
	Password   string    `json:"-"`
	Role       string    `gorm:"default:'student'" json:"role,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active,omitempty"`
	LastActive time.Time `json:"last_active,omitempty"`

	Bookings []Booking     `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Calendar *UserCalendar `gorm:"foreignKey:user_id" json:"calendar,omitempty"`

	types.Timestamps
}

func (u *User) IsAdmin() bool {
	return u.Role == types.ROLE_ADMIN
}

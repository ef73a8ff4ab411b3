package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

const (
	ROLE_STUDENT = "student"
	ROLE_ADMIN   = "admin"
)

const (
	BOOKING_PENDING   = "pending"
	BOOKING_APPROVED  = "approved"
	BOOKING_REJECTED  = "rejected"
	BOOKING_CANCELLED = "cancelled"
)

type RegisterUserRequestBody struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateBookingRequestBody struct {
	Room      uint   `json:"room" binding:"required"`
	Date      string `json:"date" binding:"required,dateonly"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm,gttime=StartTime"`
	Purpose   string `json:"purpose,omitempty"`
}

// UpdateBookingRequestBody is shared by the owner and admin PATCH paths.
// Which fields are honored depends on the caller's role; the engine
// rejects everything else.
type UpdateBookingRequestBody struct {
	Purpose   *string `json:"purpose,omitempty"`
	Status    *string `json:"status,omitempty"`
	Room      *uint   `json:"room,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

type CreateCampusRequestBody struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	MapsURL string `json:"maps_url" binding:"required,url"`
}

type CreateBuildingRequestBody struct {
	Name    string `json:"name" binding:"required"`
	Campus  uint   `json:"campus" binding:"required"`
	Address string `json:"address" binding:"required"`
	MapsURL string `json:"maps_url" binding:"required,url"`
}

type CreateRoomRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Floor    int    `json:"floor"`
	Building uint   `json:"building" binding:"required"`
}

type UpdateCalendarRequestBody struct {
	SourceLink *string `json:"source_link,omitempty" binding:"omitempty,url"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

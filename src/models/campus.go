package models

import "unimap/src/types"

type Campus struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
	MapsURL  string `json:"maps_url,omitempty"`
	ImageKey string `json:"image_key,omitempty"`

	Buildings []Building `gorm:"foreignKey:campus_id" json:"buildings,omitempty"`

	types.Timestamps
}

type Building struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	CampusID uint   `json:"campus_id,omitempty"`
	Address  string `json:"address,omitempty"`
	MapsURL  string `json:"maps_url,omitempty"`

	Campus *Campus `gorm:"foreignKey:campus_id" json:"campus,omitempty"`
	Rooms  []Room  `gorm:"foreignKey:building_id" json:"rooms,omitempty"`

	types.Timestamps
}

type Room struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
	Floor      int    `json:"floor"`
	BuildingID uint   `json:"building_id,omitempty"`

	Building *Building `gorm:"foreignKey:building_id" json:"building,omitempty"`
	Bookings []Booking `gorm:"foreignKey:room_id" json:"bookings,omitempty"`

	types.Timestamps
}

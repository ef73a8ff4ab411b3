package models

import "time"

// RevokedToken rows are written once on logout and never mutated. A row
// whose expires_at has passed is dead weight rather than a liability; the
// scheduler prunes them opportunistically.
type RevokedToken struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Token     string    `gorm:"uniqueIndex" json:"-"`
	RevokedAt time.Time `gorm:"autoCreateTime" json:"revoked_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const (
	DATE_PARSE_FORMAT = "2006-01-02"
	TIME_PARSE_FORMAT = "15:04"
)

const (
	// TokenTTL is the lifetime of a session token from issuance.
	TokenTTL = 30 * time.Minute
	// RevocationFallbackTTL covers tokens presented for revocation that
	// cannot be parsed; the revocation entry still has to outlive any
	// plausible replay window.
	RevocationFallbackTTL = 5 * time.Minute
)

// ExemptPaths lists the route patterns the auth middleware skips entirely.
// Keep this explicit: anything not named here requires a bearer token.
var ExemptPaths = map[string]bool{
	"/api/v1/register":             true,
	"/api/v1/login":                true,
	"/api/v1/campuses":             true,
	"/api/v1/campuses/:id":         true,
	"/api/v1/buildings":            true,
	"/api/v1/buildings/:id":        true,
	"/api/v1/rooms":                true,
	"/api/v1/rooms/:id":            true,
	"/api/v1/search":               true,
	"/api/v1/calendar/feed/:token": true,
}

package common

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"unimap/src/config"
	"unimap/src/models"
	"unimap/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Error values surfaced to callers. The conflict messages are part of the
// API contract and are returned verbatim.
var (
	ErrRoomConflict    = errors.New("Room already booked.")
	ErrUserConflict    = errors.New("You can't be in two places at once.")
	ErrRoomNotFound    = errors.New("Room not found.")
	ErrBookingNotFound = errors.New("Booking not found.")
	ErrNotAdmin        = errors.New("You are not an admin.")
	ErrStatusLocked    = errors.New("You cannot change the status of this booking.")
	ErrCannotCancel    = errors.New("You cannot cancel a booking, you can reject it.")
	ErrImmutableField  = errors.New("You cannot modify this booking after creation.")
	ErrInvalidInterval = errors.New("start_time must be earlier than end_time")
	ErrInvalidStatus   = errors.New("status must be approved or rejected")
)

// immutableFieldError names the first field an owner tried to change on a
// frozen slot. It matches ErrImmutableField under errors.Is.
type immutableFieldError struct {
	field string
}

func (e immutableFieldError) Error() string {
	return fmt.Sprintf("You cannot modify %s after creation.", e.field)
}

func (e immutableFieldError) Is(target error) bool {
	return target == ErrImmutableField
}

// Overlaps reports whether two half-open intervals on the same date
// intersect. A booking ending at 11:00 does not conflict with one starting
// at 11:00. Zero-padded "15:04" strings compare lexically in time order.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// ValidateInterval rejects malformed dates/times and empty or inverted
// intervals; the overlap math assumes well-formed input.
func ValidateInterval(date, start, end string) error {
	if _, err := time.Parse(config.DATE_PARSE_FORMAT, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	for _, v := range []string{start, end} {
		if _, err := time.Parse(config.TIME_PARSE_FORMAT, v); err != nil {
			return fmt.Errorf("invalid time %q: %w", v, err)
		}
	}
	if start >= end {
		return ErrInvalidInterval
	}
	return nil
}

// CheckRoomConflict reports whether an approved booking for the room
// overlaps [start, end) on date. Pending, rejected and cancelled bookings
// do not block a room. The room's whole day is read FOR UPDATE, so inside
// a transaction the answer stays true until commit.
func CheckRoomConflict(tx *gorm.DB, roomId uint, date, start, end string) (bool, error) {
	var roomDay []models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND date = ?", roomId, date).
		Find(&roomDay).
		Error; err != nil {
		return false, err
	}
	for _, b := range roomDay {
		if b.Status == types.BOOKING_APPROVED && Overlaps(b.StartTime, b.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// CheckUserConflict reports whether the user holds any booking, whatever
// its status, overlapping [start, end) on date. A pending claim counts.
// Locks the user's day the same way CheckRoomConflict locks the room's.
func CheckUserConflict(tx *gorm.DB, userId uint, date, start, end string) (bool, error) {
	var userDay []models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND date = ?", userId, date).
		Find(&userDay).
		Error; err != nil {
		return false, err
	}
	for _, b := range userDay {
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	// Postgres serialization_failure / deadlock_detected.
	msg := err.Error()
	return strings.Contains(msg, "40001") || strings.Contains(msg, "40P01") || strings.Contains(msg, "deadlock")
}

// CreateBooking runs the room check, the user check, and the insert as one
// serializable transaction. Rows for the room's and the user's day are
// locked up front so two concurrent creates for overlapping intervals
// cannot both pass the checks; the unique index on (room, date, start_time,
// end_time) backstops the exact-duplicate race. A serialization failure is
// retried once before surfacing.
func CreateBooking(db *gorm.DB, userId uint, body types.CreateBookingRequestBody) (*models.Booking, error) {
	if err := ValidateInterval(body.Date, body.StartTime, body.EndTime); err != nil {
		return nil, err
	}

	var room models.Room
	if err := db.First(&room, body.Room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	booking := models.Booking{
		RoomID:    body.Room,
		UserID:    userId,
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Purpose:   body.Purpose,
		Status:    types.BOOKING_PENDING,
	}

	attempt := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			conflict, err := CheckRoomConflict(tx, body.Room, body.Date, body.StartTime, body.EndTime)
			if err != nil {
				return err
			}
			if conflict {
				return ErrRoomConflict
			}

			conflict, err = CheckUserConflict(tx, userId, body.Date, body.StartTime, body.EndTime)
			if err != nil {
				return err
			}
			if conflict {
				return ErrUserConflict
			}

			return tx.Create(&booking).Error
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err := attempt()
	if isSerializationFailure(err) {
		log.Printf("Retrying booking create for room %d after transient failure: %s\n", body.Room, err.Error())
		err = attempt()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Identical slot already claimed; indistinguishable from losing
			// the overlap race.
			return nil, ErrRoomConflict
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingByOwner lets the owner change the purpose of a booking while
// it is still pending. Everything else is off limits: status changes are an
// admin action and the slot itself is immutable after creation. Lookup is
// scoped to the owner so foreign bookings come back as not-found.
func UpdateBookingByOwner(db *gorm.DB, userId uint, bookingId uint, body types.UpdateBookingRequestBody) (*models.Booking, error) {
	var booking models.Booking
	if err := db.
		Where(&models.Booking{ID: bookingId, UserID: userId}).
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if body.Status != nil {
		return nil, ErrNotAdmin
	}
	immutable := []struct {
		field   string
		changed bool
	}{
		{"room", body.Room != nil && *body.Room != booking.RoomID},
		{"date", body.Date != nil && *body.Date != booking.Date},
		{"start_time", body.StartTime != nil && *body.StartTime != booking.StartTime},
		{"end_time", body.EndTime != nil && *body.EndTime != booking.EndTime},
	}
	for _, c := range immutable {
		if c.changed {
			return nil, immutableFieldError{c.field}
		}
	}
	if booking.Status != types.BOOKING_PENDING {
		return nil, ErrStatusLocked
	}
	if body.Purpose == nil {
		return &booking, nil
	}

	if err := db.
		Model(&booking).
		Update("purpose", *body.Purpose).
		Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingByAdmin moderates a pending booking to approved or rejected.
// Cancellation is an owner action and is refused here. Setting the status a
// booking already holds is a no-op; any other transition out of a terminal
// state is refused.
func UpdateBookingByAdmin(db *gorm.DB, bookingId uint, body types.UpdateBookingRequestBody) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, bookingId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if body.Status == nil {
		return nil, ErrInvalidStatus
	}
	status := *body.Status
	switch status {
	case types.BOOKING_CANCELLED:
		return nil, ErrCannotCancel
	case types.BOOKING_APPROVED, types.BOOKING_REJECTED:
	default:
		return nil, ErrInvalidStatus
	}
	if booking.Status == status {
		return &booking, nil
	}
	if booking.Status != types.BOOKING_PENDING {
		return nil, ErrStatusLocked
	}

	if err := db.
		Model(&booking).
		Update("status", status).
		Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBookingByOwner moves the owner's pending booking to cancelled.
func CancelBookingByOwner(db *gorm.DB, userId uint, bookingId uint) (*models.Booking, error) {
	var booking models.Booking
	if err := db.
		Where(&models.Booking{ID: bookingId, UserID: userId}).
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status != types.BOOKING_PENDING {
		return nil, ErrStatusLocked
	}
	if err := db.
		Model(&booking).
		Update("status", types.BOOKING_CANCELLED).
		Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

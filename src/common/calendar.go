package common

import (
	"context"
	"log"
	"time"

	"unimap/src/lib"
	"unimap/src/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateCalendar returns the user's calendar row, creating it with a
// fresh feed token on first access.
func GetOrCreateCalendar(db *gorm.DB, userId uint) (*models.UserCalendar, error) {
	var cal models.UserCalendar
	err := db.
		Where(&models.UserCalendar{UserID: userId}).
		Attrs(models.UserCalendar{Token: uuid.NewString(), Enabled: true}).
		FirstOrCreate(&cal).
		Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

// ImportCalendarEvents upserts parsed events for the user in one
// transaction. Events carrying a source UID replace the previous import of
// the same UID; events without one always insert.
func ImportCalendarEvents(db *gorm.DB, userId uint, events []lib.ICSEvent) (created int, updated int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, ev := range events {
			record := models.CalendarEvent{
				UserID:      userId,
				Title:       ev.Summary,
				Description: ev.Description,
				Location:    ev.Location,
				Start:       ev.Start,
				End:         ev.End,
			}
			if ev.UID == "" {
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				created++
				continue
			}
			uid := ev.UID
			record.SourceUID = &uid
			res := tx.
				Model(&models.CalendarEvent{}).
				Where("user_id = ? AND source_uid = ?", userId, uid).
				Updates(map[string]any{
					"title":       record.Title,
					"description": record.Description,
					"location":    record.Location,
					"start":       record.Start,
					"end":         record.End,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				updated++
				continue
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, updated, err
}

// SyncUserCalendar fetches the calendar's source feed and imports it.
func SyncUserCalendar(ctx context.Context, db *gorm.DB, cal *models.UserCalendar) (created int, updated int, err error) {
	data, err := lib.FetchICS(ctx, cal.SourceLink)
	if err != nil {
		return 0, 0, err
	}
	events, err := lib.ParseICS(data)
	if err != nil {
		return 0, 0, err
	}
	created, updated, err = ImportCalendarEvents(db, cal.UserID, events)
	if err != nil {
		return created, updated, err
	}
	now := time.Now()
	err = db.
		Model(cal).
		Update("last_synced", now).
		Error
	if err == nil {
		cal.LastSynced = &now
	}
	return created, updated, err
}

// SyncAllCalendars walks every enabled calendar with a source link. Runs
// from the scheduler; per-calendar failures are logged and skipped so one
// dead feed does not starve the rest.
func SyncAllCalendars(ctx context.Context, db *gorm.DB) {
	var calendars []models.UserCalendar
	err := db.
		Where("enabled = ? AND source_link <> ''", true).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "last_synced"}}).
		Find(&calendars).
		Error
	if err != nil {
		log.Printf("Error listing calendars for sync: %s\n", err.Error())
		return
	}
	for i := range calendars {
		cal := &calendars[i]
		created, updated, err := SyncUserCalendar(ctx, db, cal)
		if err != nil {
			log.Printf("Error syncing calendar for user %d: %s\n", cal.UserID, err.Error())
			continue
		}
		log.Printf("Synced calendar for user %d: %d created, %d updated\n", cal.UserID, created, updated)
	}
}

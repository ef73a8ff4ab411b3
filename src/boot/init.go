package boot

import (
	"context"
	"log"
	"time"

	"unimap/src/common"
	"unimap/src/db"
	"unimap/src/lib"
	"unimap/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Campus{},
		&models.Building{},
		&models.Room{},
		&models.Booking{},
		&models.RevokedToken{},
		&models.UserCalendar{},
		&models.CalendarEvent{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the background jobs: hourly calendar re-sync for
// every enabled feed, and pruning of revocation entries whose token has
// expired on its own.
func InitScheduler() {
	if _, err := lib.CreateCronJob(func() {
		common.SyncAllCalendars(context.Background(), db.GetDb())
	}, 1*time.Hour); err != nil {
		log.Printf("Error scheduling calendar sync: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(func() {
		if err := common.PruneExpiredRevocations(db.GetDb()); err != nil {
			log.Printf("Error pruning revocations: %s\n", err.Error())
		}
	}, 1*time.Hour); err != nil {
		log.Printf("Error scheduling revocation pruning: %s\n", err.Error())
	}

	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

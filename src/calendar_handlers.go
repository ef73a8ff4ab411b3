package main

import (
	"io"
	"log"
	"net/http"

	"unimap/src/common"
	"unimap/src/db"
	"unimap/src/lib"
	"unimap/src/models"
	"unimap/src/types"

	"github.com/gin-gonic/gin"
)

func calendarHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/calendar", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			cal, err := common.GetOrCreateCalendar(db.GetDb(), userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cal})
		}).
		PATCH("/calendar", func(ctx *gin.Context) {
			var body types.UpdateCalendarRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			cal, err := common.GetOrCreateCalendar(db, userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			linkChanged := false
			if body.SourceLink != nil && *body.SourceLink != cal.SourceLink {
				updates["source_link"] = *body.SourceLink
				linkChanged = *body.SourceLink != ""
			}
			if body.Enabled != nil {
				updates["enabled"] = *body.Enabled
			}
			if len(updates) > 0 {
				if err := db.Model(cal).Updates(updates).Error; err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
			}
			if linkChanged {
				cal.SourceLink = *body.SourceLink
				if _, _, err := common.SyncUserCalendar(ctx.Request.Context(), db, cal); err != nil {
					log.Printf("Error syncing calendar for user %d: %s\n", userId, err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not sync calendar from source link."})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": cal})
		}).
		POST("/calendar/sync", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			cal, err := common.GetOrCreateCalendar(db, userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if cal.SourceLink == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "No source link configured."})
				return
			}
			created, updated, err := common.SyncUserCalendar(ctx.Request.Context(), db, cal)
			if err != nil {
				log.Printf("Error syncing calendar for user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not sync calendar from source link."})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"created": created, "updated": updated})
		}).
		POST("/calendar/upload", func(ctx *gin.Context) {
			file, err := ctx.FormFile("file")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded."})
				return
			}
			src, err := file.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer src.Close()
			content, err := io.ReadAll(src)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			events, err := lib.ParseICS(content)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			created, updated, err := common.ImportCalendarEvents(db.GetDb(), userId, events)
			if err != nil {
				log.Printf("Error importing calendar for user %d: %s\n", userId, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"created": created, "updated": updated, "parsed": len(events)})
		}).
		GET("/calendar/events", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var events []models.CalendarEvent
			err := db.GetDb().
				Where(&models.CalendarEvent{UserID: userId}).
				Order("start").
				Find(&events).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		})
	return g
}

// calendarFeedHandler serves a user's imported events by feed token, so an
// external calendar app can subscribe without a session. Token knowledge is
// the credential; the path is on the exempt list.
func calendarFeedHandler(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/calendar/feed/:token", func(ctx *gin.Context) {
		token := ctx.Param("token")
		db := db.GetDb()
		var cal models.UserCalendar
		if err := db.
			Where(&models.UserCalendar{Token: token}).
			First(&cal).
			Error; err != nil {
			ctx.Status(http.StatusNotFound)
			return
		}
		if !cal.Enabled {
			ctx.Status(http.StatusNotFound)
			return
		}
		var events []models.CalendarEvent
		if err := db.
			Where(&models.CalendarEvent{UserID: cal.UserID}).
			Order("start").
			Find(&events).
			Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
	})
	return g
}

package main

import (
	"errors"
	"log"
	"net/http"

	"unimap/src/common"
	"unimap/src/db"
	"unimap/src/models"
	"unimap/src/types"

	"github.com/gin-gonic/gin"
)

// bookingErrStatus maps conflict-engine errors onto HTTP statuses. Conflict
// and validation failures are caller errors and never retried here.
func bookingErrStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrRoomConflict),
		errors.Is(err, common.ErrUserConflict),
		errors.Is(err, common.ErrNotAdmin),
		errors.Is(err, common.ErrStatusLocked),
		errors.Is(err, common.ErrCannotCancel),
		errors.Is(err, common.ErrImmutableField),
		errors.Is(err, common.ErrInvalidInterval),
		errors.Is(err, common.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: userId}).
				Order("created_at desc").
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := common.CreateBooking(db.GetDb(), userId, body)
			if err != nil {
				log.Printf("Could not create booking for user %d: %s\n", userId, err.Error())
				ctx.JSON(bookingErrStatus(err), gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PATCH("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := common.UpdateBookingByOwner(db.GetDb(), userId, params.ID, body)
			if err != nil {
				ctx.JSON(bookingErrStatus(err), gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if _, err := common.CancelBookingByOwner(db.GetDb(), userId, params.ID); err != nil {
				log.Printf("Could not cancel booking %d: %s\n", params.ID, err.Error())
				ctx.JSON(bookingErrStatus(err), gin.H{"message": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"

	"unimap/src/db"
	"unimap/src/lib"
	"unimap/src/models"
	"unimap/src/types"

	"github.com/gin-gonic/gin"
)

// uniHandlers exposes the campus directory. Reads are public; the auth
// middleware knows these paths from the exempt list.
func uniHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/campuses", func(ctx *gin.Context) {
			var campuses []models.Campus
			if err := db.GetDb().Order("name").Find(&campuses).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": campuses, "count": len(campuses)})
		}).
		GET("/campuses/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var campus models.Campus
			if err := db.GetDb().Preload("Buildings").First(&campus, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": campus})
		}).
		GET("/buildings", func(ctx *gin.Context) {
			var buildings []models.Building
			if err := db.GetDb().Order("name").Find(&buildings).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": buildings, "count": len(buildings)})
		}).
		GET("/buildings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var building models.Building
			if err := db.GetDb().Preload("Rooms").First(&building, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": building})
		}).
		GET("/rooms", func(ctx *gin.Context) {
			var rooms []models.Room
			if err := db.GetDb().Order("floor, name").Find(&rooms).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rooms, "count": len(rooms)})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var room models.Room
			if err := db.GetDb().Preload("Building").First(&room, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		}).
		GET("/search", func(ctx *gin.Context) {
			query := strings.TrimSpace(ctx.Query("q"))
			if query == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required."})
				return
			}
			pattern := fmt.Sprintf("%%%s%%", query)
			db := db.GetDb()
			var campuses []models.Campus
			var buildings []models.Building
			var rooms []models.Room
			if err := db.Where("name ILIKE ?", pattern).Order("name").Find(&campuses).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if err := db.Where("name ILIKE ?", pattern).Order("name").Find(&buildings).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if err := db.Where("name ILIKE ?", pattern).Order("floor, name").Find(&rooms).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"campuses":  campuses,
				"buildings": buildings,
				"rooms":     rooms,
			})
		})
	return g
}

// uniAdminHandlers is the directory write surface, admin only.
func uniAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/campuses", func(ctx *gin.Context) {
			var body types.CreateCampusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			campus := models.Campus{Name: body.Name, Address: body.Address, MapsURL: body.MapsURL}
			if err := db.GetDb().Create(&campus).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": campus})
		}).
		POST("/campuses/:id/image", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var campus models.Campus
			if err := db.First(&campus, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			file, err := ctx.FormFile("file")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
				return
			}
			src, err := file.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer src.Close()
			key := path.Join("images/campuses", fmt.Sprintf("%d%s", campus.ID, path.Ext(file.Filename)))
			contentType := file.Header.Get("Content-Type")
			if err := lib.S3UploadAsset(ctx, key, contentType, src); err != nil {
				log.Printf("[S3] Error uploading campus image: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing upload"})
				return
			}
			if err := db.Model(&campus).Update("image_key", key).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": campus})
		}).
		POST("/buildings", func(ctx *gin.Context) {
			var body types.CreateBuildingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.First(&models.Campus{}, body.Campus).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Campus not found."})
				return
			}
			building := models.Building{Name: body.Name, CampusID: body.Campus, Address: body.Address, MapsURL: body.MapsURL}
			if err := db.Create(&building).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": building})
		}).
		POST("/rooms", func(ctx *gin.Context) {
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.First(&models.Building{}, body.Building).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Building not found."})
				return
			}
			room := models.Room{Name: body.Name, Type: body.Type, Floor: body.Floor, BuildingID: body.Building}
			if err := db.Create(&room).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": room})
		})
	return g
}

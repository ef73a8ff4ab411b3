package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"unimap/src/boot"
	"unimap/src/config"
	"unimap/src/controllers"
	"unimap/src/db"
	"unimap/src/middlewares"
	"unimap/src/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var hhmmValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.TIME_PARSE_FORMAT, value)
	return err == nil
}

var dateonlyValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, value)
	return err == nil
}

// gttime: the tagged field must sort after the named sibling field.
// Zero-padded "15:04" strings compare lexically in time order.
var gttimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	other := fl.Parent().FieldByName(fl.Param())
	otherValue, ok := other.Interface().(string)
	if !ok {
		return false
	}
	return value > otherValue
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("hhmm", hhmmValidatorFunc)
		v.RegisterValidation("dateonly", dateonlyValidatorFunc)
		v.RegisterValidation("gttime", gttimeValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func corsConfig(router *gin.Engine) *gin.Engine {
	origin := os.Getenv("CORS_ALLOW_ORIGIN")
	if origin == "" {
		router.Use(cors.Default())
		return router
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = []string{origin}
	cc.AllowMethods = append(cc.AllowMethods, "PATCH", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")
	router.Use(cors.New(cc))
	return router
}

func currentUserHandler(ctx *gin.Context) {
	userId := ctx.GetUint("id")
	var user models.User
	if err := db.GetDb().
		First(&user, userId).
		Error; err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": user, "is_admin": user.IsAdmin()})
}

func apiRoutes(router *gin.Engine) *gin.Engine {
	apiv1 := router.Group(apiPrefix)
	apiv1.Use(middlewares.AuthMiddleware)

	apiv1.
		POST("/register", func(ctx *gin.Context) {
			user, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"user_data": user})
		}).
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"detail": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"jwt": *token})
		}).
		POST("/logout", func(ctx *gin.Context) {
			status, err := controllers.AuthLogout(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"detail": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"message": "success"})
		}).
		GET("/chk-tkn", func(ctx *gin.Context) {
			remaining, expired, err := controllers.TokenRemaining(ctx)
			if err != nil {
				ctx.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
				return
			}
			if expired {
				ctx.JSON(http.StatusOK, gin.H{"remaining_seconds": 0, "expired": true})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"remaining_seconds": remaining})
		}).
		GET("/users/me", currentUserHandler)

	uniHandlers(apiv1)
	bookingHandlers(apiv1)
	calendarHandlers(apiv1)
	calendarFeedHandler(apiv1)

	admin := apiv1.Group("/admin")
	admin.Use(middlewares.AdminMiddleware)
	adminHandlers(admin)
	uniAdminHandlers(admin)

	return router
}

func main() {
	registerValidators()
	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := setupRouter()
	router = corsConfig(router)
	router = apiRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("Listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server error: %s\n", err.Error())
	}
}

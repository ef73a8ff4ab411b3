package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"unimap/src/common"
	"unimap/src/db"
	"unimap/src/models"
	"unimap/src/types"
	"unimap/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var errBadCredentials = errors.New("Incorrect email/username or password!")

func AuthRegister(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not complete registration")
	}

	newUser := models.User{
		Username: body.Username,
		Email:    body.Email,
		Password: hash,
		Role:     types.ROLE_STUDENT,
		IsActive: true,
	}
	db := db.GetDb()
	if err := db.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, http.StatusBadRequest, errors.New("user is already registered in the system. Please proceed to Log In")
		}
		log.Printf("Error creating user: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	return &newUser, http.StatusOK, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error; err != nil {
		// Same message as a bad password; account existence is not leaked.
		return nil, http.StatusUnauthorized, errBadCredentials
	}
	if !utils.CheckPassword(user.Password, body.Password) {
		return nil, http.StatusUnauthorized, errBadCredentials
	}
	if !user.IsActive {
		return nil, http.StatusUnauthorized, errors.New("Account is not activated. Please verify your email.")
	}

	if err := db.
		Model(&models.User{}).
		Where("id", user.ID).
		Update("last_active", time.Now()).
		Error; err != nil {
		log.Printf("Error logging in user [%d]: %s\n", user.ID, err.Error())
	}

	jwt, err := utils.GenerateJWT(user.ID)
	if err != nil {
		log.Printf("Error issuing token for user [%d]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, errors.New("could not issue token")
	}
	return &jwt, http.StatusOK, nil
}

func AuthLogout(ctx *gin.Context) (status int, err error) {
	token := ctx.GetString("token")
	if token == "" {
		return http.StatusBadRequest, errors.New("Authorization header missing.")
	}
	if err := common.RevokeToken(db.GetDb(), token); err != nil {
		log.Printf("Error revoking token: %s\n", err.Error())
		return http.StatusInternalServerError, errors.New("could not revoke token")
	}
	return http.StatusOK, nil
}

// TokenRemaining reports how many seconds of validity the presented token
// has left. An expired token is a 200 with zero remaining, not an error;
// the middleware has already rejected anything unusable.
func TokenRemaining(ctx *gin.Context) (remaining int, expired bool, err error) {
	token := ctx.GetString("token")
	claims := &types.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, false, errors.New("Invalid token.")
	}
	if claims.ExpiresAt == nil {
		return 0, false, errors.New("Invalid token.")
	}
	secs := int(time.Until(claims.ExpiresAt.Time).Seconds())
	if secs <= 0 {
		return 0, true, nil
	}
	return secs, false, nil
}

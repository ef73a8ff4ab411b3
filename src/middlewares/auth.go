package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"unimap/src/common"
	"unimap/src/config"
	"unimap/src/db"
	"unimap/src/models"
	"unimap/src/types"
	"unimap/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware resolves the bearer token to a principal and attaches it
// to the context. Paths in config.ExemptPaths skip authentication entirely.
// Rejections are deliberately distinct: missing credentials, revoked,
// expired, invalid, and unknown subject each get their own message.
func AuthMiddleware(ctx *gin.Context) {
	if config.ExemptPaths[ctx.FullPath()] {
		return
	}

	header := ctx.Request.Header.Get("Authorization")
	if header == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid Authorization header."})
		return
	}
	reqToken := parts[1]

	revoked, err := common.IsTokenRevoked(db.GetDb(), reqToken)
	if err != nil {
		log.Printf("Error checking token revocation: %s\n", err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if revoked {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token has been revoked."})
		return
	}

	claims, err := utils.ParseJWT(reqToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token expired"})
			return
		}
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}
	var user models.User
	if err := db.GetDb().
		Model(&models.User{}).
		Where(&models.User{ID: uint(uid)}).
		First(&user).
		Error; err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unknown subject"})
		return
	}

	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("role", user.Role)
	ctx.Set("token", reqToken)
}

// AdminMiddleware gates privileged route groups. Runs after AuthMiddleware.
func AdminMiddleware(ctx *gin.Context) {
	if ctx.GetString("role") != types.ROLE_ADMIN {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		return
	}
}

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("Referrer-Policy", "same-origin")
}

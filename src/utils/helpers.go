package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"unimap/src/config"
	"unimap/src/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// NewJWTKey Replace the signing key; tests use this to avoid env coupling.
func NewJWTKey(key []byte) {
	jwtKey = key
}

func JWTKey() []byte {
	return jwtKey
}

// GenerateJWT issues a session token for userId with a fixed TTL. A signing
// failure means the server secret is misconfigured and must propagate.
func GenerateJWT(userId uint) (string, error) {
	now := time.Now()
	claims := types.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userId), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtKey)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ParseJWT validates the signature and standard claims and returns the
// parsed claims. Expired tokens return jwt.ErrTokenExpired wrapped.
func ParseJWT(token string) (*types.Claims, error) {
	claims := &types.Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

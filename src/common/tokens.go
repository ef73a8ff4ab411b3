package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"unimap/src/config"
	"unimap/src/lib"
	"unimap/src/models"
	"unimap/src/types"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func revocationKey(token string) string {
	return fmt.Sprintf("revoked:%s", token)
}

// RevokeToken records the token in the revocation ledger. Revoking an
// already-revoked token is a no-op; any other storage failure propagates so
// a logout never silently leaves a live token behind. Tokens that cannot be
// parsed are still revoked, with a short conservative expiry.
func RevokeToken(db *gorm.DB, token string) error {
	expiresAt := time.Now().Add(config.RevocationFallbackTTL)
	claims := &types.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}

	revoked := models.RevokedToken{Token: token, ExpiresAt: expiresAt}
	if err := db.Create(&revoked).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	// Mirror into redis for the auth fast path. Best effort: the DB row is
	// the source of truth.
	if rd := lib.GetRedisClient(); rd != nil {
		ttl := time.Until(expiresAt)
		if ttl > 0 {
			if err := rd.Set(context.Background(), revocationKey(token), "1", ttl).Err(); err != nil {
				log.Printf("[redis] Error caching revocation: %s\n", err.Error())
			}
		}
	}
	return nil
}

// IsTokenRevoked checks the redis cache first and falls back to the ledger.
func IsTokenRevoked(db *gorm.DB, token string) (bool, error) {
	if rd := lib.GetRedisClient(); rd != nil {
		n, err := rd.Exists(context.Background(), revocationKey(token)).Result()
		if err == nil && n > 0 {
			return true, nil
		}
		if err != nil {
			log.Printf("[redis] Error checking revocation cache: %s\n", err.Error())
		}
	}
	var count int64
	err := db.
		Model(&models.RevokedToken{}).
		Where("token = ?", token).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PruneExpiredRevocations drops ledger rows whose token has expired on its
// own; they can no longer authenticate anything. Runs from the scheduler.
func PruneExpiredRevocations(db *gorm.DB) error {
	res := db.
		Where("expires_at < ?", time.Now()).
		Delete(&models.RevokedToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("Pruned %d expired revocation entries\n", res.RowsAffected)
	}
	return nil
}

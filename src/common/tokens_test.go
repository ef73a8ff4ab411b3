package common

import (
	"testing"

	"unimap/src/db"
	"unimap/src/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRevokeTokenStoresOriginalExpiry(t *testing.T) {
	utils.NewJWTKey([]byte("test-secret"))
	gormDB, mock := db.GetMockDB()

	token, err := utils.GenerateJWT(1)
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "revoked_tokens"`).
		WithArgs(token, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	assert.NoError(t, RevokeToken(gormDB, token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeTokenIdempotent(t *testing.T) {
	utils.NewJWTKey([]byte("test-secret"))
	gormDB, mock := db.GetMockDB()

	token, err := utils.GenerateJWT(1)
	assert.NoError(t, err)

	// unique_violation on the token column: already revoked, not an error.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "revoked_tokens"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	assert.NoError(t, RevokeToken(gormDB, token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeTokenStorageFailurePropagates(t *testing.T) {
	utils.NewJWTKey([]byte("test-secret"))
	gormDB, mock := db.GetMockDB()

	token, err := utils.GenerateJWT(1)
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "revoked_tokens"`).
		WillReturnError(&pgconn.PgError{Code: "53300", Message: "too many connections"})
	mock.ExpectRollback()

	assert.Error(t, RevokeToken(gormDB, token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeMalformedTokenUsesFallbackWindow(t *testing.T) {
	gormDB, mock := db.GetMockDB()

	// An unparsable token is still recorded, with the short fallback window.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "revoked_tokens"`).
		WithArgs("not-a-jwt", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	assert.NoError(t, RevokeToken(gormDB, "not-a-jwt"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTokenRevoked(t *testing.T) {
	gormDB, mock := db.GetMockDB()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "revoked_tokens"`).
		WithArgs("some-token").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	revoked, err := IsTokenRevoked(gormDB, "some-token")
	assert.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "revoked_tokens"`).
		WithArgs("other-token").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	revoked, err = IsTokenRevoked(gormDB, "other-token")
	assert.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

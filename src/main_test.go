package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"unimap/src/db"
	"unimap/src/middlewares"
	"unimap/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

type APITestSuite struct {
	suite.Suite
	Mock sqlmock.Sqlmock
}

func (s *APITestSuite) SetupTest() {
	_, mock := db.GetMockDB()
	s.Mock = mock
}

// newTestRouter wires the booking surface behind a stub principal so the
// tests exercise routing, binding and the engine without real tokens.
func newTestRouter(userId uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group(apiPrefix)
	api.Use(func(ctx *gin.Context) {
		ctx.Set("id", userId)
		ctx.Set("role", role)
	})
	api.GET("/users/me", currentUserHandler)
	bookingHandlers(api)
	admin := api.Group("/admin")
	admin.Use(middlewares.AdminMiddleware)
	adminHandlers(admin)
	return router
}

const (
	roomDayQuery = `SELECT \* FROM "bookings" WHERE \(?room_id = \$1 AND date = \$2\)?.*FOR UPDATE`
	userDayQuery = `SELECT \* FROM "bookings" WHERE \(?user_id = \$1 AND date = \$2\)?.*FOR UPDATE`
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "room_id", "user_id", "date", "start_time", "end_time", "purpose", "status", "created_at", "updated_at"})
}

func (s *APITestSuite) expectRoomLookup() {
	s.Mock.ExpectQuery(`SELECT \* FROM "rooms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "floor", "building_id"}).
			AddRow(1, "A-101", "lecture", 1, 1))
}

func (s *APITestSuite) TestCreateBookingConflictSurfacesReason() {
	router := newTestRouter(3, types.ROLE_STUDENT)

	s.expectRoomLookup()
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(roomDayQuery).
		WillReturnRows(bookingRows().
			AddRow(7, 1, 2, "2025-03-14", "10:00", "11:00", "", types.BOOKING_APPROVED, time.Now(), time.Now()))
	s.Mock.ExpectRollback()

	body := `{"room":1,"date":"2025-03-14","start_time":"10:30","end_time":"11:30","purpose":"study"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "Room already booked.", gjson.Get(w.Body.String(), "message").String())
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestCreateBookingBoundaryDoesNotConflict() {
	router := newTestRouter(3, types.ROLE_STUDENT)

	s.expectRoomLookup()
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(roomDayQuery).
		WillReturnRows(bookingRows().
			AddRow(7, 1, 2, "2025-03-14", "10:00", "11:00", "", types.BOOKING_APPROVED, time.Now(), time.Now()))
	s.Mock.ExpectQuery(userDayQuery).
		WillReturnRows(bookingRows())
	s.Mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	s.Mock.ExpectCommit()

	body := `{"room":1,"date":"2025-03-14","start_time":"11:00","end_time":"12:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	assert.Equal(s.T(), types.BOOKING_PENDING, gjson.Get(w.Body.String(), "data.status").String())
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestCreateBookingRejectsInvertedInterval() {
	router := newTestRouter(3, types.ROLE_STUDENT)

	// The gttime binding rule fails before any storage access.
	body := `{"room":1,"date":"2025-03-14","start_time":"12:00","end_time":"11:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestOwnerCannotSetStatus() {
	router := newTestRouter(3, types.ROLE_STUDENT)

	s.Mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows().
			AddRow(10, 1, 3, "2025-03-14", "10:00", "11:00", "old", types.BOOKING_PENDING, time.Now(), time.Now()))

	body := `{"status":"approved"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/10", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "You are not an admin.", gjson.Get(w.Body.String(), "message").String())
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestAdminCannotCancel() {
	router := newTestRouter(1, types.ROLE_ADMIN)

	s.Mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows().
			AddRow(10, 1, 3, "2025-03-14", "10:00", "11:00", "old", types.BOOKING_PENDING, time.Now(), time.Now()))

	body := `{"status":"cancelled"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/10", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "You cannot cancel a booking, you can reject it.", gjson.Get(w.Body.String(), "message").String())
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestAdminSurfaceForbiddenForStudents() {
	router := newTestRouter(3, types.ROLE_STUDENT)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestListOwnBookings() {
	router := newTestRouter(3, types.ROLE_STUDENT)

	s.Mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows().
			AddRow(11, 1, 3, "2025-03-15", "09:00", "10:00", "seminar", types.BOOKING_PENDING, time.Now(), time.Now()).
			AddRow(10, 1, 3, "2025-03-14", "10:00", "11:00", "study", types.BOOKING_APPROVED, time.Now(), time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "count").Int())
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestAdminDeleteBooking() {
	router := newTestRouter(1, types.ROLE_ADMIN)

	// A real DELETE, not a soft delete: the row must stop matching the
	// booking_slot unique index so the slot can be booked again.
	s.Mock.ExpectBegin()
	s.Mock.ExpectExec(`DELETE FROM "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/bookings/10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNoContent, w.Code)
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *APITestSuite) TestUsersMeReportsAdmin() {
	router := newTestRouter(1, types.ROLE_ADMIN)

	s.Mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).
			AddRow(1, "dean", "dean@uni.example", types.ROLE_ADMIN))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.True(s.T(), gjson.Get(w.Body.String(), "is_admin").Bool())
	assert.Equal(s.T(), "dean", gjson.Get(w.Body.String(), "data.username").String())
	assert.NoError(s.T(), s.Mock.ExpectationsWereMet())
}

func TestAPITestSuite(t *testing.T) {
	registerValidators()
	suite.Run(t, new(APITestSuite))
}

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/ticketing-backend/internal/repository"
)

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewUserHandler(
		repository.NewUserRepo(db),
		repository.NewBookingRepo(db),
	)
	return h, mock, db
}

func TestUserCreate_Success(t *testing.T) {
	h, mock, _ := newUserHandler(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Ada", "ada@example.com").
		WillReturnResult(sqlmock.NewResult(7, 1))

	c, rec := postJSON("/users", `{"name":"Ada","email":"ada@example.com"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 7, resp["id"])
}

func TestUserCreate_MissingFieldsAreBadRequest(t *testing.T) {
	h, _, _ := newUserHandler(t)

	for name, body := range map[string]string{
		"no name":     `{"email":"ada@example.com"}`,
		"no email":    `{"name":"Ada"}`,
		"blank email": `{"name":"Ada","email":"   "}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := postJSON("/users", body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// Email is not unique; registering the same address twice creates two users.
func TestUserCreate_RepeatedEmailCreatesSecondUser(t *testing.T) {
	h, mock, _ := newUserHandler(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Ada", "ada@example.com").
		WillReturnResult(sqlmock.NewResult(8, 1))

	c, rec := postJSON("/users", `{"name":"Ada","email":"ada@example.com"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUserBookings_WrapsListInObject(t *testing.T) {
	h, mock, _ := newUserHandler(t)

	booked := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM bookings b`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "venue", "start_time", "seat_number", "booking_time"}).
			AddRow(5, "Jazz Night", "Blue Hall", booked, "12", booked))

	c, rec := getRequest(t, "/users/1/bookings", "id", "1")
	require.NoError(t, h.Bookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Bookings []repository.UserBookingDetail `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "12", resp.Bookings[0].SeatNumber)
}

func TestUserBookings_UnknownUserIsEmptyList(t *testing.T) {
	h, mock, _ := newUserHandler(t)

	mock.ExpectQuery(`FROM bookings b`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "venue", "start_time", "seat_number", "booking_time"}))

	c, rec := getRequest(t, "/users/42/bookings", "id", "42")
	require.NoError(t, h.Bookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}

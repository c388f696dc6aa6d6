package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/ticketing-backend/internal/repository"
)

func newEventHandler(t *testing.T) (*EventHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewEventHandler(
		repository.NewEventRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
	)
	return h, mock, db
}

func getRequest(t *testing.T, path string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return c, rec
}

func TestEventList_ReturnsBareArray(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectQuery(`FROM events`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "venue", "start_time", "total_capacity", "tickets_booked"}).
			AddRow(1, "Jazz Night", "Blue Hall", time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC), 100, 5))

	c, rec := getRequest(t, "/events")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var events []repository.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Name)
}

func TestEventList_EmptyCatalogIsEmptyArrayNotNull(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectQuery(`FROM events`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "venue", "start_time", "total_capacity", "tickets_booked"}))

	c, rec := getRequest(t, "/events")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestEventGet_UnknownIDIsNotFound(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectQuery(`FROM events WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "venue", "start_time", "total_capacity", "tickets_booked"}))

	c, rec := getRequest(t, "/events/7", "id", "7")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventGet_NonNumericIDIsBadRequest(t *testing.T) {
	h, _, _ := newEventHandler(t)

	c, rec := getRequest(t, "/events/abc", "id", "abc")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventCreate_Success(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectExec(`INSERT INTO events`).
		WithArgs("Jazz Night", "Blue Hall", sqlmock.AnyArg(), 120).
		WillReturnResult(sqlmock.NewResult(42, 1))

	c, rec := postJSON("/admin/events",
		`{"name":"Jazz Night","venue":"Blue Hall","start_time":"2026-09-01T20:00:00Z","total_capacity":120}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 42, resp["id"])
}

func TestEventCreate_AcceptsDatetimeLayout(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectExec(`INSERT INTO events`).
		WithArgs("Jazz Night", "Blue Hall", time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC), 10).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := postJSON("/admin/events",
		`{"name":"Jazz Night","venue":"Blue Hall","start_time":"2026-09-01 20:00:00","total_capacity":10}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestEventCreate_MissingFieldsAreBadRequest(t *testing.T) {
	h, _, _ := newEventHandler(t)

	for name, body := range map[string]string{
		"no name":     `{"venue":"Blue Hall","start_time":"2026-09-01T20:00:00Z","total_capacity":10}`,
		"no venue":    `{"name":"Jazz Night","start_time":"2026-09-01T20:00:00Z","total_capacity":10}`,
		"no time":     `{"name":"Jazz Night","venue":"Blue Hall","total_capacity":10}`,
		"no capacity": `{"name":"Jazz Night","venue":"Blue Hall","start_time":"2026-09-01T20:00:00Z"}`,
		"blank name":  `{"name":"  ","venue":"Blue Hall","start_time":"2026-09-01T20:00:00Z","total_capacity":10}`,
		"bad time":    `{"name":"Jazz Night","venue":"Blue Hall","start_time":"tomorrow","total_capacity":10}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := postJSON("/admin/events", body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEventCreate_NegativeCapacityIsBadRequest(t *testing.T) {
	h, _, _ := newEventHandler(t)

	c, rec := postJSON("/admin/events",
		`{"name":"Jazz Night","venue":"Blue Hall","start_time":"2026-09-01T20:00:00Z","total_capacity":-1}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventDelete_CascadesInOrder(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bookings WHERE event_id = \?`).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM seats WHERE event_id = \?`).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec(`DELETE FROM events WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/admin/events/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventDelete_UnknownEventStillSucceeds(t *testing.T) {
	h, mock, _ := newEventHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bookings`).
		WithArgs(uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM seats`).
		WithArgs(uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM events`).
		WithArgs(uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/admin/events/999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Package handler exposes the HTTP handlers for the ticketing API. Handlers
// own the transaction boundary: every mutating operation begins a
// transaction, rolls back on any exit path that did not commit, and maps
// repository errors onto the HTTP status taxonomy. Raw database error text
// is never echoed to callers.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses a numeric path parameter. Zero is rejected along with
// non-numeric input since no table uses id 0.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

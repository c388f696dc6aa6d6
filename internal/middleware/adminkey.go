// Package middleware provides reusable HTTP middleware: the admin key
// check, a Redis-backed response cache and a distributed rate limiter.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminKey returns a middleware that guards the /admin surface. Requests
// must carry the configured key in the X-API-Key header; mismatches are
// rejected with 401. The comparison is constant-time so the key cannot be
// probed byte by byte.
func AdminKey(key string) echo.MiddlewareFunc {
	want := []byte(key)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := []byte(c.Request().Header.Get("X-API-Key"))
			if len(want) == 0 || subtle.ConstantTimeCompare(want, got) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

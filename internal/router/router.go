// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/evently/ticketing-backend/internal/handler"
	"github.com/evently/ticketing-backend/internal/middleware"
)

// RegisterPublic registers the unauthenticated API surface. cacheMW is
// applied to the hot read endpoints only; mutating routes bypass the cache
// entirely so booking conflicts are always decided against live data.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, st *handler.SeatHandler, bk *handler.BookingHandler, us *handler.UserHandler, hl *handler.HealthHandler, cacheMW echo.MiddlewareFunc) {
	e.GET("/healthz", hl.Health)

	e.GET("/events", ev.List, cacheMW)
	e.GET("/events/:id", ev.Get, cacheMW)
	// The seat map is deliberately uncached: stale availability here would
	// steer users into seats that 409 at booking time.
	e.GET("/events/:id/seats", st.ListByEvent)

	e.POST("/bookings", bk.Create)
	e.DELETE("/bookings/:id", bk.Cancel)

	e.POST("/users", us.Create)
	e.GET("/users/:id/bookings", us.Bookings)
}

// RegisterAdmin registers the /admin surface behind the API key check.
func RegisterAdmin(e *echo.Echo, ev *handler.EventHandler, st *handler.SeatHandler, an *handler.AnalyticsHandler, adminKey string) {
	g := e.Group("/admin", middleware.AdminKey(adminKey))

	g.POST("/events", ev.Create)
	g.DELETE("/events/:id", ev.Delete)
	g.POST("/events/:id/generate-seats", st.Generate)
	g.GET("/analytics", an.Get)
}

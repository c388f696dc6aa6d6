package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/evently/ticketing-backend/internal/repository"
)

// UserHandler serves user registration and booking history.
type UserHandler struct {
	UserRepo    *repository.UserRepo
	BookingRepo *repository.BookingRepo
}

// NewUserHandler constructs a UserHandler. All dependencies must be non-nil.
func NewUserHandler(userRepo *repository.UserRepo, bookingRepo *repository.BookingRepo) *UserHandler {
	if userRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{UserRepo: userRepo, BookingRepo: bookingRepo}
}

// Create handles POST /users. Name and email are both required. Email is
// not checked for uniqueness; repeated registrations create separate users.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	if body.Name == "" || body.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}

	user := &repository.User{Name: body.Name, Email: body.Email}
	if err := h.UserRepo.Create(c.Request().Context(), user); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created successfully",
		"id":      user.ID,
	})
}

// Bookings handles GET /users/:id/bookings. Each entry joins the booking to
// its event; entries are ordered by booking time, oldest first. A user with
// no bookings (or an unknown user id) gets an empty list.
func (h *UserHandler) Bookings(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	details, err := h.BookingRepo.ListByUser(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

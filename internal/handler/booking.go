package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MyNameJaeff/ByteAndBrew/internal/booking"
	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
	"github.com/MyNameJaeff/ByteAndBrew/internal/queue"
	"github.com/MyNameJaeff/ByteAndBrew/internal/repository"
)

// BookingHandler serves the booking lifecycle.  All mutations go
// through the booking service so the availability check and the write
// stay atomic; the handler's own repositories are read-only.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Tables    *repository.TableRepo
	Customers *repository.CustomerRepo
	Svc       *booking.Service
	Events    *queue.Publisher
}

type bookingInput struct {
	StartTime      time.Time `json:"startTime"`
	NumberOfGuests int       `json:"numberOfGuests"`
	TableID        uint64    `json:"tableId"`
	CustomerID     uint64    `json:"customerId"`
}

func (in bookingInput) toCreateInput() booking.CreateInput {
	return booking.CreateInput{
		StartTime:      in.StartTime.UTC(),
		NumberOfGuests: in.NumberOfGuests,
		TableID:        in.TableID,
		CustomerID:     in.CustomerID,
	}
}

// writeBookingError maps booking service sentinels to HTTP responses.
// Referenced entities missing on a create or update are the caller's
// fault (400); only the booking itself being absent is 404.
func writeBookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrTableNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table not found"})
	case errors.Is(err, booking.ErrCustomerNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer not found"})
	case errors.Is(err, booking.ErrInvalidGuestCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "numberOfGuests must be between 1 and 12"})
	case errors.Is(err, booking.ErrCapacityExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "numberOfGuests exceeds the table capacity"})
	case errors.Is(err, booking.ErrCustomerExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "customer with this phone number already exists"})
	case errors.Is(err, booking.ErrSlotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "table is not available at the requested time"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

// GetAll handles GET /api/bookings.
func (h *BookingHandler) GetAll(c echo.Context) error {
	bookings, err := h.Bookings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// GetByID handles GET /api/bookings/:id.
func (h *BookingHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, b)
}

// AvailableTimes handles GET /api/bookings/available-times?tableId&date.
// It returns the already-booked start times for that table on that
// day so the wizard can grey out taken slots.
func (h *BookingHandler) AvailableTimes(c echo.Context) error {
	tableID, err := strconv.ParseUint(c.QueryParam("tableId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tableId"})
	}
	day, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	ctx := c.Request().Context()
	if _, err := h.Tables.GetByID(ctx, tableID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	times, err := h.Bookings.StartTimesForDay(ctx, tableID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, times)
}

// Create handles POST /api/bookings (admin console, existing customer).
func (h *BookingHandler) Create(c echo.Context) error {
	var body bookingInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.StartTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime is required"})
	}

	b, err := h.Svc.Create(c.Request().Context(), body.toCreateInput())
	if err != nil {
		return writeBookingError(c, err)
	}
	h.publishEvent(c.Request().Context(), queue.EventBookingCreated, b)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/bookings/%d", b.ID))
	return c.JSON(http.StatusCreated, b)
}

// CreateWithCustomer handles POST /api/bookings/customerAndBooking, the
// public wizard's one-shot endpoint: find or create the customer by
// phone number and book the table in a single transaction.
func (h *BookingHandler) CreateWithCustomer(c echo.Context) error {
	var body struct {
		customerInput
		bookingInput
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.customerInput.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if body.StartTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime is required"})
	}

	b, err := h.Svc.CreateForGuest(c.Request().Context(), body.Name, body.PhoneNumber, body.bookingInput.toCreateInput())
	if err != nil {
		return writeBookingError(c, err)
	}
	h.publishEvent(c.Request().Context(), queue.EventBookingCreated, b)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/bookings/%d", b.ID))
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /api/bookings/:id.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body bookingInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.StartTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime is required"})
	}

	b, err := h.Svc.Update(c.Request().Context(), id, body.toCreateInput())
	if err != nil {
		return writeBookingError(c, err)
	}
	h.publishEvent(c.Request().Context(), queue.EventBookingUpdated, b)
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	// Read before delete so the cancellation event still carries the
	// booking details.
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return writeBookingError(c, err)
	}
	h.publishEvent(ctx, queue.EventBookingCancelled, b)
	return c.NoContent(http.StatusNoContent)
}

// publishEvent emits a booking event enriched with the table number and
// customer name.  Lookups and publishing are best effort: the booking
// already committed, so a broken broker only costs the audit line.
func (h *BookingHandler) publishEvent(ctx context.Context, kind string, b *model.Booking) {
	ev := queue.BookingEvent{
		Kind:           kind,
		BookingID:      b.ID,
		TableID:        b.TableID,
		CustomerID:     b.CustomerID,
		StartTime:      b.StartTime.UTC().Format(time.RFC3339),
		NumberOfGuests: b.NumberOfGuests,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if t, err := h.Tables.GetByID(ctx, b.TableID); err == nil {
		ev.TableNumber = t.TableNumber
	}
	if cust, err := h.Customers.GetByID(ctx, b.CustomerID); err == nil {
		ev.CustomerName = cust.Name
	}
	h.Events.Publish(ctx, ev)
}

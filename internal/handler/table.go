package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MyNameJaeff/ByteAndBrew/internal/availability"
	"github.com/MyNameJaeff/ByteAndBrew/internal/booking"
	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
	"github.com/MyNameJaeff/ByteAndBrew/internal/repository"
)

// TableHandler serves table CRUD and the public availability query.
// Now is injected so tests can pin the clock used for the isBooked
// flag; a nil Now falls back to time.Now.
type TableHandler struct {
	Tables   *repository.TableRepo
	Bookings *repository.BookingRepo
	Engine   *availability.Engine
	Svc      *booking.Service
	Now      func() time.Time
}

// tableResponse is the wire shape for a table.  Anonymous callers get
// the isBooked flag with an empty booking list; authenticated staff
// additionally see the bookings themselves.
type tableResponse struct {
	ID          uint64          `json:"id"`
	TableNumber int             `json:"tableNumber"`
	Capacity    int             `json:"capacity"`
	IsBooked    bool            `json:"isBooked"`
	Bookings    []model.Booking `json:"bookings"`
}

func isAdmin(c echo.Context) bool {
	role, ok := c.Get("role").(string)
	return ok && role == "ADMIN"
}

func (h *TableHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *TableHandler) toResponse(t model.Table, bookings []model.Booking, admin bool) tableResponse {
	now := h.now()
	booked := false
	for _, b := range bookings {
		if b.StartTime.After(now) {
			booked = true
			break
		}
	}
	if !admin {
		bookings = []model.Booking{}
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return tableResponse{
		ID:          t.ID,
		TableNumber: t.TableNumber,
		Capacity:    t.Capacity,
		IsBooked:    booked,
		Bookings:    bookings,
	}
}

// GetAll handles GET /api/tables.
func (h *TableHandler) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	tables, err := h.Tables.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	all, err := h.Bookings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	byTable := make(map[uint64][]model.Booking, len(tables))
	for _, b := range all {
		byTable[b.TableID] = append(byTable[b.TableID], b)
	}
	admin := isAdmin(c)
	out := make([]tableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, h.toResponse(t, byTable[t.ID], admin))
	}
	return c.JSON(http.StatusOK, out)
}

// GetByID handles GET /api/tables/:id.
func (h *TableHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	bookings, err := h.Bookings.ListByTable(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, h.toResponse(*t, bookings, isAdmin(c)))
}

// Available handles GET /api/tables/available?date&time&people.  The
// window checked is the standard two-hour slot starting at the given
// date and time.  No qualifying table is reported as 404 so the
// booking wizard can distinguish "none free" from an empty restaurant.
func (h *TableHandler) Available(c echo.Context) error {
	people, err := strconv.Atoi(c.QueryParam("people"))
	if err != nil || people <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "people must be a positive number"})
	}
	start, err := parseSlotStart(c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
	}

	tables, err := h.Engine.FindAvailableTables(c.Request().Context(), start, people)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if len(tables) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no tables available for the requested time and party size"})
	}
	return c.JSON(http.StatusOK, tables)
}

// parseSlotStart combines the date and time query parameters into a UTC
// slot start.
func parseSlotStart(date, tod string) (time.Time, error) {
	if tod == "" {
		return time.Parse("2006-01-02", date)
	}
	return time.Parse("2006-01-02 15:04", date+" "+tod)
}

type tableInput struct {
	TableNumber int `json:"tableNumber"`
	Capacity    int `json:"capacity"`
}

func (in tableInput) validate() string {
	switch {
	case in.TableNumber < 1 || in.TableNumber > model.MaxTableNumber:
		return "tableNumber must be between 1 and 200"
	case in.Capacity < 1 || in.Capacity > model.MaxTableCapacity:
		return "capacity must be between 1 and 12"
	}
	return ""
}

// Create handles POST /api/tables.
func (h *TableHandler) Create(c echo.Context) error {
	var body tableInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	t := &model.Table{TableNumber: body.TableNumber, Capacity: body.Capacity}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTableNumberTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /api/tables/:id.  A capacity reduction is
// rejected while a future booking holds more guests than the table
// would still seat.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body tableInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	cur, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Capacity < cur.Capacity {
		if err := h.Svc.GuardCapacityReduction(ctx, id, body.Capacity); err != nil {
			if errors.Is(err, booking.ErrReferentialConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "a future booking has more guests than the new capacity"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}

	t := &model.Table{ID: id, TableNumber: body.TableNumber, Capacity: body.Capacity}
	if err := h.Tables.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrTableNumberTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /api/tables/:id.  Tables with future bookings
// cannot be removed; past bookings alone also block the delete because
// the foreign key is restrictive, which keeps the booking history
// intact.
func (h *TableHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Svc.GuardTableDelete(ctx, id); err != nil {
		if errors.Is(err, booking.ErrReferentialConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has future bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Tables.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrTableInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
	"github.com/MyNameJaeff/ByteAndBrew/internal/repository"
)

const (
	maxCustomerNameLen = 100
	maxPhoneNumberLen  = 20
)

// CustomerHandler serves customer CRUD.  Creation is public so the
// booking wizard can register walk-in guests; everything else is
// admin-only.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

type customerInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func (in *customerInput) validate() string {
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	switch {
	case in.Name == "":
		return "name is required"
	case len(in.Name) > maxCustomerNameLen:
		return "name must be at most 100 characters"
	case in.PhoneNumber == "":
		return "phoneNumber is required"
	case len(in.PhoneNumber) > maxPhoneNumberLen:
		return "phoneNumber must be at most 20 characters"
	}
	return ""
}

// GetAll handles GET /api/customers.
func (h *CustomerHandler) GetAll(c echo.Context) error {
	customers, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, customers)
}

// GetByID handles GET /api/customers/:id.
func (h *CustomerHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Search handles GET /api/customers/search?phoneNumber=.
func (h *CustomerHandler) Search(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phoneNumber"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phoneNumber query parameter is required"})
	}
	cust, err := h.Customers.GetByPhone(c.Request().Context(), phone)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var body customerInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cust := &model.Customer{Name: body.Name, PhoneNumber: body.PhoneNumber}
	if err := h.Customers.Create(c.Request().Context(), cust); err != nil {
		if errors.Is(err, repository.ErrPhoneNumberTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer with this phone number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create customer"})
	}
	return c.JSON(http.StatusCreated, cust)
}

// Update handles PUT /api/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body customerInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cust := &model.Customer{ID: id, Name: body.Name, PhoneNumber: body.PhoneNumber}
	if err := h.Customers.Update(c.Request().Context(), cust); err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, repository.ErrPhoneNumberTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer with this phone number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Delete handles DELETE /api/customers/:id.  Customers with bookings
// cannot be removed; the bookings must be deleted first.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, repository.ErrCustomerInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

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

// MenuHandler serves menu item CRUD plus the public popular listing.
type MenuHandler struct {
	Menu *repository.MenuRepo
}

type menuItemInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	IsPopular   bool    `json:"isPopular"`
	ImageUrl    *string `json:"imageUrl"`
}

func (in *menuItemInput) validate() string {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "name is required"
	}
	if in.Price < 0 {
		return "price must not be negative"
	}
	if in.ImageUrl != nil && strings.TrimSpace(*in.ImageUrl) == "" {
		in.ImageUrl = nil
	}
	return ""
}

func (in *menuItemInput) toModel(id uint64) *model.MenuItem {
	return &model.MenuItem{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		IsPopular:   in.IsPopular,
		ImageUrl:    in.ImageUrl,
	}
}

// GetAll handles GET /api/menuitems.
func (h *MenuHandler) GetAll(c echo.Context) error {
	items, err := h.Menu.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetPopular handles GET /api/menuitems/popular.  Only popular items
// with an image are returned; the landing page shows them as cards.
func (h *MenuHandler) GetPopular(c echo.Context) error {
	items, err := h.Menu.ListPopular(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetByID handles GET /api/menuitems/:id.
func (h *MenuHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	item, err := h.Menu.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/menuitems.
func (h *MenuHandler) Create(c echo.Context) error {
	var body menuItemInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	item := body.toModel(0)
	if err := h.Menu.Create(c.Request().Context(), item); err != nil {
		if errors.Is(err, repository.ErrMenuItemNameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item with this name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create menu item"})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/menuitems/:id.
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body menuItemInput
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	item := body.toModel(id)
	if err := h.Menu.Update(c.Request().Context(), item); err != nil {
		switch {
		case errors.Is(err, repository.ErrMenuItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		case errors.Is(err, repository.ErrMenuItemNameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "menu item with this name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/menuitems/:id.
func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Menu.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

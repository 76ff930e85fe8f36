package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
	"github.com/MyNameJaeff/ByteAndBrew/internal/repository"
	"github.com/MyNameJaeff/ByteAndBrew/internal/utils"
)

// minPasswordLen is the minimum accepted admin password length.
const minPasswordLen = 6

// AdminHandler serves admin account management and login.
type AdminHandler struct {
	Admins      *repository.AdminRepo
	JWTSecret   string
	TokenTTLMin int
	BcryptCost  int
}

// Login handles POST /api/admins/login.  Unknown usernames and wrong
// passwords produce the same response so the endpoint does not leak
// which usernames exist.
func (h *AdminHandler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	admin, err := h.Admins.GetByUsername(c.Request().Context(), strings.TrimSpace(body.Username))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
		}
		utils.ErrorLogger.WithError(err).Error("admin login lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !utils.VerifyPassword(admin.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, admin.ID, admin.Username, h.TokenTTLMin)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("token signing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":     tok.Token,
		"adminId":   admin.ID,
		"username":  admin.Username,
		"expiresAt": tok.Exp,
	})
}

// GetAll handles GET /api/admins.
func (h *AdminHandler) GetAll(c echo.Context) error {
	admins, err := h.Admins.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, admins)
}

// GetByID handles GET /api/admins/:id.
func (h *AdminHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	admin, err := h.Admins.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, admin)
}

// Create handles POST /api/admins.
func (h *AdminHandler) Create(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
	}
	if len(body.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
	}
	admin := &model.Admin{Username: username, PasswordHash: hash}
	if err := h.Admins.Create(c.Request().Context(), admin); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create admin"})
	}
	return c.JSON(http.StatusCreated, admin)
}

// Update handles PUT /api/admins/:id.  Either field may be changed; an
// omitted or empty password keeps the current one.
func (h *AdminHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	admin, err := h.Admins.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if u := strings.TrimSpace(body.Username); u != "" {
		admin.Username = u
	}
	if body.Password != "" {
		if len(body.Password) < minPasswordLen {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
		}
		hash, err := utils.HashPassword(body.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
		}
		admin.PasswordHash = hash
	}
	if err := h.Admins.Update(c.Request().Context(), admin); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, admin)
}

// Delete handles DELETE /api/admins/:id.  The last remaining admin
// cannot be deleted, otherwise nobody could sign in again.
func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	n, err := h.Admins.Count(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if n <= 1 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete the last admin"})
	}
	if err := h.Admins.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/MyNameJaeff/ByteAndBrew/internal/handler"
)

func newTestRouter(limited *[]string) *echo.Echo {
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	limiter := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			*limited = append(*limited, c.Request().Method+" "+c.Path())
			return next(c)
		}
	}
	e := echo.New()
	Register(e, Deps{
		Health:    &handler.HealthHandler{},
		Admins:    &handler.AdminHandler{},
		Tables:    &handler.TableHandler{},
		Customers: &handler.CustomerHandler{},
		Bookings:  &handler.BookingHandler{},
		Menu:      &handler.MenuHandler{},
		JWTSecret: "router-test-secret",
		RateLimit: limiter,
		Cache:     passthrough,
	})
	return e
}

// Every /api route, admin surface included, must pass through the rate
// limiter, and the admin surface must reject anonymous callers before
// any handler runs.
func TestRateLimiterCoversAdminRoutes(t *testing.T) {
	var limited []string
	e := newTestRouter(&limited)

	req := httptest.NewRequest(http.MethodPost, "/api/tables", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, limited, "POST /api/tables")
}

func TestRateLimiterCoversPublicRoutes(t *testing.T) {
	var limited []string
	e := newTestRouter(&limited)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/customerAndBooking", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Contains(t, limited, "POST /api/bookings/customerAndBooking")
}

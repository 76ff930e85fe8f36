// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MyNameJaeff/ByteAndBrew/internal/handler"
	"github.com/MyNameJaeff/ByteAndBrew/internal/middleware"
)

// Deps collects everything the routes need.  The rate limiter and the
// response cache come in as ready-made middleware so the router stays
// ignorant of Redis.
type Deps struct {
	Health    *handler.HealthHandler
	Admins    *handler.AdminHandler
	Tables    *handler.TableHandler
	Customers *handler.CustomerHandler
	Bookings  *handler.BookingHandler
	Menu      *handler.MenuHandler

	JWTSecret string
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// Register mounts all routes.  The public surface is what the booking
// wizard and the landing page consume; the /api admin surface requires
// a valid ADMIN token.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health.Healthz)

	pub := e.Group("/api")
	pub.Use(d.RateLimit)

	pub.POST("/admins/login", d.Admins.Login)

	// Table reads are public but show bookings only to staff, so they
	// run behind the optional variant of the auth middleware.  The
	// availability query is cached briefly to absorb wizard polling.
	tables := pub.Group("/tables", middleware.OptionalJWTAuth(d.JWTSecret))
	tables.GET("", d.Tables.GetAll)
	tables.GET("/available", d.Tables.Available, d.Cache)
	tables.GET("/:id", d.Tables.GetByID)

	pub.GET("/bookings", d.Bookings.GetAll)
	pub.GET("/bookings/available-times", d.Bookings.AvailableTimes)
	pub.GET("/bookings/:id", d.Bookings.GetByID)
	pub.POST("/bookings/customerAndBooking", d.Bookings.CreateWithCustomer)

	pub.POST("/customers", d.Customers.Create)

	pub.GET("/menuitems", d.Menu.GetAll, d.Cache)
	pub.GET("/menuitems/popular", d.Menu.GetPopular, d.Cache)
	pub.GET("/menuitems/:id", d.Menu.GetByID)

	admin := e.Group("/api")
	admin.Use(d.RateLimit)
	admin.Use(middleware.JWTAuth(d.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))

	admin.POST("/tables", d.Tables.Create)
	admin.PUT("/tables/:id", d.Tables.Update)
	admin.DELETE("/tables/:id", d.Tables.Delete)

	admin.POST("/bookings", d.Bookings.Create)
	admin.PUT("/bookings/:id", d.Bookings.Update)
	admin.DELETE("/bookings/:id", d.Bookings.Delete)

	admin.GET("/customers", d.Customers.GetAll)
	admin.GET("/customers/search", d.Customers.Search)
	admin.GET("/customers/:id", d.Customers.GetByID)
	admin.PUT("/customers/:id", d.Customers.Update)
	admin.DELETE("/customers/:id", d.Customers.Delete)

	admin.POST("/menuitems", d.Menu.Create)
	admin.PUT("/menuitems/:id", d.Menu.Update)
	admin.DELETE("/menuitems/:id", d.Menu.Delete)

	admin.GET("/admins", d.Admins.GetAll)
	admin.GET("/admins/:id", d.Admins.GetByID)
	admin.POST("/admins", d.Admins.Create)
	admin.PUT("/admins/:id", d.Admins.Update)
	admin.DELETE("/admins/:id", d.Admins.Delete)
}

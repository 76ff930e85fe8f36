package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/MyNameJaeff/ByteAndBrew/internal/availability"
	"github.com/MyNameJaeff/ByteAndBrew/internal/booking"
	"github.com/MyNameJaeff/ByteAndBrew/internal/config"
	"github.com/MyNameJaeff/ByteAndBrew/internal/database"
	"github.com/MyNameJaeff/ByteAndBrew/internal/handler"
	"github.com/MyNameJaeff/ByteAndBrew/internal/middleware"
	"github.com/MyNameJaeff/ByteAndBrew/internal/queue"
	"github.com/MyNameJaeff/ByteAndBrew/internal/repository"
	"github.com/MyNameJaeff/ByteAndBrew/internal/router"
	"github.com/MyNameJaeff/ByteAndBrew/internal/utils"
)

func main() {
	utils.InitLogger()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		utils.ErrorLogger.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("schema bootstrap failed")
	}
	if err := database.Seed(ctx, db, cfg.BcryptCost); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("seeding failed")
	}

	rdb := config.NewRedisClient()

	tableRepo := repository.NewTableRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	menuRepo := repository.NewMenuRepo(db)
	adminRepo := repository.NewAdminRepo(db)

	store := repository.NewBookingStore(db)
	svc := booking.NewService(store, nil)
	engine := availability.NewEngine(bookingRepo, tableRepo)
	events := queue.NewPublisher(cfg.AMQPURL)

	go queue.StartBookingConsumer(cfg.AMQPURL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, router.Deps{
		Health: &handler.HealthHandler{DB: db},
		Admins: &handler.AdminHandler{
			Admins:      adminRepo,
			JWTSecret:   cfg.JWTSecret,
			TokenTTLMin: cfg.AccessTTLMin,
			BcryptCost:  cfg.BcryptCost,
		},
		Tables: &handler.TableHandler{
			Tables:   tableRepo,
			Bookings: bookingRepo,
			Engine:   engine,
			Svc:      svc,
		},
		Customers: &handler.CustomerHandler{Customers: customerRepo},
		Bookings: &handler.BookingHandler{
			Bookings:  bookingRepo,
			Tables:    tableRepo,
			Customers: customerRepo,
			Svc:       svc,
			Events:    events,
		},
		Menu:      &handler.MenuHandler{Menu: menuRepo},
		JWTSecret: cfg.JWTSecret,
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.ResponseCache(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	utils.InfoLogger.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("server stopped")
	}
}

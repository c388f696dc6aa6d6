package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/evently/ticketing-backend/internal/config"
	"github.com/evently/ticketing-backend/internal/database"
	"github.com/evently/ticketing-backend/internal/handler"
	"github.com/evently/ticketing-backend/internal/middleware"
	"github.com/evently/ticketing-backend/internal/queue"
	"github.com/evently/ticketing-backend/internal/repository"
	"github.com/evently/ticketing-backend/internal/router"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDSN, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	eventRepo := repository.NewEventRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)

	eventHandler := handler.NewEventHandler(eventRepo, seatRepo, bookingRepo)
	seatHandler := handler.NewSeatHandler(eventRepo, seatRepo)
	bookingHandler := handler.NewBookingHandler(eventRepo, seatRepo, bookingRepo)
	userHandler := handler.NewUserHandler(userRepo, bookingRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsRepo)
	healthHandler := handler.NewHealthHandler(db)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	// Redis is optional: without it the limiter and cache become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterPublic(e, eventHandler, seatHandler, bookingHandler, userHandler, healthHandler, cacheMW)
	router.RegisterAdmin(e, eventHandler, seatHandler, analyticsHandler, cfg.AdminKey)

	// Consume booking confirmations in the background; the consumer runs its
	// own reconnect loop for the life of the process.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

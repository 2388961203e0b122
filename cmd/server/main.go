package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/vehicle-rental-booking/internal/booking"    // Booking core (availability + pricing)
	"github.com/iliyamo/vehicle-rental-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/vehicle-rental-booking/internal/database"   // MySQL connection helper
	"github.com/iliyamo/vehicle-rental-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/vehicle-rental-booking/internal/middleware" // Rate limit + cache middleware
	"github.com/iliyamo/vehicle-rental-booking/internal/queue"      // RabbitMQ booking-event consumer
	"github.com/iliyamo/vehicle-rental-booking/internal/repository" // Data access layer
	"github.com/iliyamo/vehicle-rental-booking/internal/router"     // Route registration
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	// Open the MySQL pool.  Open pings the server, so a bad DSN fails fast.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the token-bucket rate limiter and the GET response cache.
	// Both middlewares degrade to no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	locations := repository.NewLocationRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	periods := repository.NewAvailabilityRepo(db)
	bookings := repository.NewBookingRepo(db)

	// The booking core runs on the transactional store; all availability
	// checks and ledger writes happen inside a single MySQL transaction.
	svc := booking.NewService(repository.NewBookingStore(db))

	authH := handler.NewAuthHandler(cfg, users, tokens)
	locationH := handler.NewLocationHandler(locations)
	vehicleH := handler.NewVehicleHandler(vehicles, periods, locations)
	bookingH := handler.NewBookingHandler(svc, bookings, vehicles)

	e := echo.New()

	// Token-bucket rate limiting on every request, keyed by ip/user/route.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, locationH, vehicleH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, locationH, vehicleH, bookingH, cfg.JWTSecret)

	// Consume booking.confirmed / booking.canceled in the background and
	// append them to logs/booking.log.  The consumer reconnects on failure.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}

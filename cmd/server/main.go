package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/soundhaven/account-service/internal/config"
	"github.com/soundhaven/account-service/internal/database"
	"github.com/soundhaven/account-service/internal/handler"
	"github.com/soundhaven/account-service/internal/queue"
	"github.com/soundhaven/account-service/internal/repository"
	"github.com/soundhaven/account-service/internal/router"
	"github.com/soundhaven/account-service/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found")
	}
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg) // Connect to the configured backend and verify it
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	users := repository.NewUserStore(db, cfg.DBDriver)
	follows := repository.NewFollowStore(db, cfg.DBDriver)
	accounts := service.NewAccountService(users, follows, service.AMQPResetNotifier{}, cfg)

	// The mail worker consumes password.reset jobs in the background and
	// reconnects on its own; it never stops the server.
	go func() {
		if err := queue.StartResetMailWorker(); err != nil {
			log.Printf("mail worker stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter degrades to no-op
	if rdb == nil {
		log.Println("warning: redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(accounts), handler.NewUserHandler(accounts),
		cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}

package main // Entry point of the reservation API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/lock"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(database.Config{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxConns: cfg.DBMaxConns, MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("database: %v", err)
		}
	}
	repo := repository.NewReservationRepo(db)

	// Redis is optional: without it the booking lock is process-local and
	// the rate limiter and cache are disabled.
	rdb := config.NewRedisClient()
	var locker lock.Locker
	if rdb != nil {
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.LockPrefix, cfg.LockTTL, cfg.LockWait)
		log.Printf("redis connected; using distributed booking lock")
	} else {
		locker = lock.NewLocalLocker()
		log.Printf("redis unavailable; using in-process booking lock")
	}

	pub := queue.NewPublisher(config.RabbitURL())
	defer pub.Close()

	svc := service.NewReservationService(repo, locker, pub)
	rooms := handler.NewRoomHandler(svc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, handler.Health(repo))
	router.RegisterPublic(e, handler.NewPublicHandler(svc), rooms, rdb, config.LoadRateLimitConfig(), config.LoadCacheConfig())
	router.RegisterStaff(e, handler.NewReservationHandler(svc), handler.NewAvailabilityHandler(svc.Checker()), rooms, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

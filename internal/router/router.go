package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterRoutes registers the unauthenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
}

// RegisterPublic registers guest-facing routes. The room catalog is cached
// in Redis and the code lookup is rate limited per client IP, since codes
// are short enough to be guessed.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rooms *handler.RoomHandler,
	rdb *redis.Client, rl config.RateLimitConfig, cache config.CacheConfig) {
	e.GET("/v1/rooms", rooms.Rooms, middleware.NewRedisCache(cache, rdb))
	e.GET("/v1/public/reservations/:code", p.GetByCode, middleware.NewTokenBucket(rl, rdb))
}

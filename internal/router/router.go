package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-listings/internal/config"
	"github.com/iliyamo/movie-listings/internal/handler"
	"github.com/iliyamo/movie-listings/internal/middleware"
	"github.com/iliyamo/movie-listings/internal/utils"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Ingestions *handler.IngestionHandler
	Reports    *handler.ReportHandler
}

// Register mounts all routes on e.  rdb may be nil, which disables the
// report cache and the rate limiter.  When the ingestion handler has no
// cache purger, Register gives it one bound to the report cache.
//
//	GET  /healthz                 liveness + database ping
//	POST /v1/ingestions           operator token required
//	GET  /v1/reports/top-genres   cached
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	if h.Ingestions.Cache == nil {
		h.Ingestions.Cache = middleware.NewCachePurger(cacheCfg, rdb)
	}
	limit := middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)

	e.GET("/healthz", h.Health.Health)

	v1 := e.Group("/v1")

	// limited after auth so operators are counted per token subject
	v1.POST("/ingestions", h.Ingestions.Create,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleOperator),
		limit)

	v1.GET("/reports/top-genres", h.Reports.TopGenres,
		limit,
		middleware.NewJSONCache(cacheCfg, rdb))
}

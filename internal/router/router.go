package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/marketplace-api/internal/config"
	"github.com/iliyamo/marketplace-api/internal/handler"    // handlers implement the business logic
	"github.com/iliyamo/marketplace-api/internal/middleware" // middleware for JWT auth, caching, rate limiting
	"github.com/iliyamo/marketplace-api/internal/utils"
)

// RegisterRoutes registers routes that do not require authentication:
// the root banner and a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Login, refresh and
// logout operate on refresh tokens and need no bearer token; /auth/me is
// protected by the JWT middleware.  The login route additionally carries a
// per-IP rate limit when Redis is available.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *utils.TokenService, rdb *redis.Client) {
	g := e.Group("/auth")
	g.POST("/login", a.Login, middleware.NewLoginRateLimit(config.LoadLoginRateConfig(), rdb))
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(tokens))
}

// RegisterProducts registers the catalog endpoints.  Both routes sit behind
// the JWT middleware; listings are additionally served through the Redis
// response cache when one is configured.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, tokens *utils.TokenService, rdb *redis.Client) {
	g := e.Group("/products")
	g.Use(middleware.JWTAuth(tokens))
	g.GET("", p.List, middleware.NewResponseCache(config.LoadCacheConfig(), rdb))
	g.POST("", p.Create)
}

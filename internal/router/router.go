package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/soundhaven/account-service/internal/config"
	"github.com/soundhaven/account-service/internal/handler"    // handlers implementing the endpoints
	"github.com/soundhaven/account-service/internal/middleware" // JWT authentication, role checks and rate limiting
	"github.com/soundhaven/account-service/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints.  Registration, login,
// token refresh and the password-reset pair live under /auth and do not
// require a session; /auth/me and everything under /users require a
// valid access token.  The reset endpoints additionally sit behind the
// Redis rate limiter so the mailbox cannot be flooded (rdb may be nil,
// in which case the limiter is a no-op).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	limited := middleware.RateLimit(rlCfg, rdb)

	g := e.Group("/auth")
	g.POST("/register", a.Register, limited)
	g.POST("/login", a.Login, limited)
	g.POST("/refresh", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword, limited)
	g.POST("/reset-password", a.ResetPassword, limited)

	// Protected routes.  JWTAuth rejects unauthenticated requests before
	// any handler runs; RequireRole rejects tokens carrying an unknown
	// role claim.
	auth := middleware.JWTAuth(jwtSecret)
	roles := middleware.RequireRole(model.RoleUser, model.RoleArtist, model.RoleAdmin)

	g.GET("/me", a.Me, auth, roles)

	users := e.Group("/users")
	users.Use(auth)
	users.Use(roles)
	users.GET("", u.List)
	users.PATCH("/:userId/role", u.UpdateRole)
	users.POST("/:userId/follow", u.Follow)
	users.POST("/:userId/unfollow", u.Unfollow)
	users.GET("/:userId/followers", u.Followers)
	users.GET("/:userId/following", u.Following)
}

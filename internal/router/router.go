package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/2gazb/BargainDrivingServer/internal/config"
	"github.com/2gazb/BargainDrivingServer/internal/handler"
	"github.com/2gazb/BargainDrivingServer/internal/middleware"
	"github.com/2gazb/BargainDrivingServer/internal/model"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
	"github.com/2gazb/BargainDrivingServer/internal/token"
)

// RegisterRoutes registers routes that live outside the API prefix.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the /api/v1 surface: account endpoints with their
// authentication and authorization middleware, and the phrase CRUD
// with its response cache.  The rate limiter applies to the whole API
// group; rdb may be nil, in which case both the limiter and the cache
// are pass-throughs.
func RegisterAPI(
	e *echo.Echo,
	users *handler.UserHandler,
	phrases *handler.PhraseHandler,
	signer *token.Signer,
	store repository.UserStore,
	rdb *redis.Client,
) {
	api := e.Group("/api/v1")
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, signer))

	// The chain per request: bearer token verification first, then the
	// role gate.  Role checks read the verified claims only, so a
	// rejected request never touches the credential store.
	authed := middleware.JWTAuth(signer)
	superadmin := middleware.RequireRole(model.RoleSuperadmin)

	user := api.Group("/user")
	user.POST("/mobile/login", users.LoginMobile)
	user.POST("/mobile/register", users.RegisterMobile)
	user.POST("/refresh", users.Refresh)
	// Admin login authenticates with body credentials before the
	// handler runs; the handler only signs tokens.
	user.POST("/admin/login", users.LoginAdmin, middleware.CredentialAuth(store))
	user.GET("/status", users.Status, authed)
	user.GET("", users.GetAll, authed, superadmin)
	user.POST("/admin/register", users.RegisterAdmin, authed, superadmin)
	user.PATCH("", users.Edit, authed, superadmin)

	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	phrase := api.Group("/phrase")
	phrase.GET("", phrases.List, cached)
	phrase.GET("/:id", phrases.Get, cached)
	phrase.POST("", phrases.Create)
	phrase.PUT("/:id", phrases.Update)
}

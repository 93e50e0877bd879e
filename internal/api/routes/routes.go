package routes

import (
	"net/http"

	_ "fitbattle-service/docs"
	"fitbattle-service/internal/api/handlers"
	"fitbattle-service/internal/api/middleware"
	"fitbattle-service/internal/auth"
	"fitbattle-service/internal/config"
	"fitbattle-service/internal/models"
	"fitbattle-service/internal/repository"
	"fitbattle-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the HTTP layer is built from. Limiter
// may be nil, which disables rate limiting.
type Dependencies struct {
	Config        *config.Config
	DB            *gorm.DB
	Tokens        *auth.TokenManager
	Blacklist     repository.TokenBlacklist
	Limiter       repository.RateLimiter
	UserService   *service.UserService
	FriendService *service.FriendService
	WeightService *service.WeightService
	BattleService *service.BattleService
}

type Router struct {
	engine        *gin.Engine
	cfg           *config.Config
	authHandler   *handlers.AuthHandler
	userHandler   *handlers.UserHandler
	weightHandler *handlers.WeightHandler
	friendHandler *handlers.FriendHandler
	battleHandler *handlers.BattleHandler
	healthHandler *handlers.HealthHandler
	rateLimitMW   *middleware.RateLimitMiddleware
	authMW        *middleware.AuthMiddleware
}

func NewRouter(deps Dependencies) *Router {
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))
	engine.Use(middleware.LogApi())
	engine.Use(middleware.Metrics())

	r := &Router{
		engine:        engine,
		cfg:           deps.Config,
		authHandler:   handlers.NewAuthHandler(deps.UserService),
		userHandler:   handlers.NewUserHandler(deps.UserService),
		weightHandler: handlers.NewWeightHandler(deps.UserService, deps.WeightService),
		friendHandler: handlers.NewFriendHandler(deps.FriendService),
		battleHandler: handlers.NewBattleHandler(deps.UserService, deps.BattleService),
		healthHandler: handlers.NewHealthHandler(deps.DB),
		authMW:        middleware.NewAuthMiddleware(deps.Tokens, deps.Blacklist),
	}
	if deps.Limiter != nil {
		r.rateLimitMW = middleware.NewRateLimitMiddleware(deps.Limiter)
	}
	return r
}

// limitIP is a no-op without a limiter.
func (r *Router) limitIP() gin.HandlerFunc {
	if r.rateLimitMW == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.rateLimitMW.RateLimitIP(r.cfg.RateLimit.Requests, r.cfg.RateLimit.Window)
}

// limitUser is a no-op without a limiter. It must run after RequireAuth.
func (r *Router) limitUser() gin.HandlerFunc {
	if r.rateLimitMW == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.rateLimitMW.RateLimit(r.cfg.RateLimit.UserRequests, r.cfg.RateLimit.UserWindow)
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Code: http.StatusNotFound, Message: "not found"})
	})

	api := r.engine.Group("/api/v1")

	// Public routes (no authentication required)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", r.limitIP(), r.authHandler.Register)
		authRoutes.POST("/login", r.limitIP(), r.authHandler.Login)
		authRoutes.POST("/logout", r.authMW.RequireAuth(), r.authHandler.Logout)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth(), r.limitUser())
	{
		profile := auth.Group("/profile")
		{
			profile.GET("", r.userHandler.GetProfile)
			profile.PUT("", r.userHandler.UpdateProfile)
			profile.PATCH("", r.userHandler.UpdateProfile)
			profile.PUT("/avatar", r.userHandler.UploadAvatar)
		}

		auth.GET("/users/search", r.userHandler.SearchUsersByUsername)

		weights := auth.Group("/weights")
		{
			weights.GET("", r.weightHandler.ListWeights)
			weights.POST("", r.weightHandler.RecordWeight)
		}

		friends := auth.Group("/friends")
		{
			friends.GET("", r.friendHandler.ListFriends)
			friends.GET("/requests", r.friendHandler.ListRequests)
			friends.POST("/requests", r.friendHandler.SendRequest)
			friends.PUT("/requests/:id/:action", r.friendHandler.RespondToRequest)
			friends.DELETE("/:id", r.friendHandler.RemoveFriend)
		}

		battles := auth.Group("/battles")
		{
			battles.GET("", r.battleHandler.ListBattles)
			battles.POST("", r.battleHandler.CreateBattle)
			battles.GET("/invitations/pending", r.battleHandler.PendingInvitations)
			battles.POST("/invitations/:id/accept", r.battleHandler.AcceptInvitation)
			battles.POST("/invitations/:id/reject", r.battleHandler.RejectInvitation)
			battles.GET("/:id", r.battleHandler.GetBattle)
			battles.DELETE("/:id", r.battleHandler.DeleteBattle)
			battles.POST("/:id/start", r.battleHandler.StartBattle)
			battles.POST("/:id/join", r.battleHandler.JoinBattle)
			battles.DELETE("/:id/leave", r.battleHandler.LeaveBattle)
			battles.GET("/:id/leaderboard", r.battleHandler.Leaderboard)
			battles.POST("/:id/invite", r.battleHandler.Invite)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

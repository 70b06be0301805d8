package http

import (
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/config"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/handlers"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/middleware"
	"github.com/tmavroeid/rockpaperscissors-game/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the pieces the router wires together.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Hub     *ws.Hub // nil disables /ws
}

// NewRouter builds the gin engine with global middleware.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Metrics())
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps, cfg *config.Config) {
	apiRateLimit, apiRateWindow := 120, time.Minute
	gameRateLimit, gameRateWindow := 60, time.Minute
	allowedOrigin := ""
	if cfg != nil {
		apiRateLimit = cfg.APIRateLimit
		apiRateWindow = cfg.APIRateWindow
		gameRateLimit = cfg.GameRateLimit
		gameRateWindow = cfg.GameRateWindow
		allowedOrigin = cfg.AllowedOrigin
	}

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, d.Handler, gameRateLimit, gameRateWindow)

	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, allowedOrigin))
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, gameRateLimit int, gameRateWindow time.Duration) {
	if h.DevMode() {
		api.POST("/auth/dev", h.DevAuth)
	}

	// Token ledger
	api.GET("/token/info", h.TokenInfo)
	api.GET("/token/balance", middleware.JWT(), h.TokenBalance)
	api.POST("/token/approve", middleware.JWT(), h.TokenApprove)
	if h.DevMode() {
		api.POST("/token/mint", middleware.JWT(), h.TokenMint)
		api.POST("/token/burn", middleware.JWT(), h.TokenBurn)
	}

	// Escrow balance
	api.POST("/deposit", middleware.JWT(), h.Deposit)
	api.GET("/balance", middleware.JWT(), h.Balance)

	// Game rate limiter middleware (per account, not per IP)
	gameRL := middleware.GameRateLimit(gameRateLimit, gameRateWindow)

	games := api.Group("/games")
	games.Use(middleware.JWT())
	{
		games.POST("", gameRL, h.StartGame)
		games.GET("/:key", h.GetGame)
		games.GET("/:key/events", h.GameEvents)
		games.GET("/:key/history", h.GameHistory)
		games.POST("/:key/player-one", gameRL, h.PlayerOneCommit)
		games.POST("/:key/player-two", gameRL, h.PlayerTwoCommit)
		games.POST("/:key/resolve", gameRL, h.Resolve)
		games.POST("/:key/withdraw", h.Withdraw)
		games.POST("/:key/reclaim", h.Reclaim)
	}

	// Account history
	api.GET("/me/games", middleware.JWT(), h.MyGames)
	api.GET("/me/transactions", middleware.JWT(), h.MyTransactions)
	api.GET("/me/audit", middleware.JWT(), h.MyAudit)
	api.GET("/me/events", middleware.JWT(), h.MyEvents)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/config"
	"github.com/tmavroeid/rockpaperscissors-game/internal/db"
	"github.com/tmavroeid/rockpaperscissors-game/internal/events"
	httpServer "github.com/tmavroeid/rockpaperscissors-game/internal/http"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/handlers"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/middleware"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
	"github.com/tmavroeid/rockpaperscissors-game/internal/repository"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"
	"github.com/tmavroeid/rockpaperscissors-game/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON, cfg.LogFile)
	service.InitJWT(cfg.JWTSecret)

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]handlers.Check{}
	notifiers := service.Notifiers{service.LogNotifier{}, service.Metrics{}}

	var (
		ledger       token.Ledger
		store        service.Store
		audit        *service.AuditService
		transactions handlers.TransactionReader
		history      handlers.GameHistory
		feed         handlers.EventFeed
	)

	switch cfg.TokenBackend {
	case config.TokenBackendPostgres:
		dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
		defer dbPool.Close()
		checks["database"] = dbPool.Ping

		escrowRepo := repository.NewEscrowRepository(dbPool)
		txRepo := repository.NewTransactionRepository(dbPool)
		audit = service.NewAuditService(repository.NewAuditRepository(dbPool))

		ledger = token.NewPostgres(dbPool)
		store = escrowRepo
		history = escrowRepo
		transactions = txRepo
		notifiers = append(notifiers, audit, service.NewJournal(txRepo))
	default:
		logger.Warn("using in-memory token ledger; state is lost on restart")
		ledger = token.NewMemory()
	}

	hub := ws.NewHub()
	streamCtx, stopStream := context.WithCancel(context.Background())
	defer stopStream()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	middleware.SetRedisClient(rdb)
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		// the hub reads the shared channel so every instance sees every event
		publisher := events.NewRedisPublisher(rdb)
		feed = publisher
		notifiers = append(notifiers, publisher)
		go hub.Consume(publisher.Subscribe(streamCtx))
	} else {
		notifiers = append(notifiers, hub)
	}

	engine := service.NewEngineWithConfig(token.NewCustody(ledger, cfg.EscrowAccount), cfg.EscrowAccount, service.EngineConfig{
		Notifier:    notifiers,
		Store:       store,
		MaxDuration: cfg.MaxGameDuration,
	})
	if err := engine.Restore(context.Background()); err != nil {
		logger.Fatal("failed to restore engine state", "error", err)
	}

	h := handlers.NewHandlerWithConfig(engine, ledger, handlers.HandlerConfig{DevMode: cfg.DevMode})
	h.Audit = audit
	h.Transactions = transactions
	h.History = history
	h.Events = feed

	r := httpServer.NewRouter()

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler(version, checks),
		Hub:     hub,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           httpServer.WithCORS(r, cfg.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started",
			"port", cfg.AppPort,
			"version", version,
			"token_backend", cfg.TokenBackend,
			"custody", cfg.EscrowAccount,
			"dev_mode", cfg.DevMode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

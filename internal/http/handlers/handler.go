package handlers

import (
	"context"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/middleware"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/gin-gonic/gin"
)

// TransactionReader lists journal entries.
type TransactionReader interface {
	GetByAccount(ctx context.Context, account string, limit int) ([]*domain.Transaction, error)
}

// GameHistory lists stored game records, archived ones included.
type GameHistory interface {
	GetByAccount(ctx context.Context, account string, limit int) ([]*domain.Game, error)
	GetHistoryByKey(ctx context.Context, key string) ([]*domain.Game, error)
}

// EventFeed replays recent engine events.
type EventFeed interface {
	RecentByGame(ctx context.Context, key string, n int) ([]domain.Event, error)
	RecentByAccount(ctx context.Context, account string, n int) ([]domain.Event, error)
}

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	DevMode         bool
	DefaultDuration time.Duration
}

// Handler serves the escrow API. Optional collaborators may be nil; the
// endpoints that need them then answer 503 or fall back to engine memory.
type Handler struct {
	Engine       *service.Engine
	Ledger       token.Ledger
	Audit        *service.AuditService
	Transactions TransactionReader
	History      GameHistory
	Events       EventFeed

	cfg HandlerConfig
}

// NewHandlerWithConfig creates a handler with custom configuration
func NewHandlerWithConfig(engine *service.Engine, ledger token.Ledger, cfg HandlerConfig) *Handler {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = time.Hour
	}
	return &Handler{
		Engine: engine,
		Ledger: ledger,
		cfg:    cfg,
	}
}

// DevMode reports whether development-only endpoints are enabled.
func (h *Handler) DevMode() bool {
	return h.cfg.DevMode
}

// getAccount извлекает account из контекста Gin
func getAccount(c *gin.Context) (string, bool) {
	return middleware.Account(c)
}

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"

	"github.com/google/uuid"
)

const (
	persistTimeout = 5 * time.Second
	notifyTimeout  = 5 * time.Second
)

// Token is the slice of the fungible-token ledger the engine consumes.
// TransferIn pulls approved funds into the engine's custody account and
// TransferOut releases funds from it.
type Token interface {
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	TransferIn(ctx context.Context, from string, amount int64) error
	TransferOut(ctx context.Context, to string, amount int64) error
}

// Store persists engine state so it survives restarts.
type Store interface {
	SaveBalance(ctx context.Context, account string, amount int64) error
	SaveGame(ctx context.Context, g *domain.Game) error
	LoadBalances(ctx context.Context) (map[string]int64, error)
	LoadLiveGames(ctx context.Context) ([]*domain.Game, error)
}

// EngineConfig holds optional engine collaborators.
type EngineConfig struct {
	Notifier    Notifier
	Store       Store
	MaxDuration time.Duration    // zero means unlimited
	Now         func() time.Time // defaults to time.Now
}

// Engine is the escrow and game engine. It owns the internal balance of
// every account (funds held in custody on its behalf) and the game records
// keyed by game key.
//
// Every operation holds a single lock for its whole duration, token calls
// included, so each call applies completely or not at all. Notifications
// are delivered after the lock is released.
type Engine struct {
	mu       sync.Mutex
	token    Token
	custody  string
	balances map[string]int64
	games    map[string]*domain.Game
	archive  []*domain.Game

	notifier    Notifier
	store       Store
	maxDuration time.Duration
	now         func() time.Time
	log         *slog.Logger
}

// NewEngine creates an engine holding funds in the custody account.
func NewEngine(token Token, custody string) *Engine {
	return NewEngineWithConfig(token, custody, EngineConfig{})
}

// NewEngineWithConfig creates an engine with custom collaborators.
func NewEngineWithConfig(token Token, custody string, cfg EngineConfig) *Engine {
	e := &Engine{
		token:       token,
		custody:     custody,
		balances:    make(map[string]int64),
		games:       make(map[string]*domain.Game),
		notifier:    cfg.Notifier,
		store:       cfg.Store,
		maxDuration: cfg.MaxDuration,
		now:         cfg.Now,
		log:         logger.With("component", "escrow"),
	}
	if e.notifier == nil {
		e.notifier = Notifiers{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Custody returns the account holding deposited funds on the token ledger.
func (e *Engine) Custody() string {
	return e.custody
}

// BalanceOf returns the internal balance of account.
func (e *Engine) BalanceOf(account string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balances[account]
}

// Game returns a copy of the record currently bound to key.
func (e *Engine) Game(key string) (*domain.Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.games[key]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.Clone(), nil
}

// GamesOf returns copies of the records bound to keys that involve account.
func (e *Engine) GamesOf(account string) []*domain.Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res []*domain.Game
	for _, g := range e.games {
		if g.IsPlayer(account) {
			res = append(res, g.Clone())
		}
	}
	return res
}

// Archived returns settled records that were replaced by a reused key
// since the process started.
func (e *Engine) Archived() []*domain.Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := make([]*domain.Game, 0, len(e.archive))
	for _, g := range e.archive {
		res = append(res, g.Clone())
	}
	return res
}

// Restore loads balances and live games from the store. It is meant to
// run once at startup, before the engine serves requests.
func (e *Engine) Restore(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	balances, err := e.store.LoadBalances(ctx)
	if err != nil {
		return err
	}
	games, err := e.store.LoadLiveGames(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for account, amount := range balances {
		e.balances[account] = amount
	}
	for _, g := range games {
		e.games[g.Key] = g
	}
	e.log.Info("engine state restored", "balances", len(balances), "games", len(games))
	return nil
}

// persist writes changed state to the store. Memory is authoritative for
// the running process, so failures are logged rather than returned. The
// write is detached from ctx: once the token side has moved, a caller
// going away must not drop the matching state.
// Requires e.mu held.
func (e *Engine) persist(ctx context.Context, g *domain.Game, accounts ...string) {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	for _, account := range accounts {
		if err := e.store.SaveBalance(ctx, account, e.balances[account]); err != nil {
			e.log.Error("failed to persist balance", "error", err, "account", account)
		}
	}
	if g != nil {
		if err := e.store.SaveGame(ctx, g); err != nil {
			e.log.Error("failed to persist game", "error", err, "game_key", g.Key, "game_id", g.ID)
		}
	}
}

func (e *Engine) newEvent(typ domain.EventType, g *domain.Game) domain.Event {
	ev := domain.Event{
		ID:   uuid.NewString(),
		Type: typ,
		At:   e.now().UTC(),
	}
	if g != nil {
		ev.GameID = g.ID
		ev.GameKey = g.Key
	}
	return ev
}

// emit delivers ev to the notifiers. The operation has already applied,
// so delivery does not inherit the caller's cancellation.
func (e *Engine) emit(ctx context.Context, ev domain.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	e.notifier.Notify(ctx, ev)
}

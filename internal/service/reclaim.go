package service

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
)

// Reclaim closes a game that missed its deadline before both players
// committed. Either player may call it. Player one's stake, if any, goes
// back to player one's internal balance and the key becomes free.
func (e *Engine) Reclaim(ctx context.Context, caller, key string) (*domain.Game, error) {
	ev, g, err := e.reclaim(ctx, caller, key)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, ev)
	return g, nil
}

func (e *Engine) reclaim(ctx context.Context, caller, key string) (domain.Event, *domain.Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.games[key]
	if !ok {
		return domain.Event{}, nil, ErrGameNotFound
	}
	if !g.IsPlayer(caller) {
		return domain.Event{}, nil, ErrUnauthorized
	}
	if g.Status != domain.GameStatusCreated && g.Status != domain.GameStatusPlayerOneCommitted {
		return domain.Event{}, nil, ErrInvalidState
	}
	now := e.now().UTC()
	if now.Before(g.Deadline) {
		return domain.Event{}, nil, ErrDeadlineNotReached
	}

	refund := g.StakeOne
	e.balances[g.PlayerOne] += refund
	g.Status = domain.GameStatusResolved
	g.Outcome = domain.OutcomeExpired
	g.UpdatedAt = now
	e.persist(ctx, g, g.PlayerOne)

	ev := e.newEvent(domain.EventExpired, g)
	ev.Account = g.PlayerOne
	ev.Counterparty = g.PlayerTwo
	ev.Amount = refund

	e.log.Info("game expired", "game_key", key, "refund", refund, "by", caller)
	return ev, g.Clone(), nil
}

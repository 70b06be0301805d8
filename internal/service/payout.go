package service

import (
	"context"
	"fmt"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/game"
)

// Resolve decides a fully committed game. Either player may call it,
// naming the other as opponent.
//
// On a decisive outcome the whole pool is credited to the winner's internal
// balance and must then be claimed with Withdraw. On a tie each stake goes
// back to its owner's internal balance and the game settles immediately.
func (e *Engine) Resolve(ctx context.Context, caller, key, opponent string) (*domain.Game, error) {
	ev, g, err := e.resolve(ctx, caller, key, opponent)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, ev)
	return g, nil
}

func (e *Engine) resolve(ctx context.Context, caller, key, opponent string) (domain.Event, *domain.Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.games[key]
	if !ok {
		return domain.Event{}, nil, ErrGameNotFound
	}
	if !g.IsPlayer(caller) || g.OpponentOf(caller) != opponent {
		return domain.Event{}, nil, ErrUnauthorized
	}
	if g.Status != domain.GameStatusPlayerTwoCommitted {
		return domain.Event{}, nil, ErrInvalidState
	}

	g.Outcome = game.Decide(g.ChoiceOne, g.ChoiceTwo)
	g.Status = domain.GameStatusResolved
	g.UpdatedAt = e.now().UTC()

	var ev domain.Event
	switch g.Outcome {
	case domain.OutcomeTie:
		e.balances[g.PlayerOne] += g.StakeOne
		e.balances[g.PlayerTwo] += g.StakeTwo

		ev = e.newEvent(domain.EventTied, g)
		ev.Account = g.PlayerOne
		ev.Counterparty = g.PlayerTwo
		ev.Amount = g.StakeOne
		ev.CounterpartyAmount = g.StakeTwo
	default:
		g.Winner, g.Payout = g.PlayerOne, g.Pool
		if g.Outcome == domain.OutcomePlayerTwoWins {
			g.Winner = g.PlayerTwo
		}
		e.balances[g.Winner] += g.Payout

		ev = e.newEvent(domain.EventCompleted, g)
		ev.Account = g.Winner
		ev.Counterparty = g.OpponentOf(g.Winner)
		ev.Choice = g.WinningChoice()
		ev.Amount = g.Payout
	}
	e.persist(ctx, g, g.PlayerOne, g.PlayerTwo)

	e.log.Info("game resolved", "game_key", key, "outcome", g.Outcome, "winner", g.Winner, "pool", g.Pool)
	return ev, g.Clone(), nil
}

// Withdraw sends the winner's payout from custody to the winner's external
// account. Only the recorded winner may call it, and only once.
//
// The payout is the full pool, both stakes.
//
// If the winner has since staked the credited funds in another game the
// call fails with ErrInsufficientBalance until they are back.
func (e *Engine) Withdraw(ctx context.Context, caller, key string) (*domain.Game, error) {
	ev, g, err := e.withdraw(ctx, caller, key)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, ev)
	return g, nil
}

func (e *Engine) withdraw(ctx context.Context, caller, key string) (domain.Event, *domain.Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.games[key]
	if !ok {
		return domain.Event{}, nil, ErrGameNotFound
	}
	if g.Status != domain.GameStatusResolved || !g.Outcome.Decisive() || caller != g.Winner {
		return domain.Event{}, nil, ErrNotWinner
	}
	if g.Withdrawn {
		return domain.Event{}, nil, ErrAlreadyWithdrawn
	}
	if e.balances[caller] < g.Payout {
		return domain.Event{}, nil, ErrInsufficientBalance
	}

	if err := e.token.TransferOut(ctx, caller, g.Payout); err != nil {
		return domain.Event{}, nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.balances[caller] -= g.Payout
	g.Withdrawn = true
	g.UpdatedAt = e.now().UTC()
	e.persist(ctx, g, caller)

	ev := e.newEvent(domain.EventWithdrawn, g)
	ev.Account = caller
	ev.Amount = g.Payout

	e.log.Info("prize withdrawn", "game_key", key, "account", caller, "amount", g.Payout)
	return ev, g.Clone(), nil
}

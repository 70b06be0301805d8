package service

import (
	"context"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/google/uuid"
)

// StartGame opens a game between caller (player one) and opponent (player
// two) under key. The game accepts commits until now+duration.
//
// A key bound to a record that is not yet settled cannot be reused.
func (e *Engine) StartGame(ctx context.Context, caller, opponent, key string, duration time.Duration) (*domain.Game, error) {
	ev, g, err := e.startGame(ctx, caller, opponent, key, duration)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, ev)
	return g, nil
}

func (e *Engine) startGame(ctx context.Context, caller, opponent, key string, duration time.Duration) (domain.Event, *domain.Game, error) {
	if key == "" {
		return domain.Event{}, nil, ErrInvalidKey
	}
	if caller == "" || opponent == "" || opponent == caller {
		return domain.Event{}, nil, ErrInvalidOpponent
	}
	if duration <= 0 || (e.maxDuration > 0 && duration > e.maxDuration) {
		return domain.Event{}, nil, ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.games[key]; ok {
		if !prev.Settled() {
			return domain.Event{}, nil, ErrKeyCollision
		}
		e.archive = append(e.archive, prev)
	}

	now := e.now().UTC()
	g := &domain.Game{
		ID:        uuid.NewString(),
		Key:       key,
		PlayerOne: caller,
		PlayerTwo: opponent,
		Deadline:  now.Add(duration),
		Status:    domain.GameStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.games[key] = g
	e.persist(ctx, g)

	ev := e.newEvent(domain.EventStarted, g)
	ev.Account = g.PlayerOne
	ev.Counterparty = g.PlayerTwo

	e.log.Info("game started", "game_key", key, "player_one", caller, "player_two", opponent, "deadline", g.Deadline)
	return ev, g.Clone(), nil
}

// PlayerOneCommit records player one's hand and locks caller's entire
// internal balance into the game's pool. There is no wager argument: the
// whole balance is always staked, so deposit exactly what you mean to bet.
func (e *Engine) PlayerOneCommit(ctx context.Context, caller string, choice domain.Choice, opponent, key string) (*domain.Game, error) {
	return e.commit(ctx, caller, choice, opponent, key, true)
}

// PlayerTwoCommit records player two's hand and locks caller's entire
// internal balance into the pool. Player one must have committed first.
func (e *Engine) PlayerTwoCommit(ctx context.Context, caller string, choice domain.Choice, opponent, key string) (*domain.Game, error) {
	return e.commit(ctx, caller, choice, opponent, key, false)
}

func (e *Engine) commit(ctx context.Context, caller string, choice domain.Choice, opponent, key string, first bool) (*domain.Game, error) {
	ev, g, err := e.lockStake(ctx, caller, choice, opponent, key, first)
	if err != nil {
		return nil, err
	}
	e.emit(ctx, ev)
	return g, nil
}

func (e *Engine) lockStake(ctx context.Context, caller string, choice domain.Choice, opponent, key string, first bool) (domain.Event, *domain.Game, error) {
	if !choice.Valid() {
		return domain.Event{}, nil, ErrInvalidChoice
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.games[key]
	if !ok {
		return domain.Event{}, nil, ErrGameNotFound
	}

	player, other, want := g.PlayerOne, g.PlayerTwo, domain.GameStatusCreated
	if !first {
		player, other, want = g.PlayerTwo, g.PlayerOne, domain.GameStatusPlayerOneCommitted
	}

	if caller != player || opponent != other {
		return domain.Event{}, nil, ErrUnauthorized
	}
	if g.Status != want {
		return domain.Event{}, nil, ErrInvalidState
	}
	now := e.now().UTC()
	if !now.Before(g.Deadline) {
		return domain.Event{}, nil, ErrDeadlinePassed
	}
	stake := e.balances[caller]
	if stake <= 0 {
		return domain.Event{}, nil, ErrDepositRequired
	}

	e.balances[caller] = 0
	g.Pool += stake
	g.UpdatedAt = now

	evType := domain.EventPlayerOneCommitted
	if first {
		g.ChoiceOne = choice
		g.StakeOne = stake
		g.Status = domain.GameStatusPlayerOneCommitted
	} else {
		g.ChoiceTwo = choice
		g.StakeTwo = stake
		g.Status = domain.GameStatusPlayerTwoCommitted
		evType = domain.EventPlayerTwoCommitted
	}
	e.persist(ctx, g, caller)

	ev := e.newEvent(evType, g)
	ev.Account = caller
	ev.Counterparty = other
	ev.Amount = stake
	ev.Choice = choice

	e.log.Info("commit", "game_key", key, "account", caller, "stake", stake, "pool", g.Pool, "status", g.Status)
	return ev, g.Clone(), nil
}

package service

import (
	"testing"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclaimRefundsPlayerOne(t *testing.T) {
	f := newFixture(t)
	f.deposit(alice, 1000)
	_, err := f.engine.StartGame(f.ctx, alice, bob, gameKey, time.Hour)
	require.NoError(t, err)
	_, err = f.engine.PlayerOneCommit(f.ctx, alice, domain.ChoiceRock, bob, gameKey)
	require.NoError(t, err)

	_, err = f.engine.Reclaim(f.ctx, alice, gameKey)
	assert.ErrorIs(t, err, ErrDeadlineNotReached)

	f.clock.Advance(time.Hour)

	_, err = f.engine.Reclaim(f.ctx, mallory, gameKey)
	assert.ErrorIs(t, err, ErrUnauthorized)

	g, err := f.engine.Reclaim(f.ctx, bob, gameKey)
	require.NoError(t, err)
	assert.Equal(t, domain.GameStatusResolved, g.Status)
	assert.Equal(t, domain.OutcomeExpired, g.Outcome)
	assert.True(t, g.Settled())
	assert.Equal(t, int64(1000), f.engine.BalanceOf(alice))

	ev := f.events.last()
	assert.Equal(t, domain.EventExpired, ev.Type)
	assert.Equal(t, alice, ev.Account)
	assert.Equal(t, int64(1000), ev.Amount)

	_, err = f.engine.Reclaim(f.ctx, alice, gameKey)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.engine.StartGame(f.ctx, alice, bob, gameKey, time.Hour)
	assert.NoError(t, err)
}

func TestReclaimUncommittedGame(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.StartGame(f.ctx, alice, bob, gameKey, time.Minute)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	g, err := f.engine.Reclaim(f.ctx, alice, gameKey)
	require.NoError(t, err)
	assert.Zero(t, g.StakeOne)
	assert.Zero(t, f.engine.BalanceOf(alice))
}

func TestReclaimRejectsFullyCommittedGame(t *testing.T) {
	f := newFixture(t)
	f.committed(domain.ChoiceRock, domain.ChoicePaper)
	f.clock.Advance(2 * time.Hour)

	_, err := f.engine.Reclaim(f.ctx, alice, gameKey)
	assert.ErrorIs(t, err, ErrInvalidState)

	// resolution has no deadline
	g, err := f.engine.Resolve(f.ctx, alice, gameKey, bob)
	require.NoError(t, err)
	assert.Equal(t, bob, g.Winner)
}

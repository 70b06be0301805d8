package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/migrations"
	"github.com/tmavroeid/rockpaperscissors-game/internal/repository"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, migrations.Apply(context.Background(), db, nil))
	return db
}

func TestPostgresLedgerAndStore(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	alice, bob, custody := "alice-"+suffix, "bob-"+suffix, "escrow-"+suffix
	key := "pg-" + suffix

	ledger := token.NewPostgres(db)
	store := repository.NewEscrowRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	engine := service.NewEngineWithConfig(token.NewCustody(ledger, custody), custody, service.EngineConfig{
		Store:    store,
		Notifier: service.Notifiers{service.NewJournal(txRepo), service.NewAuditService(auditRepo)},
	})

	for _, account := range []string{alice, bob} {
		require.NoError(t, ledger.Mint(ctx, account, 1000))
		require.NoError(t, ledger.Approve(ctx, account, custody, 1000))
		_, err := engine.Deposit(ctx, account, 1000)
		require.NoError(t, err)
	}

	_, err := engine.Deposit(ctx, alice, 1)
	assert.ErrorIs(t, err, service.ErrAllowanceInsufficient)

	_, err = engine.StartGame(ctx, alice, bob, key, time.Hour)
	require.NoError(t, err)
	_, err = engine.PlayerOneCommit(ctx, alice, domain.ChoiceScissors, bob, key)
	require.NoError(t, err)

	// a fresh engine picks up the live game and balances
	restarted := service.NewEngineWithConfig(token.NewCustody(ledger, custody), custody, service.EngineConfig{Store: store})
	require.NoError(t, restarted.Restore(ctx))
	assert.Equal(t, int64(1000), restarted.BalanceOf(bob))

	_, err = restarted.PlayerTwoCommit(ctx, bob, domain.ChoicePaper, alice, key)
	require.NoError(t, err)
	g, err := restarted.Resolve(ctx, bob, key, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, g.Winner)

	_, err = restarted.Withdraw(ctx, alice, key)
	require.NoError(t, err)

	bal, err := ledger.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), bal)
	bal, err = ledger.BalanceOf(ctx, custody)
	require.NoError(t, err)
	assert.Zero(t, bal)

	history, err := store.GetHistoryByKey(ctx, key)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Withdrawn)
	assert.Equal(t, domain.ChoicePaper, history[0].ChoiceTwo)

	games, err := store.GetByAccount(ctx, bob, 10)
	require.NoError(t, err)
	assert.Len(t, games, 1)

	txs, err := txRepo.GetByAccount(ctx, alice, 10)
	require.NoError(t, err)
	require.NotEmpty(t, txs)
	assert.Equal(t, domain.TxTypeDeposit, txs[len(txs)-1].Type)

	logs, err := auditRepo.GetByAccount(ctx, alice, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
}

func TestPostgresTransferFromRespectsAllowance(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	owner, spender := "owner-"+suffix, "spender-"+suffix
	ledger := token.NewPostgres(db)

	require.NoError(t, ledger.Mint(ctx, owner, 500))
	require.NoError(t, ledger.Approve(ctx, owner, spender, 200))

	err := ledger.TransferFrom(ctx, spender, owner, spender, 300)
	assert.ErrorIs(t, err, token.ErrInsufficientAllowance)

	require.NoError(t, ledger.TransferFrom(ctx, spender, owner, spender, 200))
	allowance, err := ledger.Allowance(ctx, owner, spender)
	require.NoError(t, err)
	assert.Zero(t, allowance)

	bal, err := ledger.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(300), bal)
}

package repository

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EscrowRepository stores engine balances and game records.
type EscrowRepository struct {
	db *pgxpool.Pool
}

func NewEscrowRepository(db *pgxpool.Pool) *EscrowRepository {
	return &EscrowRepository{db: db}
}

func (r *EscrowRepository) SaveBalance(ctx context.Context, account string, amount int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO escrow_balances (account, balance)
		 VALUES ($1, $2)
		 ON CONFLICT (account) DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()`,
		account, amount,
	)
	return err
}

// SaveGame upserts the record by id. A reused key gets a new row.
func (r *EscrowRepository) SaveGame(ctx context.Context, g *domain.Game) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO escrow_games (id, game_key, player_one, player_two, deadline,
		                           choice_one, choice_two, stake_one, stake_two, pool,
		                           status, outcome, winner, payout, withdrawn, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (id) DO UPDATE SET
		     choice_one = EXCLUDED.choice_one,
		     choice_two = EXCLUDED.choice_two,
		     stake_one  = EXCLUDED.stake_one,
		     stake_two  = EXCLUDED.stake_two,
		     pool       = EXCLUDED.pool,
		     status     = EXCLUDED.status,
		     outcome    = EXCLUDED.outcome,
		     winner     = EXCLUDED.winner,
		     payout     = EXCLUDED.payout,
		     withdrawn  = EXCLUDED.withdrawn,
		     updated_at = EXCLUDED.updated_at`,
		g.ID, g.Key, g.PlayerOne, g.PlayerTwo, g.Deadline,
		int16(g.ChoiceOne), int16(g.ChoiceTwo), g.StakeOne, g.StakeTwo, g.Pool,
		string(g.Status), string(g.Outcome), g.Winner, g.Payout, g.Withdrawn, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

func (r *EscrowRepository) LoadBalances(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT account, balance FROM escrow_balances WHERE balance > 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]int64)
	for rows.Next() {
		var (
			account string
			balance int64
		)
		if err := rows.Scan(&account, &balance); err != nil {
			return nil, err
		}
		res[account] = balance
	}
	return res, rows.Err()
}

// LoadLiveGames returns the newest record of every key that still blocks
// the key: not resolved, or decisive and not withdrawn.
func (r *EscrowRepository) LoadLiveGames(ctx context.Context) ([]*domain.Game, error) {
	rows, err := r.db.Query(ctx, gameColumns+`
		 WHERE status <> 'resolved'
		    OR (outcome IN ('player_one_wins', 'player_two_wins') AND NOT withdrawn)
		 ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByAccount returns the most recent records involving account, archived
// ones included.
func (r *EscrowRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*domain.Game, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, gameColumns+`
		 WHERE player_one = $1 OR player_two = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetHistoryByKey returns every record that was bound to key, newest first.
func (r *EscrowRepository) GetHistoryByKey(ctx context.Context, key string) ([]*domain.Game, error) {
	rows, err := r.db.Query(ctx, gameColumns+`
		 WHERE game_key = $1
		 ORDER BY created_at DESC`,
		key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

const gameColumns = `SELECT id, game_key, player_one, player_two, deadline,
		        choice_one, choice_two, stake_one, stake_two, pool,
		        status, outcome, winner, payout, withdrawn, created_at, updated_at
		 FROM escrow_games`

func scanGames(rows pgx.Rows) ([]*domain.Game, error) {
	var res []*domain.Game
	for rows.Next() {
		var (
			g                    domain.Game
			choiceOne, choiceTwo int16
			status, outcome      string
		)
		if err := rows.Scan(
			&g.ID, &g.Key, &g.PlayerOne, &g.PlayerTwo, &g.Deadline,
			&choiceOne, &choiceTwo, &g.StakeOne, &g.StakeTwo, &g.Pool,
			&status, &outcome, &g.Winner, &g.Payout, &g.Withdrawn, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		g.ChoiceOne = domain.Choice(choiceOne)
		g.ChoiceTwo = domain.Choice(choiceTwo)
		g.Status = domain.GameStatus(status)
		g.Outcome = domain.Outcome(outcome)
		res = append(res, &g)
	}
	return res, rows.Err()
}

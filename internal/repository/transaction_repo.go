package repository

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository stores the per-account journal kept by
// service.Journal.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a journal entry and fills in its id and timestamp.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	meta := tx.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO transactions (account, type, amount, game_key, meta)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		tx.Account, tx.Type, tx.Amount, tx.GameKey, meta,
	).Scan(&tx.ID, &tx.CreatedAt)
}

// GetByAccount returns an account's journal, newest first.
func (r *TransactionRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, account, type, amount, game_key, meta, created_at
		 FROM transactions
		 WHERE account = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[domain.Transaction])
}

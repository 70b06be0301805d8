package token

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a ledger stored in the token_balances and token_allowances
// tables. Every mutation runs in its own transaction.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) TotalSupply(ctx context.Context) (int64, error) {
	var supply int64
	err := p.db.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0)::BIGINT FROM token_balances`).Scan(&supply)
	return supply, err
}

func (p *Postgres) BalanceOf(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := p.db.QueryRow(ctx, `SELECT balance FROM token_balances WHERE account = $1`, account).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

func (p *Postgres) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	var amount int64
	err := p.db.QueryRow(ctx,
		`SELECT amount FROM token_allowances WHERE owner = $1 AND spender = $2`,
		owner, spender,
	).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return amount, err
}

func (p *Postgres) Approve(ctx context.Context, owner, spender string, amount int64) error {
	if owner == "" || spender == "" {
		return ErrZeroAddress
	}
	if amount < 0 {
		return ErrZeroAmount
	}

	_, err := p.db.Exec(ctx,
		`INSERT INTO token_allowances (owner, spender, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (owner, spender) DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()`,
		owner, spender, amount,
	)
	return err
}

func (p *Postgres) Mint(ctx context.Context, to string, amount int64) error {
	if to == "" {
		return ErrZeroAddress
	}
	if amount <= 0 {
		return ErrZeroAmount
	}
	return credit(ctx, p.db, to, amount)
}

func (p *Postgres) Burn(ctx context.Context, from string, amount int64) error {
	if from == "" {
		return ErrZeroAddress
	}
	if amount <= 0 {
		return ErrZeroAmount
	}
	return debit(ctx, p.db, from, amount)
}

func (p *Postgres) Transfer(ctx context.Context, from, to string, amount int64) error {
	if err := checkTransfer(from, to, amount); err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := debit(ctx, tx, from, amount); err != nil {
		return err
	}
	if err := credit(ctx, tx, to, amount); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) TransferFrom(ctx context.Context, spender, owner, to string, amount int64) error {
	if err := checkTransfer(owner, to, amount); err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock and spend allowance
	tag, err := tx.Exec(ctx,
		`UPDATE token_allowances SET amount = amount - $1, updated_at = NOW()
		 WHERE owner = $2 AND spender = $3 AND amount >= $1`,
		amount, owner, spender,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientAllowance
	}

	if err := debit(ctx, tx, owner, amount); err != nil {
		return err
	}
	if err := credit(ctx, tx, to, amount); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func debit(ctx context.Context, db execer, account string, amount int64) error {
	tag, err := db.Exec(ctx,
		`UPDATE token_balances SET balance = balance - $1, updated_at = NOW()
		 WHERE account = $2 AND balance >= $1`,
		amount, account,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func credit(ctx context.Context, db execer, account string, amount int64) error {
	_, err := db.Exec(ctx,
		`INSERT INTO token_balances (account, balance)
		 VALUES ($1, $2)
		 ON CONFLICT (account) DO UPDATE SET balance = token_balances.balance + EXCLUDED.balance, updated_at = NOW()`,
		account, amount,
	)
	return err
}

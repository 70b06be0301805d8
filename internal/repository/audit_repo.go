package repository

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository stores audit_logs rows.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an entry and fills in its id and timestamp.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	details := log.Details
	if details == nil {
		details = map[string]interface{}{}
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (account, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, log.Account, log.Action, log.Category, details, log.IP, log.UserAgent).Scan(&log.ID, &log.CreatedAt)
}

// GetByAccount returns an account's entries, newest first.
func (r *AuditRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account, action, category, details, ip, user_agent, created_at
		FROM audit_logs
		WHERE account = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, account, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[domain.AuditLog])
}

package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	Account   string                 `db:"account" json:"account"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth       = "auth"
	AuditCategoryGame       = "game"
	AuditCategoryPayment    = "payment"
	AuditCategoryWithdrawal = "withdrawal"
)

// Audit actions
const (
	AuditActionLogin = "login"

	AuditActionGameStart   = "game_start"
	AuditActionGameCommit  = "game_commit"
	AuditActionGameWin     = "game_win"
	AuditActionGameLose    = "game_lose"
	AuditActionGameTie     = "game_tie"
	AuditActionGameExpired = "game_expired"

	AuditActionDeposit  = "deposit"
	AuditActionWithdraw = "withdraw"

	AuditActionTokenMint    = "token_mint"
	AuditActionTokenApprove = "token_approve"
)

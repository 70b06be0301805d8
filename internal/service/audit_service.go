package service

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
)

// AuditStore persists audit log entries.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByAccount(ctx context.Context, account string, limit int) ([]*domain.AuditLog, error)
}

// AuditService handles audit logging
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, account, action, category string, details map[string]interface{}) {
	s.LogWithRequest(ctx, account, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, account, action, category, ip, userAgent string, details map[string]interface{}) {
	log := &domain.AuditLog{
		Account:   account,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "account", account)
	}
}

// LogLogin logs an account login
func (s *AuditService) LogLogin(ctx context.Context, account, ip, userAgent string) {
	s.LogWithRequest(ctx, account, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogTokenMint logs a development mint
func (s *AuditService) LogTokenMint(ctx context.Context, account string, amount int64) {
	s.Log(ctx, account, domain.AuditActionTokenMint, domain.AuditCategoryPayment, map[string]interface{}{"amount": amount})
}

// LogTokenApprove logs an allowance granted to the escrow
func (s *AuditService) LogTokenApprove(ctx context.Context, account, spender string, amount int64) {
	s.Log(ctx, account, domain.AuditActionTokenApprove, domain.AuditCategoryPayment, map[string]interface{}{
		"spender": spender,
		"amount":  amount,
	})
}

// Notify records engine events. Game results produce one entry per player.
func (s *AuditService) Notify(ctx context.Context, ev domain.Event) {
	details := map[string]interface{}{"event_id": ev.ID}
	if ev.GameKey != "" {
		details["game_key"] = ev.GameKey
		details["game_id"] = ev.GameID
	}
	if ev.Amount != 0 {
		details["amount"] = ev.Amount
	}

	switch ev.Type {
	case domain.EventDeposited:
		s.Log(ctx, ev.Account, domain.AuditActionDeposit, domain.AuditCategoryPayment, details)
	case domain.EventStarted:
		details["opponent"] = ev.Counterparty
		s.Log(ctx, ev.Account, domain.AuditActionGameStart, domain.AuditCategoryGame, details)
	case domain.EventPlayerOneCommitted, domain.EventPlayerTwoCommitted:
		details["choice"] = ev.Choice.String()
		s.Log(ctx, ev.Account, domain.AuditActionGameCommit, domain.AuditCategoryGame, details)
	case domain.EventCompleted:
		details["winning_choice"] = ev.Choice.String()
		s.Log(ctx, ev.Account, domain.AuditActionGameWin, domain.AuditCategoryGame, details)
		s.Log(ctx, ev.Counterparty, domain.AuditActionGameLose, domain.AuditCategoryGame, details)
	case domain.EventTied:
		details["counterparty_amount"] = ev.CounterpartyAmount
		s.Log(ctx, ev.Account, domain.AuditActionGameTie, domain.AuditCategoryGame, details)
		s.Log(ctx, ev.Counterparty, domain.AuditActionGameTie, domain.AuditCategoryGame, details)
	case domain.EventExpired:
		s.Log(ctx, ev.Account, domain.AuditActionGameExpired, domain.AuditCategoryGame, details)
		s.Log(ctx, ev.Counterparty, domain.AuditActionGameExpired, domain.AuditCategoryGame, details)
	case domain.EventWithdrawn:
		s.Log(ctx, ev.Account, domain.AuditActionWithdraw, domain.AuditCategoryWithdrawal, details)
	}
}

// GetAccountAuditLogs returns audit logs for an account
func (s *AuditService) GetAccountAuditLogs(ctx context.Context, account string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByAccount(ctx, account, limit)
}

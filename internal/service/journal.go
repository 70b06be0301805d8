package service

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
)

// TransactionWriter stores journal entries.
type TransactionWriter interface {
	Create(ctx context.Context, tx *domain.Transaction) error
}

// Journal turns engine events into per-account ledger entries, one per
// internal balance movement.
type Journal struct {
	repo TransactionWriter
}

func NewJournal(repo TransactionWriter) *Journal {
	return &Journal{repo: repo}
}

func (j *Journal) Notify(ctx context.Context, ev domain.Event) {
	for _, tx := range journalEntries(ev) {
		if err := j.repo.Create(ctx, tx); err != nil {
			logger.Error("failed to record transaction", "error", err, "type", tx.Type, "account", tx.Account)
		}
	}
}

func journalEntries(ev domain.Event) []*domain.Transaction {
	meta := map[string]interface{}{"event_id": ev.ID}
	if ev.GameID != "" {
		meta["game_id"] = ev.GameID
	}
	entry := func(account, typ string, amount int64) *domain.Transaction {
		return &domain.Transaction{
			Account: account,
			Type:    typ,
			Amount:  amount,
			GameKey: ev.GameKey,
			Meta:    meta,
		}
	}

	switch ev.Type {
	case domain.EventDeposited:
		return []*domain.Transaction{entry(ev.Account, domain.TxTypeDeposit, ev.Amount)}
	case domain.EventPlayerOneCommitted, domain.EventPlayerTwoCommitted:
		return []*domain.Transaction{entry(ev.Account, domain.TxTypeStake, -ev.Amount)}
	case domain.EventCompleted:
		return []*domain.Transaction{entry(ev.Account, domain.TxTypePayout, ev.Amount)}
	case domain.EventTied:
		return []*domain.Transaction{
			entry(ev.Account, domain.TxTypeRefund, ev.Amount),
			entry(ev.Counterparty, domain.TxTypeRefund, ev.CounterpartyAmount),
		}
	case domain.EventWithdrawn:
		return []*domain.Transaction{entry(ev.Account, domain.TxTypeWithdraw, -ev.Amount)}
	case domain.EventExpired:
		if ev.Amount > 0 {
			return []*domain.Transaction{entry(ev.Account, domain.TxTypeRefund, ev.Amount)}
		}
	}
	return nil
}

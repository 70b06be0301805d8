package service

import (
	"context"
	"fmt"
	"math"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
)

// Deposit pulls amount tokens from caller's external account into custody
// and credits caller's internal balance. The caller must first approve at
// least amount to the custody account on the token ledger.
//
// Returns the new internal balance.
func (e *Engine) Deposit(ctx context.Context, caller string, amount int64) (int64, error) {
	ev, balance, err := e.deposit(ctx, caller, amount)
	if err != nil {
		return 0, err
	}
	e.emit(ctx, ev)
	return balance, nil
}

func (e *Engine) deposit(ctx context.Context, caller string, amount int64) (domain.Event, int64, error) {
	if amount <= 0 {
		return domain.Event{}, 0, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.balances[caller] > math.MaxInt64-amount {
		return domain.Event{}, 0, ErrInvalidAmount
	}

	allowance, err := e.token.Allowance(ctx, caller, e.custody)
	if err != nil {
		return domain.Event{}, 0, fmt.Errorf("%w: allowance: %v", ErrTransferFailed, err)
	}
	if allowance < amount {
		return domain.Event{}, 0, ErrAllowanceInsufficient
	}

	if err := e.token.TransferIn(ctx, caller, amount); err != nil {
		return domain.Event{}, 0, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	e.balances[caller] += amount
	e.persist(ctx, nil, caller)

	ev := e.newEvent(domain.EventDeposited, nil)
	ev.Account = caller
	ev.Amount = amount

	e.log.Info("deposit", "account", caller, "amount", amount, "balance", e.balances[caller])
	return ev, e.balances[caller], nil
}

package token

import (
	"context"
	"math"
	"sync"
)

// Memory is an in-process ledger used for tests and TOKEN_BACKEND=memory.
type Memory struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]map[string]int64
	supply     int64
}

func NewMemory() *Memory {
	return &Memory{
		balances:   make(map[string]int64),
		allowances: make(map[string]map[string]int64),
	}
}

func (m *Memory) BalanceOf(_ context.Context, account string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account], nil
}

func (m *Memory) Allowance(_ context.Context, owner, spender string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowances[owner][spender], nil
}

// TotalSupply returns minted minus burned units.
func (m *Memory) TotalSupply(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supply, nil
}

// Approve sets (not adds to) spender's allowance over owner's funds.
// A zero amount clears it.
func (m *Memory) Approve(_ context.Context, owner, spender string, amount int64) error {
	if owner == "" || spender == "" {
		return ErrZeroAddress
	}
	if amount < 0 {
		return ErrZeroAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.allowances[owner] == nil {
		m.allowances[owner] = make(map[string]int64)
	}
	m.allowances[owner][spender] = amount
	return nil
}

func (m *Memory) Mint(_ context.Context, to string, amount int64) error {
	if to == "" {
		return ErrZeroAddress
	}
	if amount <= 0 {
		return ErrZeroAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Supply bounds every balance, so guarding it guards them all.
	if m.supply > math.MaxInt64-amount {
		return ErrAmountOutOfRange
	}
	m.balances[to] += amount
	m.supply += amount
	return nil
}

func (m *Memory) Burn(_ context.Context, from string, amount int64) error {
	if from == "" {
		return ErrZeroAddress
	}
	if amount <= 0 {
		return ErrZeroAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}
	m.balances[from] -= amount
	m.supply -= amount
	return nil
}

func (m *Memory) Transfer(_ context.Context, from, to string, amount int64) error {
	if err := checkTransfer(from, to, amount); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.move(from, to, amount)
}

func (m *Memory) TransferFrom(_ context.Context, spender, owner, to string, amount int64) error {
	if err := checkTransfer(owner, to, amount); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.allowances[owner][spender] < amount {
		return ErrInsufficientAllowance
	}
	if err := m.move(owner, to, amount); err != nil {
		return err
	}
	m.allowances[owner][spender] -= amount
	return nil
}

// move requires m.mu held.
func (m *Memory) move(from, to string, amount int64) error {
	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

// Package token holds the fungible-token ledger the escrow engine takes
// custody through. The engine only sees the narrow Custody view.
package token

import (
	"context"
	"errors"
)

// USDC metadata.
const (
	Name     = "USD Coin"
	Symbol   = "USDC"
	Decimals = 6
)

var (
	ErrZeroAddress           = errors.New("token: zero address")
	ErrZeroAmount            = errors.New("token: amount must be more than zero")
	ErrInsufficientBalance   = errors.New("token: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("token: transfer amount exceeds allowance")
)

// Ledger is a standard fungible-token ledger.
type Ledger interface {
	TotalSupply(ctx context.Context) (int64, error)
	BalanceOf(ctx context.Context, account string) (int64, error)
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	Approve(ctx context.Context, owner, spender string, amount int64) error
	Mint(ctx context.Context, to string, amount int64) error
	Burn(ctx context.Context, from string, amount int64) error
	Transfer(ctx context.Context, from, to string, amount int64) error
	// TransferFrom moves amount from owner to to, spending spender's allowance.
	TransferFrom(ctx context.Context, spender, owner, to string, amount int64) error
}

// Custody binds a ledger to the escrow account that holds deposited funds.
type Custody struct {
	ledger  Ledger
	account string
}

func NewCustody(ledger Ledger, account string) *Custody {
	return &Custody{ledger: ledger, account: account}
}

// Account returns the custody account.
func (c *Custody) Account() string {
	return c.account
}

func (c *Custody) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return c.ledger.Allowance(ctx, owner, spender)
}

// TransferIn pulls previously approved funds from an account into custody.
func (c *Custody) TransferIn(ctx context.Context, from string, amount int64) error {
	return c.ledger.TransferFrom(ctx, c.account, from, c.account, amount)
}

// TransferOut releases funds from custody to an account.
func (c *Custody) TransferOut(ctx context.Context, to string, amount int64) error {
	return c.ledger.Transfer(ctx, c.account, to, amount)
}

func checkTransfer(from, to string, amount int64) error {
	if from == "" || to == "" {
		return ErrZeroAddress
	}
	if amount <= 0 {
		return ErrZeroAmount
	}
	return nil
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount         = errors.New("amount should be more than zero")
	ErrAllowanceInsufficient = errors.New("allowance should be more or equal to the amount to be transferred")
	ErrUnauthorized          = errors.New("sender is not a player of this game")
	ErrInvalidState          = errors.New("action not allowed in current game state")
	ErrNotWinner             = errors.New("you have to win to withdraw the prize")
	ErrAlreadyWithdrawn      = errors.New("prize already withdrawn")
	ErrKeyCollision          = errors.New("game key is already in use")

	ErrGameNotFound        = errors.New("game not found")
	ErrInvalidChoice       = errors.New("choice must be rock, paper or scissors")
	ErrInvalidKey          = errors.New("game key must not be empty")
	ErrInvalidOpponent     = errors.New("invalid opponent")
	ErrInvalidDuration     = errors.New("invalid game duration")
	ErrDepositRequired     = errors.New("deposit required before committing")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransferFailed      = errors.New("token transfer failed")

	// Deadline errors are state errors: errors.Is(err, ErrInvalidState) holds.
	ErrDeadlinePassed     = fmt.Errorf("%w: game deadline has passed", ErrInvalidState)
	ErrDeadlineNotReached = fmt.Errorf("%w: game deadline not reached", ErrInvalidState)
)

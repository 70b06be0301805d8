package handlers

import (
	"errors"
	"net/http"

	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/gin-gonic/gin"
)

var errNoLedger = errors.New("token ledger not configured")

var errorStatus = []struct {
	err    error
	status int
	reason string
}{
	{service.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{service.ErrInvalidChoice, http.StatusBadRequest, "invalid_choice"},
	{service.ErrInvalidKey, http.StatusBadRequest, "invalid_key"},
	{service.ErrInvalidOpponent, http.StatusBadRequest, "invalid_opponent"},
	{service.ErrInvalidDuration, http.StatusBadRequest, "invalid_duration"},
	{service.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{service.ErrNotWinner, http.StatusForbidden, "not_winner"},
	{service.ErrGameNotFound, http.StatusNotFound, "game_not_found"},
	{service.ErrKeyCollision, http.StatusConflict, "key_collision"},
	{service.ErrAlreadyWithdrawn, http.StatusConflict, "already_withdrawn"},
	{service.ErrDeadlinePassed, http.StatusConflict, "deadline_passed"},
	{service.ErrDeadlineNotReached, http.StatusConflict, "deadline_not_reached"},
	{service.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{service.ErrAllowanceInsufficient, http.StatusUnprocessableEntity, "allowance_insufficient"},
	{service.ErrDepositRequired, http.StatusUnprocessableEntity, "deposit_required"},
	{service.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
	{service.ErrTransferFailed, http.StatusBadGateway, "transfer_failed"},
	{errNoLedger, http.StatusServiceUnavailable, "ledger_unavailable"},
	{token.ErrZeroAddress, http.StatusBadRequest, "zero_address"},
	{token.ErrZeroAmount, http.StatusBadRequest, "zero_amount"},
	{token.ErrInsufficientBalance, http.StatusUnprocessableEntity, "token_balance"},
	{token.ErrInsufficientAllowance, http.StatusUnprocessableEntity, "token_allowance"},
	{token.ErrAmountOutOfRange, http.StatusBadRequest, "amount_out_of_range"},
}

// statusFor maps an error to its HTTP status, metric reason and the
// sentinel it matched. Deadline errors wrap ErrInvalidState, so they are
// listed before it.
func statusFor(err error) (int, string, error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.reason, e.err
		}
	}
	return http.StatusInternalServerError, "internal", nil
}

// fail writes err as a JSON error. Server-side failures only expose the
// sentinel message; the wrapped detail goes to the log.
func (h *Handler) fail(c *gin.Context, err error) {
	status, reason, sentinel := statusFor(err)
	service.EscrowRejections.WithLabelValues(reason).Inc()

	log := logger.WithContext(c.Request.Context())
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "path", c.FullPath())
		msg = "internal error"
		if sentinel != nil {
			msg = sentinel.Error()
		}
	} else {
		log.Debug("request rejected", "error", err, "reason", reason, "path", c.FullPath())
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": msg, "code": reason})
}

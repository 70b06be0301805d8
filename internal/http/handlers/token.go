package handlers

import (
	"net/http"

	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/gin-gonic/gin"
)

// TokenInfo describes the wagered token and the escrow's custody account.
func (h *Handler) TokenInfo(c *gin.Context) {
	info := gin.H{
		"name":     token.Name,
		"symbol":   token.Symbol,
		"decimals": token.Decimals,
		"custody":  h.Engine.Custody(),
	}
	if h.Ledger != nil {
		supply, err := h.Ledger.TotalSupply(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		info["total_supply"] = supply
		info["total_supply_formatted"] = token.Format(supply)
	}
	c.JSON(http.StatusOK, info)
}

// TokenBalance returns the caller's token balance and the allowance granted
// to the escrow.
func (h *Handler) TokenBalance(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Ledger == nil {
		h.fail(c, errNoLedger)
		return
	}

	ctx := c.Request.Context()
	balance, err := h.Ledger.BalanceOf(ctx, account)
	if err != nil {
		h.fail(c, err)
		return
	}
	allowance, err := h.Ledger.Allowance(ctx, account, h.Engine.Custody())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":             account,
		"balance":             balance,
		"balance_formatted":   token.Format(balance),
		"allowance":           allowance,
		"allowance_formatted": token.Format(allowance),
	})
}

// TokenApprove sets the allowance the escrow may pull from the caller.
func (h *Handler) TokenApprove(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Ledger == nil {
		h.fail(c, errNoLedger)
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := req.units()
	if err != nil {
		h.fail(c, amountError(err, token.ErrZeroAmount))
		return
	}

	custody := h.Engine.Custody()
	if err := h.Ledger.Approve(c.Request.Context(), account, custody, amount); err != nil {
		h.fail(c, err)
		return
	}
	if h.Audit != nil {
		h.Audit.LogTokenApprove(c.Request.Context(), account, custody, amount)
	}

	c.JSON(http.StatusOK, gin.H{"owner": account, "spender": custody, "allowance": amount})
}

// TokenMint credits test tokens to the caller. Development mode only.
func (h *Handler) TokenMint(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Ledger == nil {
		h.fail(c, errNoLedger)
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := req.units()
	if err != nil {
		h.fail(c, amountError(err, token.ErrZeroAmount))
		return
	}

	ctx := c.Request.Context()
	if err := h.Ledger.Mint(ctx, account, amount); err != nil {
		h.fail(c, err)
		return
	}
	if h.Audit != nil {
		h.Audit.LogTokenMint(ctx, account, amount)
	}

	balance, err := h.Ledger.BalanceOf(ctx, account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "minted": amount, "balance": balance})
}

// TokenBurn destroys tokens from the caller's account. Development mode only.
func (h *Handler) TokenBurn(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Ledger == nil {
		h.fail(c, errNoLedger)
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := req.units()
	if err != nil {
		h.fail(c, amountError(err, token.ErrZeroAmount))
		return
	}

	ctx := c.Request.Context()
	if err := h.Ledger.Burn(ctx, account, amount); err != nil {
		h.fail(c, err)
		return
	}

	balance, err := h.Ledger.BalanceOf(ctx, account)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "burned": amount, "balance": balance})
}

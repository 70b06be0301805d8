package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/gin-gonic/gin"
)

// AmountRequest carries an amount either in base units or as a decimal
// string in whole tokens ("12.5").
type AmountRequest struct {
	Amount int64  `json:"amount"`
	Value  string `json:"value"`
}

func (r AmountRequest) units() (int64, error) {
	if r.Value != "" {
		return token.Parse(r.Value)
	}
	if r.Amount <= 0 {
		return 0, service.ErrInvalidAmount
	}
	return r.Amount, nil
}

const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// amountError keeps range errors from the decimal parser and reports any
// other bad amount as fallback.
func amountError(err, fallback error) error {
	if errors.Is(err, token.ErrAmountOutOfRange) {
		return err
	}
	return fallback
}

type StartGameRequest struct {
	Key             string `json:"key"`
	Opponent        string `json:"opponent"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type CommitRequest struct {
	Choice   string `json:"choice"`
	Opponent string `json:"opponent"`
}

type OpponentRequest struct {
	Opponent string `json:"opponent"`
}

// GameView is a game record as seen by one account.
type GameView struct {
	*domain.Game
	Result        domain.GameResult `json:"result,omitempty"`
	PoolFormatted string            `json:"pool_formatted"`
	Expired       bool              `json:"deadline_passed"`
}

func viewFor(g *domain.Game, account string) GameView {
	v := GameView{
		Game:          g,
		PoolFormatted: token.Format(g.Pool),
		Expired:       time.Now().After(g.Deadline),
	}
	if g.IsPlayer(account) {
		v.Result = g.ResultFor(account)
	}
	return v
}

func viewsFor(games []*domain.Game, account string) []GameView {
	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.After(games[j].CreatedAt) })
	res := make([]GameView, 0, len(games))
	for _, g := range games {
		res = append(res, viewFor(g, account))
	}
	return res
}

// Deposit moves approved tokens into escrow and credits the internal balance.
func (h *Handler) Deposit(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := req.units()
	if err != nil {
		h.fail(c, amountError(err, service.ErrInvalidAmount))
		return
	}

	balance, err := h.Engine.Deposit(c.Request.Context(), account, amount)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":           account,
		"deposited":         amount,
		"balance":           balance,
		"balance_formatted": token.Format(balance),
	})
}

// Balance returns the caller's internal (escrowed, unstaked) balance.
func (h *Handler) Balance(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	balance := h.Engine.BalanceOf(account)
	c.JSON(http.StatusOK, gin.H{
		"account":           account,
		"balance":           balance,
		"balance_formatted": token.Format(balance),
	})
}

// StartGame opens a game with the caller as player one.
func (h *Handler) StartGame(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	duration := h.cfg.DefaultDuration
	if req.DurationSeconds != 0 {
		if req.DurationSeconds < 0 || req.DurationSeconds > maxDurationSeconds {
			h.fail(c, service.ErrInvalidDuration)
			return
		}
		duration = time.Duration(req.DurationSeconds) * time.Second
	}

	g, err := h.Engine.StartGame(c.Request.Context(), account, req.Opponent, req.Key, duration)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewFor(g, account))
}

// GetGame returns the record currently bound to the key.
func (h *Handler) GetGame(c *gin.Context) {
	account, _ := getAccount(c)

	g, err := h.Engine.Game(c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFor(g, account))
}

// PlayerOneCommit stakes the caller's whole internal balance with a hand.
func (h *Handler) PlayerOneCommit(c *gin.Context) {
	h.commit(c, h.Engine.PlayerOneCommit)
}

// PlayerTwoCommit stakes the caller's whole internal balance with a hand.
func (h *Handler) PlayerTwoCommit(c *gin.Context) {
	h.commit(c, h.Engine.PlayerTwoCommit)
}

type commitFunc func(ctx context.Context, caller string, choice domain.Choice, opponent, key string) (*domain.Game, error)

func (h *Handler) commit(c *gin.Context, fn commitFunc) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	choice, err := domain.ParseChoice(req.Choice)
	if err != nil {
		h.fail(c, service.ErrInvalidChoice)
		return
	}

	g, err := fn(c.Request.Context(), account, choice, req.Opponent, c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFor(g, account))
}

// Resolve decides a fully committed game.
func (h *Handler) Resolve(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req OpponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	g, err := h.Engine.Resolve(c.Request.Context(), account, c.Param("key"), req.Opponent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFor(g, account))
}

// Withdraw sends the winner's payout to their token account.
func (h *Handler) Withdraw(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	g, err := h.Engine.Withdraw(c.Request.Context(), account, c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game":             viewFor(g, account),
		"amount":           g.Payout,
		"amount_formatted": token.Format(g.Payout),
	})
}

// Reclaim closes a game whose deadline passed before both commits.
func (h *Handler) Reclaim(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	g, err := h.Engine.Reclaim(c.Request.Context(), account, c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewFor(g, account))
}

// GameEvents replays recent events of a game key.
func (h *Handler) GameEvents(c *gin.Context) {
	if h.Events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event feed not configured"})
		return
	}

	limit := queryLimit(c, 50)
	evs, err := h.Events.RecentByGame(c.Request.Context(), c.Param("key"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evs})
}

// MyEvents replays recent events that concern the caller.
func (h *Handler) MyEvents(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event feed not configured"})
		return
	}

	evs, err := h.Events.RecentByAccount(c.Request.Context(), account, queryLimit(c, 50))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evs})
}

// GameHistory lists every record that was bound to a key.
func (h *Handler) GameHistory(c *gin.Context) {
	account, _ := getAccount(c)
	key := c.Param("key")

	var games []*domain.Game
	if h.History != nil {
		var err error
		games, err = h.History.GetHistoryByKey(c.Request.Context(), key)
		if err != nil {
			h.fail(c, err)
			return
		}
	} else {
		for _, g := range h.Engine.Archived() {
			if g.Key == key {
				games = append(games, g)
			}
		}
		if g, err := h.Engine.Game(key); err == nil {
			games = append(games, g)
		}
	}
	if len(games) == 0 {
		h.fail(c, service.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": viewsFor(games, account)})
}

// MyGames lists games the caller plays in.
func (h *Handler) MyGames(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var games []*domain.Game
	if h.History != nil {
		var err error
		games, err = h.History.GetByAccount(c.Request.Context(), account, queryLimit(c, 100))
		if err != nil {
			h.fail(c, err)
			return
		}
	} else {
		games = h.Engine.GamesOf(account)
		for _, g := range h.Engine.Archived() {
			if g.IsPlayer(account) {
				games = append(games, g)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"games": viewsFor(games, account)})
}

// MyTransactions lists the caller's journal entries.
func (h *Handler) MyTransactions(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Transactions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal not configured"})
		return
	}

	txs, err := h.Transactions.GetByAccount(c.Request.Context(), account, queryLimit(c, 100))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// MyAudit lists the caller's audit log.
func (h *Handler) MyAudit(c *gin.Context) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.Audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log not configured"})
		return
	}

	logs, err := h.Audit.GetAccountAuditLogs(c.Request.Context(), account, queryLimit(c, 100))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func queryLimit(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 || n > 500 {
		return def
	}
	return n
}

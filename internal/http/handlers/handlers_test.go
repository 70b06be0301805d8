package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/middleware"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusForbidden},
		{service.ErrNotWinner, http.StatusForbidden},
		{service.ErrGameNotFound, http.StatusNotFound},
		{service.ErrKeyCollision, http.StatusConflict},
		{service.ErrDeadlinePassed, http.StatusConflict},
		{service.ErrAllowanceInsufficient, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: boom", service.ErrTransferFailed), http.StatusBadGateway},
		{errNoLedger, http.StatusServiceUnavailable},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _, _ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}

	_, reason, _ := statusFor(service.ErrDeadlineNotReached)
	assert.Equal(t, "deadline_not_reached", reason)
}

func TestFailHidesUpstreamDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}

	tests := []struct {
		err    error
		status int
		body   string
	}{
		{fmt.Errorf("%w: dial tcp 10.0.0.5:5432: connection refused", service.ErrTransferFailed), http.StatusBadGateway, service.ErrTransferFailed.Error()},
		{fmt.Errorf("pgx: relation \"games\" does not exist"), http.StatusInternalServerError, "internal error"},
		{fmt.Errorf("%w: key in use", service.ErrKeyCollision), http.StatusConflict, "game key is already in use: key in use"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.fail(c, tt.err)

		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, tt.status, w.Code)
		assert.Equal(t, tt.body, out["error"])
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	}
}

func TestAmountAndDurationBounds(t *testing.T) {
	api, _ := newTestAPI(t)

	for _, value := range []string{"18446744073709.551617", "9300000000000", "1e30"} {
		code, body := api.do(http.MethodPost, "/token/mint", "alice", AmountRequest{Value: value})
		assert.Equal(t, http.StatusBadRequest, code, value)
		assert.Equal(t, "amount_out_of_range", body["code"], value)
	}

	for _, secs := range []int64{18446744074, -5} {
		code, body := api.do(http.MethodPost, "/games", "alice", StartGameRequest{Key: "k", Opponent: "bob", DurationSeconds: secs})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "invalid_duration", body["code"])
	}
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a apiClient) do(method, path, account string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if account != "" {
		tok, err := service.GenerateJWT(account)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func newTestAPI(t *testing.T) (apiClient, *token.Memory) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("handlers-secret")

	ledger := token.NewMemory()
	engine := service.NewEngine(token.NewCustody(ledger, "escrow"), "escrow")
	h := NewHandlerWithConfig(engine, ledger, HandlerConfig{DevMode: true})

	r := gin.New()
	auth := r.Group("/", middleware.JWT())
	auth.POST("/token/mint", h.TokenMint)
	auth.POST("/token/burn", h.TokenBurn)
	auth.POST("/token/approve", h.TokenApprove)
	auth.GET("/token/balance", h.TokenBalance)
	auth.POST("/deposit", h.Deposit)
	auth.GET("/balance", h.Balance)
	auth.POST("/games", h.StartGame)
	auth.GET("/games/:key", h.GetGame)
	auth.POST("/games/:key/player-one", h.PlayerOneCommit)
	auth.POST("/games/:key/player-two", h.PlayerTwoCommit)
	auth.POST("/games/:key/resolve", h.Resolve)
	auth.POST("/games/:key/withdraw", h.Withdraw)
	auth.GET("/games/:key/history", h.GameHistory)
	auth.GET("/games/:key/events", h.GameEvents)
	auth.GET("/me/games", h.MyGames)
	auth.GET("/me/transactions", h.MyTransactions)
	r.POST("/auth/dev", h.DevAuth)
	r.GET("/token/info", h.TokenInfo)

	return apiClient{t: t, router: r}, ledger
}

func TestDepositFlow(t *testing.T) {
	api, _ := newTestAPI(t)

	code, body := api.do(http.MethodPost, "/deposit", "alice", AmountRequest{Amount: 10})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "allowance_insufficient", body["code"])

	code, _ = api.do(http.MethodPost, "/token/mint", "alice", AmountRequest{Value: "2.5"})
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPost, "/token/approve", "alice", AmountRequest{Value: "2.5"})
	require.Equal(t, http.StatusOK, code)

	code, body = api.do(http.MethodGet, "/token/balance", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2.5", body["balance_formatted"])
	assert.Equal(t, float64(2500000), body["allowance"])

	code, body = api.do(http.MethodPost, "/deposit", "alice", AmountRequest{Value: "2.5"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2500000), body["balance"])

	code, body = api.do(http.MethodPost, "/deposit", "alice", AmountRequest{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_amount", body["code"])

	code, _ = api.do(http.MethodGet, "/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestGameFlowOverHTTP(t *testing.T) {
	api, ledger := newTestAPI(t)

	for _, account := range []string{"alice", "bob"} {
		code, _ := api.do(http.MethodPost, "/token/mint", account, AmountRequest{Amount: 1000})
		require.Equal(t, http.StatusOK, code)
		code, _ = api.do(http.MethodPost, "/token/approve", account, AmountRequest{Amount: 1000})
		require.Equal(t, http.StatusOK, code)
		code, _ = api.do(http.MethodPost, "/deposit", account, AmountRequest{Amount: 1000})
		require.Equal(t, http.StatusOK, code)
	}

	code, body := api.do(http.MethodPost, "/games", "alice", StartGameRequest{Key: "lucky", Opponent: "bob", DurationSeconds: 600})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "created", body["status"])

	code, _ = api.do(http.MethodPost, "/games", "bob", StartGameRequest{Key: "lucky", Opponent: "alice"})
	assert.Equal(t, http.StatusConflict, code)

	code, body = api.do(http.MethodPost, "/games/lucky/player-one", "alice", CommitRequest{Choice: "lizard", Opponent: "bob"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_choice", body["code"])

	code, _ = api.do(http.MethodPost, "/games/lucky/player-one", "alice", CommitRequest{Choice: "paper", Opponent: "bob"})
	require.Equal(t, http.StatusOK, code)
	code, body = api.do(http.MethodPost, "/games/lucky/player-two", "bob", CommitRequest{Choice: "1", Opponent: "alice"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2000), body["pool"])

	code, _ = api.do(http.MethodPost, "/games/lucky/resolve", "mallory", OpponentRequest{Opponent: "alice"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(http.MethodPost, "/games/lucky/resolve", "bob", OpponentRequest{Opponent: "alice"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["winner"])
	assert.Equal(t, "lose", body["result"])

	code, _ = api.do(http.MethodPost, "/games/lucky/withdraw", "bob", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(http.MethodPost, "/games/lucky/withdraw", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2000), body["amount"])

	code, _ = api.do(http.MethodPost, "/games/lucky/withdraw", "alice", nil)
	assert.Equal(t, http.StatusConflict, code)

	bal, err := ledger.BalanceOf(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), bal)

	code, body = api.do(http.MethodGet, "/me/games", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["games"], 1)

	code, body = api.do(http.MethodGet, "/games/lucky/history", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["games"], 1)

	code, _ = api.do(http.MethodGet, "/games/lucky/events", "alice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = api.do(http.MethodGet, "/me/transactions", "alice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = api.do(http.MethodGet, "/games/unknown", "alice", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

// memFeed keeps every event in memory, newest last.
type memFeed struct {
	events []domain.Event
}

func (f *memFeed) Notify(_ context.Context, ev domain.Event) {
	f.events = append(f.events, ev)
}

func (f *memFeed) filter(n int, keep func(domain.Event) bool) []domain.Event {
	var res []domain.Event
	for _, ev := range f.events {
		if keep(ev) {
			res = append(res, ev)
		}
	}
	if len(res) > n {
		res = res[len(res)-n:]
	}
	return res
}

func (f *memFeed) RecentByGame(_ context.Context, key string, n int) ([]domain.Event, error) {
	return f.filter(n, func(ev domain.Event) bool { return ev.GameKey == key }), nil
}

func (f *memFeed) RecentByAccount(_ context.Context, account string, n int) ([]domain.Event, error) {
	return f.filter(n, func(ev domain.Event) bool { return slices.Contains(ev.Accounts(), account) }), nil
}

func TestEventFeeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("handlers-secret")

	feed := &memFeed{}
	ledger := token.NewMemory()
	engine := service.NewEngineWithConfig(token.NewCustody(ledger, "escrow"), "escrow", service.EngineConfig{Notifier: feed})
	h := NewHandlerWithConfig(engine, ledger, HandlerConfig{})
	h.Events = feed

	r := gin.New()
	auth := r.Group("/", middleware.JWT())
	auth.POST("/games", h.StartGame)
	auth.GET("/games/:key/events", h.GameEvents)
	auth.GET("/me/events", h.MyEvents)
	api := apiClient{t: t, router: r}

	code, _ := api.do(http.MethodPost, "/games", "alice", StartGameRequest{Key: "one", Opponent: "bob"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = api.do(http.MethodPost, "/games", "carol", StartGameRequest{Key: "two", Opponent: "dave"})
	require.Equal(t, http.StatusCreated, code)

	code, body := api.do(http.MethodGet, "/games/two/events", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["events"], 1)

	code, body = api.do(http.MethodGet, "/me/events", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	evs := body["events"].([]any)
	require.Len(t, evs, 1)
	assert.Equal(t, "one", evs[0].(map[string]any)["game_key"])

	code, _ = api.do(http.MethodGet, "/me/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDevAuthAndTokenInfo(t *testing.T) {
	api, _ := newTestAPI(t)

	code, body := api.do(http.MethodPost, "/auth/dev", "", DevAuthRequest{Account: " carol "})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "carol", body["account"])
	account, err := service.ParseJWT(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "carol", account)

	code, _ = api.do(http.MethodPost, "/auth/dev", "", DevAuthRequest{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(http.MethodGet, "/token/info", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "USDC", body["symbol"])
	assert.Equal(t, float64(6), body["decimals"])
	assert.Equal(t, "escrow", body["custody"])
	assert.Equal(t, float64(0), body["total_supply"])
}

func TestTokenBurn(t *testing.T) {
	api, _ := newTestAPI(t)

	code, _ := api.do(http.MethodPost, "/token/mint", "alice", AmountRequest{Amount: 100})
	require.Equal(t, http.StatusOK, code)

	code, body := api.do(http.MethodPost, "/token/burn", "alice", AmountRequest{Amount: 40})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(60), body["balance"])

	code, body = api.do(http.MethodPost, "/token/burn", "alice", AmountRequest{Amount: 61})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "token_balance", body["code"])

	code, body = api.do(http.MethodGet, "/token/info", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.00006", body["total_supply_formatted"])
}

package integration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	httpserver "github.com/tmavroeid/rockpaperscissors-game/internal/http"
	"github.com/tmavroeid/rockpaperscissors-game/internal/http/handlers"
	"github.com/tmavroeid/rockpaperscissors-game/internal/service"
	"github.com/tmavroeid/rockpaperscissors-game/internal/token"
	"github.com/tmavroeid/rockpaperscissors-game/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *token.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("integration-secret")

	ledger := token.NewMemory()
	hub := ws.NewHub()
	engine := service.NewEngineWithConfig(token.NewCustody(ledger, "rps-escrow"), "rps-escrow", service.EngineConfig{
		Notifier:    service.Notifiers{service.LogNotifier{}, service.Metrics{}, hub},
		MaxDuration: time.Hour,
	})
	h := handlers.NewHandlerWithConfig(engine, ledger, handlers.HandlerConfig{DevMode: true})

	r := httpserver.NewRouter()
	httpserver.RegisterRoutes(r, httpserver.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler("test", nil),
		Hub:     hub,
	}, nil)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, ledger
}

func TestE2E_DecisiveGameWithLiveEvents(t *testing.T) {
	srv, ledger := newServer(t)

	alice := login(t, srv.URL, "alice")
	bob := login(t, srv.URL, "bob")

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?token="+alice.token, nil)
	require.NoError(t, err)
	defer conn.Close()

	next := func() ws.Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		var m ws.Message
		require.NoError(t, conn.ReadJSON(&m))
		return m
	}
	require.Equal(t, ws.MsgReady, next().Type)

	alice.fund(1000)
	bob.fund(1000)

	require.Equal(t, http.StatusCreated, alice.call(http.MethodPost, "/api/v1/games",
		map[string]any{"key": "our secret/phrase", "opponent": "bob", "duration_seconds": 600}, nil))

	path := "/api/v1/games/our%20secret%2Fphrase"
	require.Equal(t, http.StatusOK, alice.call(http.MethodPost, path+"/player-one",
		map[string]string{"choice": "paper", "opponent": "bob"}, nil))
	require.Equal(t, http.StatusOK, bob.call(http.MethodPost, path+"/player-two",
		map[string]string{"choice": "rock", "opponent": "alice"}, nil))

	var game struct {
		Winner string `json:"winner"`
		Pool   int64  `json:"pool"`
	}
	require.Equal(t, http.StatusOK, bob.call(http.MethodPost, path+"/resolve",
		map[string]string{"opponent": "alice"}, &game))
	assert.Equal(t, "alice", game.Winner)
	assert.Equal(t, int64(2000), game.Pool)

	require.Equal(t, http.StatusOK, alice.call(http.MethodPost, path+"/withdraw", nil, nil))
	assert.Equal(t, http.StatusConflict, alice.call(http.MethodPost, path+"/withdraw", nil, nil))

	bal, err := ledger.BalanceOf(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), bal)

	want := []domain.EventType{
		domain.EventDeposited,
		domain.EventStarted,
		domain.EventPlayerOneCommitted,
		domain.EventPlayerTwoCommitted,
		domain.EventCompleted,
		domain.EventWithdrawn,
	}
	var got []domain.EventType
	for range want {
		m := next()
		require.Equal(t, ws.MsgEvent, m.Type)
		got = append(got, m.Event.Type)
	}
	assert.Equal(t, want, got)
}

func TestE2E_TieAndOutsider(t *testing.T) {
	srv, _ := newServer(t)

	alice := login(t, srv.URL, "alice")
	bob := login(t, srv.URL, "bob")
	mallory := login(t, srv.URL, "mallory")
	alice.fund(1000)
	bob.fund(1000)

	require.Equal(t, http.StatusCreated, alice.call(http.MethodPost, "/api/v1/games",
		map[string]any{"key": "tie", "opponent": "bob"}, nil))
	assert.Equal(t, http.StatusForbidden, mallory.call(http.MethodPost, "/api/v1/games/tie/resolve",
		map[string]string{"opponent": "alice"}, nil))

	require.Equal(t, http.StatusOK, alice.call(http.MethodPost, "/api/v1/games/tie/player-one",
		map[string]string{"choice": "rock", "opponent": "bob"}, nil))
	require.Equal(t, http.StatusOK, bob.call(http.MethodPost, "/api/v1/games/tie/player-two",
		map[string]string{"choice": "rock", "opponent": "alice"}, nil))
	require.Equal(t, http.StatusOK, alice.call(http.MethodPost, "/api/v1/games/tie/resolve",
		map[string]string{"opponent": "bob"}, nil))

	for _, c := range []*client{alice, bob} {
		var out struct {
			Balance int64 `json:"balance"`
		}
		require.Equal(t, http.StatusOK, c.call(http.MethodGet, "/api/v1/balance", nil, &out))
		assert.Equal(t, int64(1000), out.Balance)
		assert.Equal(t, http.StatusForbidden, c.call(http.MethodPost, "/api/v1/games/tie/withdraw", nil, nil))
	}
	assert.Equal(t, http.StatusForbidden, mallory.call(http.MethodPost, "/api/v1/games/tie/withdraw", nil, nil))

	// settled key can be reused
	assert.Equal(t, http.StatusCreated, bob.call(http.MethodPost, "/api/v1/games",
		map[string]any{"key": "tie", "opponent": "alice"}, nil))

	var health map[string]any
	assert.Equal(t, http.StatusOK, alice.call(http.MethodGet, "/readyz", nil, &health))
	assert.Equal(t, http.StatusOK, alice.call(http.MethodGet, "/metrics", nil, nil))
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
	"github.com/tmavroeid/rockpaperscissors-game/internal/ws"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Drives a full decisive game against a running server in DEV_MODE while
// both players listen on the websocket, then prints what each received.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := flag.String("addr", "http://127.0.0.1:"+port, "server base URL")
	stake := flag.Int64("stake", 1000, "stake per player in base units")
	flag.Parse()

	suffix := uuid.NewString()[:8]
	one := player{base: *base, account: "smoke-a-" + suffix}
	two := player{base: *base, account: "smoke-b-" + suffix}
	key := "smoke-" + suffix

	one.login()
	two.login()

	connA := one.dial()
	defer connA.Close()
	connB := two.dial()
	defer connB.Close()

	for _, p := range []*player{&one, &two} {
		p.must("POST", "/api/v1/token/mint", map[string]any{"amount": *stake})
		p.must("POST", "/api/v1/token/approve", map[string]any{"amount": *stake})
		p.must("POST", "/api/v1/deposit", map[string]any{"amount": *stake})
	}

	path := "/api/v1/games/" + key
	one.must("POST", "/api/v1/games", map[string]any{"key": key, "opponent": two.account, "duration_seconds": 300})
	one.must("POST", path+"/player-one", map[string]any{"choice": "rock", "opponent": two.account})
	two.must("POST", path+"/player-two", map[string]any{"choice": "scissors", "opponent": one.account})
	one.must("POST", path+"/resolve", map[string]any{"opponent": two.account})
	one.must("POST", path+"/withdraw", nil)

	drain(connA, one.account)
	drain(connB, two.account)

	logger.Info("smoke test finished", "game_key", key)
}

type player struct {
	base    string
	account string
	token   string
}

func (p *player) login() {
	var out struct {
		Token string `json:"token"`
	}
	if code := p.call("POST", "/api/v1/auth/dev", map[string]any{"account": p.account}, &out); code != http.StatusOK {
		logger.Fatal("dev login failed; is DEV_MODE=true?", "status", code)
	}
	p.token = out.Token
}

func (p *player) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(p.base, "http") + "/ws?token=" + p.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Fatal("dial", "account", p.account, "error", err)
	}
	return conn
}

func (p *player) must(method, path string, body any) {
	var out map[string]any
	code := p.call(method, path, body, &out)
	if code >= 300 {
		logger.Fatal("request failed", "account", p.account, "path", path, "status", code, "body", out)
	}
	logger.Info("ok", "account", p.account, "path", path, "status", code)
}

func (p *player) call(method, path string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, p.base+path, &buf)
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("request", "path", path, "error", err)
	}
	defer res.Body.Close()
	_ = json.NewDecoder(res.Body).Decode(out)
	return res.StatusCode
}

// drain prints frames until the connection goes quiet.
func drain(conn *websocket.Conn, name string) {
	for {
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		var m ws.Message
		if err := conn.ReadJSON(&m); err != nil {
			return
		}
		if m.Event != nil {
			fmt.Printf("%s <- %s %s amount=%d choice=%s\n", name, m.Type, m.Event.Type, m.Event.Amount, m.Event.Choice)
			continue
		}
		fmt.Printf("%s <- %s\n", name, m.Type)
	}
}

package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
)

// Hub tracks connected clients by account and pushes engine events to the
// accounts they concern. An account may hold several connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.Account]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.Account] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "account", c.Account, "connections", len(set))
}

// Unregister removes c and closes its send queue. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.Account]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.Account)
	}
	logger.Debug("ws client unregistered", "account", c.Account)
}

// Connections returns the number of open connections for account.
func (h *Hub) Connections(account string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[account])
}

// Notify delivers ev to every connection of the accounts it concerns.
// Slow clients whose queue is full miss the event rather than block the
// caller.
func (h *Hub) Notify(_ context.Context, ev domain.Event) {
	msg, err := json.Marshal(Message{Type: MsgEvent, Event: &ev})
	if err != nil {
		logger.Error("ws: marshal event", "error", err, "event_id", ev.ID)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, account := range ev.Accounts() {
		for c := range h.clients[account] {
			select {
			case c.Send <- msg:
			default:
				logger.Warn("ws: send queue full, dropping event", "account", account, "event_id", ev.ID)
			}
		}
	}
}

// Consume forwards events from a shared stream, such as a Redis
// subscription, until the stream closes. It lets every server instance
// push events produced by any of them.
func (h *Hub) Consume(events <-chan domain.Event) {
	for ev := range events {
		h.Notify(context.Background(), ev)
	}
}

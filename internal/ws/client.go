package ws

import (
	"encoding/json"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	sendQueue  = 256
)

type Client struct {
	Account string
	Conn    *websocket.Conn
	Send    chan []byte
	Hub     *Hub
}

func NewClient(account string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Account: account,
		Conn:    conn,
		Send:    make(chan []byte, sendQueue),
		Hub:     hub,
	}
}

// Run registers the client, starts the writer and blocks in the reader
// until the connection drops.
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	// explicit ready handshake so clients know events will now be delivered
	c.reply(Message{Type: MsgReady})

	c.readPump()
}

// reply queues a frame for this connection only. It runs on the reader
// goroutine, before Unregister closes Send.
func (c *Client) reply(m Message) {
	msg, err := json.Marshal(m)
	if err != nil {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

//read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "account", c.Account, "error", err)
			}
			return
		}

		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			c.reply(Message{Type: MsgError, Message: "invalid message"})
			continue
		}
		switch m.Type {
		case MsgPing:
			c.reply(Message{Type: MsgPong})
		default:
			c.reply(Message{Type: MsgError, Message: "unknown message type " + m.Type})
		}
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("ws write error", "account", c.Account, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

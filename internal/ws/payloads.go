package ws

import "github.com/tmavroeid/rockpaperscissors-game/internal/domain"

// Message is the envelope of every frame in both directions.
type Message struct {
	Type    string        `json:"type"`
	Event   *domain.Event `json:"event,omitempty"`
	Message string        `json:"message,omitempty"`
}

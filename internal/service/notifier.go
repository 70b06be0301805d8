package service

import (
	"context"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
)

// Notifier receives engine events after they have been applied. Notify
// must not call back into the engine.
type Notifier interface {
	Notify(ctx context.Context, ev domain.Event)
}

// Notifiers fans an event out to each notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, ev domain.Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

// LogNotifier writes every event as a structured log line.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ev domain.Event) {
	logger.WithContext(ctx).Info("escrow event",
		"event_id", ev.ID,
		"type", ev.Type,
		"game_key", ev.GameKey,
		"account", ev.Account,
		"counterparty", ev.Counterparty,
		"amount", ev.Amount,
		"choice", ev.Choice.String(),
	)
}

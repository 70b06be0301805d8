// Package events publishes escrow events to Redis: a pub/sub channel for
// live consumers and a capped list per game key for replay.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

const (
	DefaultChannel = "rps:events"
	DefaultKeep    = 100
	keyTTL         = 7 * 24 * time.Hour
)

// RedisPublisher is a service.Notifier backed by Redis.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
	keep    int64
}

func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client, channel: DefaultChannel, keep: DefaultKeep}
}

func gameListKey(key string) string {
	return "rps:game:" + key + ":events"
}

func accountListKey(account string) string {
	return "rps:account:" + account + ":events"
}

// Notify publishes ev and appends it to the per-game and per-account lists.
// Failures are logged; the engine state is already committed.
func (p *RedisPublisher) Notify(ctx context.Context, ev domain.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("events: marshal", "error", err, "event_id", ev.ID)
		return
	}

	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, p.channel, payload)

	lists := make([]string, 0, 3)
	if ev.GameKey != "" {
		lists = append(lists, gameListKey(ev.GameKey))
	}
	for _, account := range ev.Accounts() {
		lists = append(lists, accountListKey(account))
	}
	for _, list := range lists {
		pipe.LPush(ctx, list, payload)
		pipe.LTrim(ctx, list, 0, p.keep-1)
		pipe.Expire(ctx, list, keyTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("events: publish failed", "error", err, "event_id", ev.ID, "type", ev.Type)
	}
}

// RecentByGame returns up to n events recorded for a game key, oldest first.
func (p *RedisPublisher) RecentByGame(ctx context.Context, key string, n int) ([]domain.Event, error) {
	return p.recent(ctx, gameListKey(key), n)
}

// RecentByAccount returns up to n events concerning account, oldest first.
func (p *RedisPublisher) RecentByAccount(ctx context.Context, account string, n int) ([]domain.Event, error) {
	return p.recent(ctx, accountListKey(account), n)
}

func (p *RedisPublisher) recent(ctx context.Context, list string, n int) ([]domain.Event, error) {
	if n <= 0 || int64(n) > p.keep {
		n = int(p.keep)
	}
	raw, err := p.client.LRange(ctx, list, 0, int64(n)-1).Result()
	if err != nil {
		return nil, err
	}

	res := make([]domain.Event, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var ev domain.Event
		if err := json.Unmarshal([]byte(raw[i]), &ev); err != nil {
			logger.Warn("events: skipping malformed entry", "list", list, "error", err)
			continue
		}
		res = append(res, ev)
	}
	return res, nil
}

// Subscribe streams events published on the channel until ctx is done.
func (p *RedisPublisher) Subscribe(ctx context.Context) <-chan domain.Event {
	out := make(chan domain.Event, 64)
	sub := p.client.Subscribe(ctx, p.channel)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev domain.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

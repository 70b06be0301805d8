package events

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisPublisherIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	p := NewRedisPublisher(client)
	key := "test-" + uuid.NewString()
	stream := p.Subscribe(ctx)
	// give the subscription a moment to attach
	time.Sleep(100 * time.Millisecond)

	p.Notify(ctx, domain.Event{ID: "1", Type: domain.EventStarted, GameKey: key, Account: "alice", Counterparty: "bob"})
	p.Notify(ctx, domain.Event{ID: "2", Type: domain.EventPlayerOneCommitted, GameKey: key, Account: "alice", Counterparty: "bob", Amount: 10})

	evs, err := p.RecentByGame(ctx, key, 10)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "1", evs[0].ID)
	assert.Equal(t, "2", evs[1].ID)

	bobs, err := p.RecentByAccount(ctx, "bob", 1)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "2", bobs[0].ID)

	select {
	case ev := <-stream:
		assert.Equal(t, domain.EventStarted, ev.Type)
	case <-ctx.Done():
		t.Fatal("no event received on channel")
	}

	client.Del(ctx, gameListKey(key))
}

func TestListKeys(t *testing.T) {
	assert.Equal(t, "rps:game:abc:events", gameListKey("abc"))
	assert.Equal(t, "rps:account:alice:events", accountListKey("alice"))
}

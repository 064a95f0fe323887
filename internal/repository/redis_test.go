package repository

import (
	"context"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"othello-arena/internal/events"
)

// setupRedis starts a disposable Redis container for the test.
func setupRedis(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStandingsRepository(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewStandingsRepository(rdb)
	ctx := context.Background()

	require.NoError(t, repo.AddPoints(ctx, "greedy", 1))
	require.NoError(t, repo.AddPoints(ctx, "greedy", 0.5))
	require.NoError(t, repo.AddPoints(ctx, "random", 0.5))

	points, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, points["greedy"], 1e-9)
	assert.InDelta(t, 0.5, points["random"], 1e-9)

	require.NoError(t, repo.Reset(ctx))
	points, err = repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestRedisPublisher_RoundTrip(t *testing.T) {
	rdb := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed, err := Subscribe(ctx, rdb)
	require.NoError(t, err)

	pub := NewRedisPublisher(rdb)
	event, err := events.New(events.TypeGameFinished, events.GameFinishedPayload{
		GameID:     "g-1",
		Winner:     "X",
		ScoreBlack: 1,
	})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(ctx, event))

	select {
	case got := <-feed:
		assert.Equal(t, events.TypeGameFinished, got.Type)
		assert.JSONEq(t, string(event.Payload), string(got.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered within 5s")
	}
}

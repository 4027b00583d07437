package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBus(client)
}

func TestBus_PublishReachesSubscriber(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, stop := bus.Subscribe(ctx)
	defer stop()

	// give the subscription a moment to attach before publishing
	time.Sleep(50 * time.Millisecond)

	sent := Event{Type: TypeStatusChanged, OrderID: "order-1", Status: "completed"}
	require.NoError(t, bus.Publish(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, TypeStatusChanged, got.Type)
		assert.Equal(t, "order-1", got.OrderID)
		assert.Equal(t, "completed", got.Status)
		assert.False(t, got.At.IsZero(), "publish stamps the event time")
	case <-ctx.Done():
		t.Fatal("event never arrived")
	}
}

func TestBus_SubscribeStopsOnCancel(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, stop := bus.Subscribe(ctx)
	defer stop()

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel closes after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}

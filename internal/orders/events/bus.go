// Package events carries order-change notifications between the API and any
// live-viewing dashboard. Every insert or status write publishes here; the
// dashboard stream re-reads current state on each message. No ordering
// guarantee beyond eventual convergence.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const orderEventChannel = "orders:events"

const (
	TypeCreated       = "order.created"
	TypeStatusChanged = "order.status_changed"
)

type Event struct {
	Type    string    `json:"type"`
	OrderID string    `json:"order_id"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, orderEventChannel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe delivers order events until ctx is canceled. The returned stop
// function closes the underlying subscription; the channel is closed after.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	sub := b.client.Subscribe(ctx, orderEventChannel)
	out := make(chan Event, 8)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("[warn] operation=order_events message=dropping malformed payload: %v", err)
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

	return out, func() { _ = sub.Close() }
}

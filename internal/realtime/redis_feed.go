package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

// RedisFeed publishes each event on a per-user channel so every instance
// can serve that user's subscriptions.
type RedisFeed struct {
	rdb    *goredis.Client
	prefix string
}

func NewRedisFeed(rdb *goredis.Client, prefix string) *RedisFeed {
	return &RedisFeed{rdb: rdb, prefix: prefix}
}

func (f *RedisFeed) channel(userID string) string {
	return f.prefix + userID
}

func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := f.rdb.Publish(ctx, f.channel(event.UserID), raw).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to publish event")
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, userID string) (<-chan Event, error) {
	sub := f.rdb.Subscribe(ctx, f.channel(userID))

	// Wait for the subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "failed to subscribe")
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Warn("Bad change feed payload", "channel", m.Channel, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (f *RedisFeed) Close() error {
	return f.rdb.Close()
}

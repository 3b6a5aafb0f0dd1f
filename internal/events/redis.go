package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultStream is the redis stream carrying mirrored AI events.
const DefaultStream = "feral:events"

// RedisBroadcaster mirrors bus events onto a redis stream so external
// observers (dashboards, log shippers) can follow the simulation without
// touching the process.
type RedisBroadcaster struct {
	rdb    *redis.Client
	stream string
	logger *zap.Logger
}

// NewRedisBroadcaster connects to redis and verifies the connection.
func NewRedisBroadcaster(redisURL, stream string, logger *zap.Logger) (*RedisBroadcaster, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisBroadcaster{rdb: rdb, stream: stream, logger: logger}, nil
}

// Publish appends one event to the stream.
func (rb *RedisBroadcaster) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = rb.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: rb.stream,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", rb.stream, err)
	}
	return nil
}

// Attach subscribes the broadcaster to every event on the bus. Publish
// failures are logged and dropped; observability must never stall the
// simulation.
func (rb *RedisBroadcaster) Attach(bus *Bus) {
	bus.SubscribeAll(func(ev Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rb.Publish(ctx, ev); err != nil {
			rb.logger.Warn("event broadcast failed",
				zap.String("event", ev.Name),
				zap.Error(err))
		}
	})
}

// Close releases the redis connection.
func (rb *RedisBroadcaster) Close() error {
	return rb.rdb.Close()
}

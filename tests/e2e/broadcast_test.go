package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nidhogg/feral/internal/events"
)

var (
	testLogger   *zap.Logger
	testRedisURL string
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	testLogger, _ = zap.NewDevelopment()

	redisURL, redisCleanup, err := startRedis(ctx)
	if err != nil {
		// No docker available; tests skip individually.
		fmt.Fprintf(os.Stderr, "redis: %v\n", err)
	} else {
		defer redisCleanup()
		testRedisURL = redisURL
	}

	os.Exit(m.Run())
}

func skipIfNoRedis(t *testing.T) {
	t.Helper()
	if testRedisURL == "" {
		t.Skip("redis container unavailable")
	}
}

func readStream(t *testing.T, url, stream string) []events.Event {
	t.Helper()
	opts, err := goredis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	rdb := goredis.NewClient(opts)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := rdb.XRange(ctx, stream, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange %s: %v", stream, err)
	}
	out := make([]events.Event, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			t.Fatalf("message %s has no data field", msg.ID)
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		out = append(out, ev)
	}
	return out
}

func TestPublishRoundTrip(t *testing.T) {
	skipIfNoRedis(t)

	stream := "feral:test:publish"
	rb, err := events.NewRedisBroadcaster(testRedisURL, stream, testLogger)
	if err != nil {
		t.Fatalf("broadcaster: %v", err)
	}
	defer rb.Close()

	ctx := context.Background()
	ev := events.Event{
		Name:    events.AITick,
		Payload: map[string]any{"entity": "npc-1", "status": "RUNNING"},
		At:      time.Now(),
	}
	if err := rb.Publish(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := readStream(t, testRedisURL, stream)
	if len(got) != 1 {
		t.Fatalf("expected 1 event in stream, got %d", len(got))
	}
	if got[0].Name != events.AITick {
		t.Errorf("event name = %q, want %q", got[0].Name, events.AITick)
	}
	if got[0].Payload["entity"] != "npc-1" {
		t.Errorf("payload entity = %v", got[0].Payload["entity"])
	}
}

func TestAttachMirrorsBusEvents(t *testing.T) {
	skipIfNoRedis(t)

	stream := "feral:test:attach"
	rb, err := events.NewRedisBroadcaster(testRedisURL, stream, testLogger)
	if err != nil {
		t.Fatalf("broadcaster: %v", err)
	}
	defer rb.Close()

	bus := events.NewBus(16, testLogger)
	rb.Attach(bus)

	bus.Emit(events.AIEntityAdded, map[string]any{"entity": "npc-7"})
	bus.Emit(events.AIEntityRemoved, map[string]any{"entity": "npc-7"})

	got := readStream(t, testRedisURL, stream)
	if len(got) != 2 {
		t.Fatalf("expected 2 events in stream, got %d", len(got))
	}
	if got[0].Name != events.AIEntityAdded || got[1].Name != events.AIEntityRemoved {
		t.Errorf("stream order = %q, %q", got[0].Name, got[1].Name)
	}
}

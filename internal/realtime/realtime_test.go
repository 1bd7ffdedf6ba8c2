package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func recvEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for event")
		}
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_DeliversOnlyToRecipient(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice, _ := hub.Subscribe(ctx, "alice")
	bob, _ := hub.Subscribe(ctx, "bob")

	hub.Publish(ctx, Event{Type: EventMatchCreated, UserID: "alice", MatchID: "m1"})

	got := recvEvent(t, alice, time.Second)
	if got.MatchID != "m1" || got.Type != EventMatchCreated {
		t.Errorf("alice received %+v, want match_created m1", got)
	}
	select {
	case ev := <-bob:
		t.Errorf("bob received %+v, want nothing", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnsubscribeOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := hub.Subscribe(ctx, "alice")
	if hub.Subscribers("alice") != 1 {
		t.Fatalf("Subscribers() = %d, want 1", hub.Subscribers("alice"))
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
	if hub.Subscribers("alice") != 0 {
		t.Errorf("Subscribers() = %d after cancel, want 0", hub.Subscribers("alice"))
	}

	// Publishing to a user without subscribers is fine
	if err := hub.Publish(context.Background(), Event{UserID: "alice"}); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.Subscribe(ctx, "alice")

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(ctx, Event{UserID: "alice"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish() blocked on a full subscriber")
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestFanout_ContinuesPastFailures(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := hub.Subscribe(ctx, "alice")

	var failed []string
	fanout := NewFanout(func(sink string, err error) { failed = append(failed, sink) },
		Sink{Name: "broken", Publisher: failingPublisher{err: errors.New("down")}},
		Sink{Name: "hub", Publisher: hub},
	)

	err := fanout.Publish(ctx, Event{Type: EventNotificationCreated, UserID: "alice"})
	if err == nil {
		t.Error("Publish() error = nil, want the broken sink's error")
	}
	if len(failed) != 1 || failed[0] != "broken" {
		t.Errorf("failed sinks = %v, want [broken]", failed)
	}
	recvEvent(t, ch, time.Second)
}

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisher_KeysByUser(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}

	ev := Event{Type: EventMatchCreated, UserID: "alice", MatchID: "m1", Score: 0.8, OccurredAt: time.Now().UTC()}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "alice" {
		t.Errorf("Key = %q, want alice", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != EventMatchCreated {
		t.Errorf("Headers = %v, want type header", msg.Headers)
	}

	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.MatchID != "m1" || decoded.Score != 0.8 {
		t.Errorf("decoded = %+v", decoded)
	}
}

// Runs against a real server only when REDIS_TEST_ADDR is set.
func TestRedisFeed_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	feed := NewRedisFeed(goredis.NewClient(&goredis.Options{Addr: addr}), "test:"+uuid.NewString()+":")
	defer feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := feed.Subscribe(ctx, "alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := feed.Publish(ctx, Event{Type: EventMatchUpdated, UserID: "alice", MatchID: "m9"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := recvEvent(t, ch, 2*time.Second); got.MatchID != "m9" {
		t.Errorf("received %+v, want m9", got)
	}
}

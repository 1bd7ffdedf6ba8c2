package realtime

import (
	"context"
	"sync"

	"github.com/mroshb/duo_finder/pkg/logger"
)

const subscriberBuffer = 16

// Hub is an in-process Feed. Slow subscribers drop events instead of
// blocking publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

func (h *Hub) Publish(_ context.Context, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[event.UserID] {
		select {
		case ch <- event:
		default:
			logger.Warn("Dropping event for slow subscriber", "user_id", event.UserID, "type", event.Type)
		}
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, userID string) (<-chan Event, error) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Event]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[userID], ch)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
		h.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Subscribers counts live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

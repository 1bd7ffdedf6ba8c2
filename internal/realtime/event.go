// Package realtime carries change-feed events to the users they name.
package realtime

import (
	"context"
	"time"
)

// Event types
const (
	EventMatchCreated        = "match_created"
	EventMatchUpdated        = "match_updated"
	EventNotificationCreated = "notification_created"
)

// Event tells UserID that a row naming them changed.
type Event struct {
	Type           string    `json:"type"`
	UserID         string    `json:"userId"`
	MatchID        string    `json:"matchId,omitempty"`
	NotificationID string    `json:"notificationId,omitempty"`
	Score          float64   `json:"score,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber streams a user's events until ctx ends, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan Event, error)
}

type Feed interface {
	Publisher
	Subscriber
}

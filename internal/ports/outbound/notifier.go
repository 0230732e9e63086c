package outbound

import (
	"context"

	"github.com/google/uuid"
)

// EventType represents the type of event delivered to a user channel
type EventType string

const (
	EventTypeHired EventType = "hired"
	EventTypeError EventType = "error"
)

// Event represents a notification delivered to one user's channel
type Event struct {
	Type      EventType              `json:"type"`
	UserID    uuid.UUID              `json:"user_id"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Notifier delivers events to a per-user channel consumed by zero or more
// live sessions. Delivery is best-effort: no acknowledgement, no replay, and
// a publish with no listeners simply drops the event.
type Notifier interface {
	// Subscribe attaches a session to a user's channel. All events for users
	// a session subscribes to are delivered on the same eventChan.
	Subscribe(ctx context.Context, userID uuid.UUID, sessionID string, eventChan chan Event) error

	// Unsubscribe detaches a session from a user's channel
	Unsubscribe(ctx context.Context, userID uuid.UUID, sessionID string) error

	// Publish publishes an event to every session on a user's channel
	Publish(ctx context.Context, userID uuid.UUID, event Event) error

	// IsSubscribed checks whether a session is attached to a user's channel
	IsSubscribed(ctx context.Context, userID uuid.UUID, sessionID string) bool
}

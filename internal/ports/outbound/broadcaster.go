package outbound

import (
	"context"

	"github.com/google/uuid"
)

// EventType represents the type of event being broadcasted
type EventType string

const (
	EventTypeSessionStarted   EventType = "session.started"
	EventTypeSessionRefreshed EventType = "session.refreshed"
	EventTypeSessionEnded     EventType = "session.ended"
	EventTypeOfferSubmitted   EventType = "offer.submitted"
	EventTypeOfferResolved    EventType = "offer.resolved"
	EventTypeListingSold      EventType = "listing.sold"
	EventTypeError            EventType = "error"
)

// Event represents a broadcast event addressed to a principal's channel
type Event struct {
	Type        EventType              `json:"type"`
	PrincipalID uuid.UUID              `json:"principal_id"`
	Data        map[string]interface{} `json:"data"`
	Timestamp   int64                  `json:"timestamp"`
}

// Broadcaster defines the interface for push-style notifications. Session
// and offer state changes are published to the affected principal's channel
// so dependents observe them without polling.
type Broadcaster interface {
	// Subscribe subscribes a client to events for a specific principal
	// When a client subscribes to multiple principals, all events are delivered to the same channel
	Subscribe(ctx context.Context, principalID uuid.UUID, clientID string, eventChan chan Event) error

	// Unsubscribe unsubscribes a client from events for a specific principal
	Unsubscribe(ctx context.Context, principalID uuid.UUID, clientID string) error

	// Publish publishes an event to all subscribers of a principal's channel
	Publish(ctx context.Context, principalID uuid.UUID, event Event) error

	// GetSubscribers returns the list of client IDs subscribed to a principal
	GetSubscribers(ctx context.Context, principalID uuid.UUID) ([]string, error)

	// IsSubscribed checks if a client is subscribed to a principal's channel
	IsSubscribed(ctx context.Context, principalID uuid.UUID, clientID string) bool
}

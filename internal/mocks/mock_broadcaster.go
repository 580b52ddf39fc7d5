package mocks

import (
	"context"
	"sync"

	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// MockBroadcaster implements outbound.Broadcaster for testing. Published
// events are recorded so tests can assert on notification behavior.
type MockBroadcaster struct {
	SubscribeFunc   func(ctx context.Context, principalID uuid.UUID, clientID string, eventChan chan outbound.Event) error
	UnsubscribeFunc func(ctx context.Context, principalID uuid.UUID, clientID string) error
	PublishFunc     func(ctx context.Context, principalID uuid.UUID, event outbound.Event) error

	mu        sync.Mutex
	Published []outbound.Event
}

// NewMockBroadcaster creates a new MockBroadcaster with default behaviors
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (m *MockBroadcaster) Subscribe(ctx context.Context, principalID uuid.UUID, clientID string, eventChan chan outbound.Event) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, principalID, clientID, eventChan)
	}
	// Default behavior: success
	return nil
}

func (m *MockBroadcaster) Unsubscribe(ctx context.Context, principalID uuid.UUID, clientID string) error {
	if m.UnsubscribeFunc != nil {
		return m.UnsubscribeFunc(ctx, principalID, clientID)
	}
	// Default behavior: success
	return nil
}

func (m *MockBroadcaster) Publish(ctx context.Context, principalID uuid.UUID, event outbound.Event) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, principalID, event)
	}
	// Default behavior: record and succeed
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, event)
	return nil
}

func (m *MockBroadcaster) GetSubscribers(ctx context.Context, principalID uuid.UUID) ([]string, error) {
	return []string{}, nil
}

func (m *MockBroadcaster) IsSubscribed(ctx context.Context, principalID uuid.UUID, clientID string) bool {
	return false
}

// PublishedEvents returns a snapshot of the recorded events
func (m *MockBroadcaster) PublishedEvents() []outbound.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]outbound.Event, len(m.Published))
	copy(events, m.Published)
	return events
}

// Compile-time interface compliance verification
var _ outbound.Broadcaster = (*MockBroadcaster)(nil)

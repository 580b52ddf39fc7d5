package mocks

import (
	"context"

	"helpyhands-market-service/internal/domain/session"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"
)

// MockSessionRepository implements outbound.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc  func(ctx context.Context, s *session.Session) error
	GetByIDFunc func(ctx context.Context, sessionID string) (*session.Session, error)
	DeleteFunc  func(ctx context.Context, sessionID string) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, s *session.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	// Default behavior: success
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, sessionID)
	}
	// Default behavior: not found
	return nil, shared.ErrSessionNotFound
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ outbound.SessionRepository = (*MockSessionRepository)(nil)

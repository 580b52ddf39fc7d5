package mocks

import (
	"context"

	"helpyhands-market-service/internal/domain/principal"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// MockPrincipalRepository implements outbound.PrincipalRepository for testing
type MockPrincipalRepository struct {
	CreateFunc     func(ctx context.Context, p *principal.Principal) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*principal.Principal, error)
	GetByEmailFunc func(ctx context.Context, email string) (*principal.Principal, error)
	GetByPhoneFunc func(ctx context.Context, phone string) (*principal.Principal, error)
	UpdateFunc     func(ctx context.Context, p *principal.Principal) error
}

// NewMockPrincipalRepository creates a new MockPrincipalRepository with default behaviors
func NewMockPrincipalRepository() *MockPrincipalRepository {
	return &MockPrincipalRepository{}
}

func (m *MockPrincipalRepository) Create(ctx context.Context, p *principal.Principal) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	// Default behavior: success
	return nil
}

func (m *MockPrincipalRepository) GetByID(ctx context.Context, id uuid.UUID) (*principal.Principal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, shared.ErrPrincipalNotFound
}

func (m *MockPrincipalRepository) GetByEmail(ctx context.Context, email string) (*principal.Principal, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, shared.ErrPrincipalNotFound
}

func (m *MockPrincipalRepository) GetByPhone(ctx context.Context, phone string) (*principal.Principal, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	// Default behavior: not found
	return nil, shared.ErrPrincipalNotFound
}

func (m *MockPrincipalRepository) Update(ctx context.Context, p *principal.Principal) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ outbound.PrincipalRepository = (*MockPrincipalRepository)(nil)

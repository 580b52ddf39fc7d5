package mocks

import (
	"context"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// MockListingRepository implements outbound.ListingRepository for testing
type MockListingRepository struct {
	CreateFunc         func(ctx context.Context, l *listing.Listing) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	ListActiveFunc     func(ctx context.Context, filter outbound.ListingFilter) ([]*listing.Listing, error)
	ListByOwnerFunc    func(ctx context.Context, ownerID uuid.UUID, status listing.Status) ([]*listing.Listing, error)
	ListIDsByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	UpdateFunc         func(ctx context.Context, l *listing.Listing) error
	DeleteFunc         func(ctx context.Context, id uuid.UUID) error
}

// NewMockListingRepository creates a new MockListingRepository with default behaviors
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{}
}

func (m *MockListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	// Default behavior: success
	return nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, shared.ErrListingNotFound
}

func (m *MockListingRepository) ListActive(ctx context.Context, filter outbound.ListingFilter) ([]*listing.Listing, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, filter)
	}
	// Default behavior: empty directory
	return []*listing.Listing{}, nil
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status listing.Status) ([]*listing.Listing, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, status)
	}
	// Default behavior: empty directory
	return []*listing.Listing{}, nil
}

func (m *MockListingRepository) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListIDsByOwnerFunc != nil {
		return m.ListIDsByOwnerFunc(ctx, ownerID)
	}
	// Default behavior: no listings
	return []uuid.UUID{}, nil
}

func (m *MockListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	// Default behavior: success
	return nil
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ outbound.ListingRepository = (*MockListingRepository)(nil)

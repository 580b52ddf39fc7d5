package mocks

import (
	"context"

	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// MockOfferRepository implements outbound.OfferRepository for testing
type MockOfferRepository struct {
	CreateFunc                 func(ctx context.Context, o *offer.Offer) error
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*offer.Offer, error)
	ListByListingIDsFunc       func(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error)
	ListByBuyerFunc            func(ctx context.Context, buyerID uuid.UUID) ([]*offer.Offer, error)
	ListLegacyByListingIDsFunc func(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error)
	UpdateFunc                 func(ctx context.Context, o *offer.Offer) error
}

// NewMockOfferRepository creates a new MockOfferRepository with default behaviors
func NewMockOfferRepository() *MockOfferRepository {
	return &MockOfferRepository{}
}

func (m *MockOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	// Default behavior: success
	return nil
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, shared.ErrOfferNotFound
}

func (m *MockOfferRepository) ListByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
	if m.ListByListingIDsFunc != nil {
		return m.ListByListingIDsFunc(ctx, listingIDs)
	}
	// Default behavior: no offers
	return []*offer.Offer{}, nil
}

func (m *MockOfferRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*offer.Offer, error) {
	if m.ListByBuyerFunc != nil {
		return m.ListByBuyerFunc(ctx, buyerID)
	}
	// Default behavior: no offers
	return []*offer.Offer{}, nil
}

func (m *MockOfferRepository) ListLegacyByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
	if m.ListLegacyByListingIDsFunc != nil {
		return m.ListLegacyByListingIDsFunc(ctx, listingIDs)
	}
	// Default behavior: no legacy offers
	return []*offer.Offer{}, nil
}

func (m *MockOfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, o)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ outbound.OfferRepository = (*MockOfferRepository)(nil)

package outbound

import (
	"context"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/principal"
	"helpyhands-market-service/internal/domain/session"

	"github.com/google/uuid"
)

// PrincipalRepository defines the interface for principal data operations
type PrincipalRepository interface {
	// Create creates a new principal
	Create(ctx context.Context, p *principal.Principal) error

	// GetByID retrieves a principal by ID
	GetByID(ctx context.Context, id uuid.UUID) (*principal.Principal, error)

	// GetByEmail retrieves a principal by email address
	GetByEmail(ctx context.Context, email string) (*principal.Principal, error)

	// GetByPhone retrieves a principal by phone number
	GetByPhone(ctx context.Context, phone string) (*principal.Principal, error)

	// Update updates a principal
	Update(ctx context.Context, p *principal.Principal) error
}

// ListingFilter describes an active-listing query
type ListingFilter struct {
	ExcludeOwnerID *uuid.UUID
	Category       *string
	Ascending      bool
	Limit          int
}

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	// Create creates a new listing
	Create(ctx context.Context, l *listing.Listing) error

	// GetByID retrieves a listing by ID
	GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)

	// ListActive retrieves active listings ordered by creation time
	ListActive(ctx context.Context, filter ListingFilter) ([]*listing.Listing, error)

	// ListByOwner retrieves an owner's listings filtered by status
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status listing.Status) ([]*listing.Listing, error)

	// ListIDsByOwner retrieves the ids of every listing an owner holds
	ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)

	// Update updates a listing
	Update(ctx context.Context, l *listing.Listing) error

	// Delete deletes a listing
	Delete(ctx context.Context, id uuid.UUID) error
}

// OfferRepository defines the interface for offer data operations
type OfferRepository interface {
	// Create creates a new offer
	Create(ctx context.Context, o *offer.Offer) error

	// GetByID retrieves an offer by ID
	GetByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error)

	// ListByListingIDs retrieves offers targeting any of the given listings,
	// newest first
	ListByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error)

	// ListByBuyer retrieves a buyer's outgoing offers, newest first
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*offer.Offer, error)

	// ListLegacyByListingIDs retrieves offers still encoded in the legacy
	// messages collection for the given listings, newest first
	ListLegacyByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error)

	// Update updates an offer
	Update(ctx context.Context, o *offer.Offer) error
}

// SessionRepository defines session persistence. Sessions must survive
// process restarts.
type SessionRepository interface {
	// Create stores a session with its remaining lifetime
	Create(ctx context.Context, s *session.Session) error

	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, sessionID string) (*session.Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, sessionID string) error
}

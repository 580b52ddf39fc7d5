package app

import (
	"context"
	"time"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/session"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/inbound"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ListingService implements the listing directory use cases
type ListingService struct {
	listingRepo outbound.ListingRepository
	broadcaster outbound.Broadcaster
	logger      zerolog.Logger
}

type ListingServiceParams struct {
	ListingRepo outbound.ListingRepository
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewListingService creates a new listing service
func NewListingService(params ListingServiceParams) *ListingService {
	return &ListingService{
		listingRepo: params.ListingRepo,
		broadcaster: params.Broadcaster,
		logger:      params.Logger.With().Str("component", "listing_service").Logger(),
	}
}

// Create creates a new active listing owned by the caller
func (service *ListingService) Create(ctx context.Context, caller *session.Session, req inbound.CreateListingRequest) (*listing.Listing, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}

	now := time.Now()
	l := &listing.Listing{
		ID:          uuid.New(),
		OwnerID:     caller.PrincipalID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Status:      listing.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if l.ImageURL == "" {
		l.ImageURL = listing.PlaceholderImageURL
	}

	// Validate locally before any remote call
	if err := l.Validate(); err != nil {
		service.logger.Warn().Err(err).Str("owner_id", caller.PrincipalID.String()).Msg("Listing validation failed")
		return nil, err
	}

	if err := service.listingRepo.Create(ctx, l); err != nil {
		service.logger.Error().Err(err).Str("listing_id", l.ID.String()).Msg("Failed to save listing")
		return nil, shared.ErrStoreUnavailable
	}

	service.logger.Info().
		Str("listing_id", l.ID.String()).
		Str("owner_id", l.OwnerID.String()).
		Float64("price", l.Price).
		Str("category", l.Category).
		Msg("Listing created")

	return l, nil
}

// Get retrieves a listing by ID. A missing listing and an unreachable store
// are distinct outcomes; there is no sample-data fallback.
func (service *ListingService) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return service.listingRepo.GetByID(ctx, id)
}

// ListActive retrieves active listings, optionally excluding the caller's own
func (service *ListingService) ListActive(ctx context.Context, req inbound.ListActiveRequest) ([]*listing.Listing, error) {
	return service.listingRepo.ListActive(ctx, outbound.ListingFilter{
		ExcludeOwnerID: req.ExcludeOwnerID,
		Category:       req.Category,
		Ascending:      req.Ascending,
		Limit:          req.Limit,
	})
}

// ListMine retrieves the caller's own listings filtered by status
func (service *ListingService) ListMine(ctx context.Context, caller *session.Session, status listing.Status) ([]*listing.Listing, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}
	if !listing.ValidStatus(status) {
		status = listing.StatusActive
	}

	return service.listingRepo.ListByOwner(ctx, caller.PrincipalID, status)
}

// MarkSold transitions an owned listing active -> sold
func (service *ListingService) MarkSold(ctx context.Context, caller *session.Session, id uuid.UUID) (*listing.Listing, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}

	l, err := service.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !l.IsOwnedBy(caller.PrincipalID) {
		service.logger.Warn().
			Str("listing_id", id.String()).
			Str("caller_id", caller.PrincipalID.String()).
			Msg("Caller does not own listing")
		return nil, shared.ErrNotOwner
	}

	if err := l.MarkSold(); err != nil {
		return nil, err
	}

	if err := service.listingRepo.Update(ctx, l); err != nil {
		service.logger.Error().Err(err).Str("listing_id", id.String()).Msg("Failed to update listing status")
		return nil, shared.ErrStoreUnavailable
	}

	service.publishListingSold(ctx, l)
	service.logger.Info().Str("listing_id", id.String()).Msg("Listing marked sold")
	return l, nil
}

// Delete removes an owned listing
func (service *ListingService) Delete(ctx context.Context, caller *session.Session, id uuid.UUID) error {
	if !caller.Valid() {
		return shared.ErrUnauthenticated
	}

	l, err := service.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !l.IsOwnedBy(caller.PrincipalID) {
		return shared.ErrNotOwner
	}

	if err := service.listingRepo.Delete(ctx, id); err != nil {
		service.logger.Error().Err(err).Str("listing_id", id.String()).Msg("Failed to delete listing")
		return shared.ErrStoreUnavailable
	}

	service.logger.Info().Str("listing_id", id.String()).Msg("Listing deleted")
	return nil
}

func (service *ListingService) publishListingSold(ctx context.Context, l *listing.Listing) {
	if service.broadcaster == nil {
		return
	}

	event := outbound.Event{
		Type:        outbound.EventTypeListingSold,
		PrincipalID: l.OwnerID,
		Data: map[string]interface{}{
			"listing_id": l.ID,
			"title":      l.Title,
		},
		Timestamp: time.Now().Unix(),
	}

	if err := service.broadcaster.Publish(ctx, l.OwnerID, event); err != nil {
		service.logger.Error().Err(err).Str("listing_id", l.ID.String()).Msg("Failed to broadcast listing event")
	}
}

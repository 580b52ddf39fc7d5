package app

import (
	"context"
	"sort"
	"time"

	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/session"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/inbound"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OfferService implements the offer negotiation workflow
type OfferService struct {
	offerRepo   outbound.OfferRepository
	listingRepo outbound.ListingRepository
	broadcaster outbound.Broadcaster
	logger      zerolog.Logger
}

type OfferServiceParams struct {
	OfferRepo   outbound.OfferRepository
	ListingRepo outbound.ListingRepository
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

// NewOfferService creates a new offer service
func NewOfferService(params OfferServiceParams) *OfferService {
	return &OfferService{
		offerRepo:   params.OfferRepo,
		listingRepo: params.ListingRepo,
		broadcaster: params.Broadcaster,
		logger:      params.Logger.With().Str("component", "offer_service").Logger(),
	}
}

// Submit records a buyer's offer against a listing and notifies the seller.
// Validation happens before any write so a bad request leaves no trace.
func (service *OfferService) Submit(ctx context.Context, caller *session.Session, req inbound.SubmitOfferRequest) (*offer.Offer, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}

	if !offer.ValidAmount(req.Amount) {
		return nil, shared.ErrInvalidAmount
	}

	l, err := service.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	if !l.IsActive() {
		return nil, shared.ErrListingNotActive
	}

	if l.IsOwnedBy(caller.PrincipalID) {
		return nil, shared.ErrOwnListingOffer
	}

	now := time.Now()
	o := &offer.Offer{
		ID:        uuid.New(),
		ListingID: l.ID,
		BuyerID:   caller.PrincipalID,
		Amount:    req.Amount,
		Note:      req.Note,
		Status:    offer.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.offerRepo.Create(ctx, o); err != nil {
		service.logger.Error().Err(err).Str("listing_id", l.ID.String()).Msg("Failed to save offer")
		return nil, shared.ErrStoreUnavailable
	}

	service.publishOfferEvent(ctx, outbound.EventTypeOfferSubmitted, l.OwnerID, o, l.Title)

	service.logger.Info().
		Str("offer_id", o.ID.String()).
		Str("listing_id", l.ID.String()).
		Str("buyer_id", o.BuyerID.String()).
		Float64("amount", o.Amount).
		Msg("Offer submitted")

	return o, nil
}

// ListForSeller retrieves offers targeting the caller's listings, newest
// first. Offers do not carry a seller reference, so the caller's listing ids
// are resolved first and the offers fetched against that set. Offers still
// living in the legacy messages collection are merged in.
func (service *OfferService) ListForSeller(ctx context.Context, caller *session.Session) ([]*offer.Offer, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}

	listingIDs, err := service.listingRepo.ListIDsByOwner(ctx, caller.PrincipalID)
	if err != nil {
		return nil, err
	}
	if len(listingIDs) == 0 {
		return []*offer.Offer{}, nil
	}

	offers, err := service.offerRepo.ListByListingIDs(ctx, listingIDs)
	if err != nil {
		return nil, err
	}

	legacy, err := service.offerRepo.ListLegacyByListingIDs(ctx, listingIDs)
	if err != nil {
		service.logger.Warn().Err(err).Str("seller_id", caller.PrincipalID.String()).Msg("Failed to load legacy offers")
	} else if len(legacy) > 0 {
		offers = mergeNewestFirst(offers, legacy)
	}

	return offers, nil
}

// ListForBuyer retrieves the caller's outgoing offers, newest first
func (service *OfferService) ListForBuyer(ctx context.Context, caller *session.Session) ([]*offer.Offer, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}

	return service.offerRepo.ListByBuyer(ctx, caller.PrincipalID)
}

// Respond resolves a pending offer on one of the caller's listings. The
// resolution is persisted and the buyer is notified.
func (service *OfferService) Respond(ctx context.Context, caller *session.Session, req inbound.RespondOfferRequest) (*offer.Offer, error) {
	if !caller.Valid() {
		return nil, shared.ErrUnauthenticated
	}

	o, err := service.offerRepo.GetByID(ctx, req.OfferID)
	if err != nil {
		return nil, err
	}

	l, err := service.listingRepo.GetByID(ctx, o.ListingID)
	if err != nil {
		return nil, err
	}

	if !l.IsOwnedBy(caller.PrincipalID) {
		service.logger.Warn().
			Str("offer_id", o.ID.String()).
			Str("caller_id", caller.PrincipalID.String()).
			Msg("Caller does not own the offer's listing")
		return nil, shared.ErrNotOwner
	}

	if err := o.Resolve(req.Decision, req.CounterAmount); err != nil {
		return nil, err
	}

	if err := service.offerRepo.Update(ctx, o); err != nil {
		service.logger.Error().Err(err).Str("offer_id", o.ID.String()).Msg("Failed to persist offer resolution")
		return nil, shared.ErrStoreUnavailable
	}

	service.publishOfferEvent(ctx, outbound.EventTypeOfferResolved, o.BuyerID, o, l.Title)

	service.logger.Info().
		Str("offer_id", o.ID.String()).
		Str("decision", string(req.Decision)).
		Str("buyer_id", o.BuyerID.String()).
		Msg("Offer resolved")

	return o, nil
}

func (service *OfferService) publishOfferEvent(ctx context.Context, eventType outbound.EventType, recipientID uuid.UUID, o *offer.Offer, listingTitle string) {
	if service.broadcaster == nil {
		return
	}

	data := map[string]interface{}{
		"offer_id":      o.ID,
		"listing_id":    o.ListingID,
		"listing_title": listingTitle,
		"amount":        o.Amount,
		"status":        o.Status,
	}
	if o.CounterAmount != nil {
		data["counter_amount"] = *o.CounterAmount
	}

	event := outbound.Event{
		Type:        eventType,
		PrincipalID: recipientID,
		Data:        data,
		Timestamp:   time.Now().Unix(),
	}

	if err := service.broadcaster.Publish(ctx, recipientID, event); err != nil {
		service.logger.Error().Err(err).Str("offer_id", o.ID.String()).Msg("Failed to broadcast offer event")
	}
}

// mergeNewestFirst merges two newest-first offer slices preserving the order
func mergeNewestFirst(a, b []*offer.Offer) []*offer.Offer {
	merged := make([]*offer.Offer, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

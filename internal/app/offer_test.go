package app

import (
	"context"
	"testing"
	"time"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/mocks"
	"helpyhands-market-service/internal/ports/inbound"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfferServiceForTest(offerRepo *mocks.MockOfferRepository, listingRepo *mocks.MockListingRepository, b *mocks.MockBroadcaster) *OfferService {
	return NewOfferService(OfferServiceParams{
		OfferRepo:   offerRepo,
		ListingRepo: listingRepo,
		Broadcaster: b,
		Logger:      zerolog.Nop(),
	})
}

func TestOfferSubmit(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()

	activeListing := &listing.Listing{
		ID:       uuid.New(),
		OwnerID:  seller,
		Title:    "Wooden desk",
		Price:    1200,
		Category: "Furniture",
		Status:   listing.StatusActive,
	}

	listingRepoWith := func(l *listing.Listing) *mocks.MockListingRepository {
		repo := mocks.NewMockListingRepository()
		repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
			return l, nil
		}
		return repo
	}

	t.Run("success notifies the seller", func(t *testing.T) {
		offerRepo := mocks.NewMockOfferRepository()
		var saved *offer.Offer
		offerRepo.CreateFunc = func(ctx context.Context, o *offer.Offer) error {
			saved = o
			return nil
		}
		b := mocks.NewMockBroadcaster()
		svc := newOfferServiceForTest(offerRepo, listingRepoWith(activeListing), b)

		o, err := svc.Submit(context.Background(), testSession(buyer), inbound.SubmitOfferRequest{
			ListingID: activeListing.ID,
			Amount:    950,
			Note:      "Can collect tomorrow",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, buyer, o.BuyerID)
		assert.Equal(t, offer.StatusPending, o.Status)

		events := b.PublishedEvents()
		require.Len(t, events, 1)
		assert.Equal(t, outbound.EventTypeOfferSubmitted, events[0].Type)
		assert.Equal(t, seller, events[0].PrincipalID)
	})

	t.Run("unauthenticated caller makes no calls", func(t *testing.T) {
		offerRepo := mocks.NewMockOfferRepository()
		created := false
		offerRepo.CreateFunc = func(ctx context.Context, o *offer.Offer) error {
			created = true
			return nil
		}
		svc := newOfferServiceForTest(offerRepo, listingRepoWith(activeListing), mocks.NewMockBroadcaster())

		_, err := svc.Submit(context.Background(), nil, inbound.SubmitOfferRequest{
			ListingID: activeListing.ID, Amount: 950,
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		assert.False(t, created)
	})

	t.Run("invalid amount writes nothing", func(t *testing.T) {
		offerRepo := mocks.NewMockOfferRepository()
		created := false
		offerRepo.CreateFunc = func(ctx context.Context, o *offer.Offer) error {
			created = true
			return nil
		}
		svc := newOfferServiceForTest(offerRepo, listingRepoWith(activeListing), mocks.NewMockBroadcaster())

		for _, amount := range []float64{0, -50} {
			_, err := svc.Submit(context.Background(), testSession(buyer), inbound.SubmitOfferRequest{
				ListingID: activeListing.ID, Amount: amount,
			})
			assert.ErrorIs(t, err, shared.ErrInvalidAmount)
		}
		assert.False(t, created, "invalid amounts must be rejected before any write")
	})

	t.Run("sold listing is rejected", func(t *testing.T) {
		sold := *activeListing
		sold.Status = listing.StatusSold
		svc := newOfferServiceForTest(mocks.NewMockOfferRepository(), listingRepoWith(&sold), mocks.NewMockBroadcaster())

		_, err := svc.Submit(context.Background(), testSession(buyer), inbound.SubmitOfferRequest{
			ListingID: sold.ID, Amount: 950,
		})
		assert.ErrorIs(t, err, shared.ErrListingNotActive)
	})

	t.Run("own listing is rejected", func(t *testing.T) {
		svc := newOfferServiceForTest(mocks.NewMockOfferRepository(), listingRepoWith(activeListing), mocks.NewMockBroadcaster())

		_, err := svc.Submit(context.Background(), testSession(seller), inbound.SubmitOfferRequest{
			ListingID: activeListing.ID, Amount: 950,
		})
		assert.ErrorIs(t, err, shared.ErrOwnListingOffer)
	})

	t.Run("missing listing is rejected", func(t *testing.T) {
		svc := newOfferServiceForTest(mocks.NewMockOfferRepository(), mocks.NewMockListingRepository(), mocks.NewMockBroadcaster())

		_, err := svc.Submit(context.Background(), testSession(buyer), inbound.SubmitOfferRequest{
			ListingID: uuid.New(), Amount: 950,
		})
		assert.ErrorIs(t, err, shared.ErrListingNotFound)
	})
}

func TestListForSeller(t *testing.T) {
	seller := uuid.New()
	listingA := uuid.New()
	listingB := uuid.New()

	t.Run("only the caller's listings are queried", func(t *testing.T) {
		listingRepo := mocks.NewMockListingRepository()
		listingRepo.ListIDsByOwnerFunc = func(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
			require.Equal(t, seller, ownerID)
			return []uuid.UUID{listingA, listingB}, nil
		}

		offerRepo := mocks.NewMockOfferRepository()
		var queried []uuid.UUID
		offerRepo.ListByListingIDsFunc = func(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
			queried = listingIDs
			return []*offer.Offer{{ID: uuid.New(), ListingID: listingA, Status: offer.StatusPending, CreatedAt: time.Now()}}, nil
		}

		svc := newOfferServiceForTest(offerRepo, listingRepo, mocks.NewMockBroadcaster())

		offers, err := svc.ListForSeller(context.Background(), testSession(seller))
		require.NoError(t, err)
		assert.Len(t, offers, 1)
		assert.Equal(t, []uuid.UUID{listingA, listingB}, queried)
	})

	t.Run("no listings short-circuits to empty", func(t *testing.T) {
		offerRepo := mocks.NewMockOfferRepository()
		queried := false
		offerRepo.ListByListingIDsFunc = func(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
			queried = true
			return nil, nil
		}
		svc := newOfferServiceForTest(offerRepo, mocks.NewMockListingRepository(), mocks.NewMockBroadcaster())

		offers, err := svc.ListForSeller(context.Background(), testSession(seller))
		require.NoError(t, err)
		assert.Empty(t, offers)
		assert.False(t, queried, "a seller with no listings needs no offer query")
	})

	t.Run("legacy offers are merged newest first", func(t *testing.T) {
		now := time.Now()

		listingRepo := mocks.NewMockListingRepository()
		listingRepo.ListIDsByOwnerFunc = func(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
			return []uuid.UUID{listingA}, nil
		}

		offerRepo := mocks.NewMockOfferRepository()
		newest := &offer.Offer{ID: uuid.New(), ListingID: listingA, CreatedAt: now}
		oldest := &offer.Offer{ID: uuid.New(), ListingID: listingA, CreatedAt: now.Add(-2 * time.Hour)}
		middle := &offer.Offer{ID: uuid.New(), ListingID: listingA, CreatedAt: now.Add(-time.Hour)}
		offerRepo.ListByListingIDsFunc = func(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
			return []*offer.Offer{newest, oldest}, nil
		}
		offerRepo.ListLegacyByListingIDsFunc = func(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
			return []*offer.Offer{middle}, nil
		}

		svc := newOfferServiceForTest(offerRepo, listingRepo, mocks.NewMockBroadcaster())

		offers, err := svc.ListForSeller(context.Background(), testSession(seller))
		require.NoError(t, err)
		require.Len(t, offers, 3)
		assert.Equal(t, newest.ID, offers[0].ID)
		assert.Equal(t, middle.ID, offers[1].ID)
		assert.Equal(t, oldest.ID, offers[2].ID)
	})
}

func TestOfferRespond(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()

	l := &listing.Listing{ID: uuid.New(), OwnerID: seller, Title: "Wooden desk", Status: listing.StatusActive}

	pendingOffer := func() *offer.Offer {
		return &offer.Offer{
			ID:        uuid.New(),
			ListingID: l.ID,
			BuyerID:   buyer,
			Amount:    950,
			Status:    offer.StatusPending,
		}
	}

	reposWith := func(o *offer.Offer) (*mocks.MockOfferRepository, *mocks.MockListingRepository) {
		offerRepo := mocks.NewMockOfferRepository()
		offerRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
			return o, nil
		}
		listingRepo := mocks.NewMockListingRepository()
		listingRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
			return l, nil
		}
		return offerRepo, listingRepo
	}

	t.Run("accept persists and notifies the buyer", func(t *testing.T) {
		o := pendingOffer()
		offerRepo, listingRepo := reposWith(o)
		var updated *offer.Offer
		offerRepo.UpdateFunc = func(ctx context.Context, o *offer.Offer) error {
			updated = o
			return nil
		}
		b := mocks.NewMockBroadcaster()
		svc := newOfferServiceForTest(offerRepo, listingRepo, b)

		result, err := svc.Respond(context.Background(), testSession(seller), inbound.RespondOfferRequest{
			OfferID: o.ID, Decision: offer.DecisionAccept,
		})
		require.NoError(t, err)
		assert.Equal(t, offer.StatusAccepted, result.Status)
		require.NotNil(t, updated, "resolution must be persisted")

		events := b.PublishedEvents()
		require.Len(t, events, 1)
		assert.Equal(t, outbound.EventTypeOfferResolved, events[0].Type)
		assert.Equal(t, buyer, events[0].PrincipalID)
	})

	t.Run("counter carries the counter amount", func(t *testing.T) {
		o := pendingOffer()
		offerRepo, listingRepo := reposWith(o)
		svc := newOfferServiceForTest(offerRepo, listingRepo, mocks.NewMockBroadcaster())

		counter := 1100.0
		result, err := svc.Respond(context.Background(), testSession(seller), inbound.RespondOfferRequest{
			OfferID: o.ID, Decision: offer.DecisionCounter, CounterAmount: &counter,
		})
		require.NoError(t, err)
		assert.Equal(t, offer.StatusCountered, result.Status)
		require.NotNil(t, result.CounterAmount)
		assert.Equal(t, counter, *result.CounterAmount)
	})

	t.Run("only the listing owner may respond", func(t *testing.T) {
		o := pendingOffer()
		offerRepo, listingRepo := reposWith(o)
		updated := false
		offerRepo.UpdateFunc = func(ctx context.Context, o *offer.Offer) error {
			updated = true
			return nil
		}
		svc := newOfferServiceForTest(offerRepo, listingRepo, mocks.NewMockBroadcaster())

		_, err := svc.Respond(context.Background(), testSession(buyer), inbound.RespondOfferRequest{
			OfferID: o.ID, Decision: offer.DecisionAccept,
		})
		assert.ErrorIs(t, err, shared.ErrNotOwner)
		assert.False(t, updated)
		assert.Equal(t, offer.StatusPending, o.Status)
	})

	t.Run("resolved offer stays resolved", func(t *testing.T) {
		o := pendingOffer()
		o.Status = offer.StatusRejected
		offerRepo, listingRepo := reposWith(o)
		svc := newOfferServiceForTest(offerRepo, listingRepo, mocks.NewMockBroadcaster())

		_, err := svc.Respond(context.Background(), testSession(seller), inbound.RespondOfferRequest{
			OfferID: o.ID, Decision: offer.DecisionAccept,
		})
		assert.ErrorIs(t, err, shared.ErrOfferAlreadyResolved)
		assert.Equal(t, offer.StatusRejected, o.Status)
	})
}

func TestListForBuyer(t *testing.T) {
	buyer := uuid.New()

	offerRepo := mocks.NewMockOfferRepository()
	offerRepo.ListByBuyerFunc = func(ctx context.Context, buyerID uuid.UUID) ([]*offer.Offer, error) {
		require.Equal(t, buyer, buyerID)
		return []*offer.Offer{{ID: uuid.New(), BuyerID: buyer}}, nil
	}
	svc := newOfferServiceForTest(offerRepo, mocks.NewMockListingRepository(), mocks.NewMockBroadcaster())

	offers, err := svc.ListForBuyer(context.Background(), testSession(buyer))
	require.NoError(t, err)
	assert.Len(t, offers, 1)

	_, err = svc.ListForBuyer(context.Background(), nil)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

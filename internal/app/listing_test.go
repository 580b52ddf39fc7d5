package app

import (
	"context"
	"testing"
	"time"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/session"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/mocks"
	"helpyhands-market-service/internal/ports/inbound"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(principalID uuid.UUID) *session.Session {
	return &session.Session{
		ID:          "sess_test",
		PrincipalID: principalID,
		ExpiresAt:   time.Now().Add(time.Hour),
		CreatedAt:   time.Now(),
	}
}

func newListingServiceForTest(listingRepo *mocks.MockListingRepository, b *mocks.MockBroadcaster) *ListingService {
	return NewListingService(ListingServiceParams{
		ListingRepo: listingRepo,
		Broadcaster: b,
		Logger:      zerolog.Nop(),
	})
}

func TestListingCreate(t *testing.T) {
	owner := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewMockListingRepository()
		var saved *listing.Listing
		repo.CreateFunc = func(ctx context.Context, l *listing.Listing) error {
			saved = l
			return nil
		}
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		l, err := svc.Create(context.Background(), testSession(owner), inbound.CreateListingRequest{
			Title:    "Wooden desk",
			Price:    1200,
			Category: "Furniture",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, owner, l.OwnerID)
		assert.Equal(t, listing.StatusActive, l.Status)
		assert.Equal(t, listing.PlaceholderImageURL, l.ImageURL)
	})

	t.Run("unauthenticated caller writes nothing", func(t *testing.T) {
		repo := mocks.NewMockListingRepository()
		created := false
		repo.CreateFunc = func(ctx context.Context, l *listing.Listing) error {
			created = true
			return nil
		}
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		_, err := svc.Create(context.Background(), nil, inbound.CreateListingRequest{
			Title: "Wooden desk", Price: 1200, Category: "Furniture",
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		assert.False(t, created, "no write may happen for an unauthenticated caller")
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		svc := newListingServiceForTest(mocks.NewMockListingRepository(), mocks.NewMockBroadcaster())
		expired := testSession(owner)
		expired.ExpiresAt = time.Now().Add(-time.Minute)

		_, err := svc.Create(context.Background(), expired, inbound.CreateListingRequest{
			Title: "Wooden desk", Price: 1200, Category: "Furniture",
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("invalid category writes nothing", func(t *testing.T) {
		repo := mocks.NewMockListingRepository()
		created := false
		repo.CreateFunc = func(ctx context.Context, l *listing.Listing) error {
			created = true
			return nil
		}
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		_, err := svc.Create(context.Background(), testSession(owner), inbound.CreateListingRequest{
			Title: "Wooden desk", Price: 1200, Category: "Antiques",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidCategory)
		assert.False(t, created)
	})

	t.Run("explicit image kept", func(t *testing.T) {
		repo := mocks.NewMockListingRepository()
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		l, err := svc.Create(context.Background(), testSession(owner), inbound.CreateListingRequest{
			Title: "Wooden desk", Price: 1200, Category: "Furniture",
			ImageURL: "https://cdn.example.com/desk.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/desk.jpg", l.ImageURL)
	})
}

func TestListingGet(t *testing.T) {
	t.Run("missing listing is a distinct outcome", func(t *testing.T) {
		svc := newListingServiceForTest(mocks.NewMockListingRepository(), mocks.NewMockBroadcaster())

		_, err := svc.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrListingNotFound)
	})

	t.Run("store failure is not a not-found", func(t *testing.T) {
		repo := mocks.NewMockListingRepository()
		repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
			return nil, shared.ErrStoreUnavailable
		}
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		_, err := svc.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	})
}

func TestListingMarkSold(t *testing.T) {
	owner := uuid.New()

	activeListing := func() *listing.Listing {
		return &listing.Listing{
			ID:       uuid.New(),
			OwnerID:  owner,
			Title:    "Wooden desk",
			Price:    1200,
			Category: "Furniture",
			Status:   listing.StatusActive,
		}
	}

	t.Run("owner can mark sold", func(t *testing.T) {
		l := activeListing()
		repo := mocks.NewMockListingRepository()
		repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
			return l, nil
		}
		var updated *listing.Listing
		repo.UpdateFunc = func(ctx context.Context, l *listing.Listing) error {
			updated = l
			return nil
		}
		b := mocks.NewMockBroadcaster()
		svc := newListingServiceForTest(repo, b)

		result, err := svc.MarkSold(context.Background(), testSession(owner), l.ID)
		require.NoError(t, err)
		assert.Equal(t, listing.StatusSold, result.Status)
		require.NotNil(t, updated)

		events := b.PublishedEvents()
		require.Len(t, events, 1)
		assert.Equal(t, outbound.EventTypeListingSold, events[0].Type)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		l := activeListing()
		repo := mocks.NewMockListingRepository()
		repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
			return l, nil
		}
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		_, err := svc.MarkSold(context.Background(), testSession(uuid.New()), l.ID)
		assert.ErrorIs(t, err, shared.ErrNotOwner)
		assert.Equal(t, listing.StatusActive, l.Status)
	})

	t.Run("sold listing cannot be sold again", func(t *testing.T) {
		l := activeListing()
		l.Status = listing.StatusSold
		repo := mocks.NewMockListingRepository()
		repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
			return l, nil
		}
		svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

		_, err := svc.MarkSold(context.Background(), testSession(owner), l.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})
}

func TestListingDelete(t *testing.T) {
	owner := uuid.New()
	l := &listing.Listing{ID: uuid.New(), OwnerID: owner, Status: listing.StatusActive}

	repo := mocks.NewMockListingRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
		return l, nil
	}
	deleted := false
	repo.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
		deleted = true
		return nil
	}
	svc := newListingServiceForTest(repo, mocks.NewMockBroadcaster())

	err := svc.Delete(context.Background(), testSession(uuid.New()), l.ID)
	assert.ErrorIs(t, err, shared.ErrNotOwner)
	assert.False(t, deleted)

	err = svc.Delete(context.Background(), testSession(owner), l.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestListActiveEmptyIsNotAnError(t *testing.T) {
	svc := newListingServiceForTest(mocks.NewMockListingRepository(), mocks.NewMockBroadcaster())

	listings, err := svc.ListActive(context.Background(), inbound.ListActiveRequest{})
	require.NoError(t, err)
	assert.Empty(t, listings, "an empty directory is a valid outcome, not a fallback trigger")
}

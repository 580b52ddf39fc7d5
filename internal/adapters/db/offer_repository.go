package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OfferRepository implements the offer repository interface. Typed offers
// live in the offers table; rows predating the typed record remain in the
// legacy messages collection and are surfaced read-only.
type OfferRepository struct {
	conn *Connection
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(conn *Connection) *OfferRepository {
	return &OfferRepository{conn: conn}
}

const offerColumns = `id, listing_id, buyer_id, amount, note, status, counter_amount, created_at, updated_at`

// Create creates a new offer
func (r *OfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		o.ID,
		o.ListingID,
		o.BuyerID,
		o.Amount,
		o.Note,
		o.Status,
		nullFloat(o.CounterAmount),
		o.CreatedAt,
		o.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer by ID
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE id = $1
	`

	var o offer.Offer
	var counter sql.NullFloat64

	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.ListingID,
		&o.BuyerID,
		&o.Amount,
		&o.Note,
		&o.Status,
		&counter,
		&o.CreatedAt,
		&o.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	if counter.Valid {
		o.CounterAmount = &counter.Float64
	}

	return &o, nil
}

// ListByListingIDs retrieves offers targeting any of the given listings, newest first
func (r *OfferRepository) ListByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE listing_id = ANY($1)
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, pq.Array(listingIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list offers by listings: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// ListByBuyer retrieves a buyer's outgoing offers, newest first
func (r *OfferRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*offer.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE buyer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers by buyer: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// ListLegacyByListingIDs retrieves offers still encoded in the legacy
// messages collection for the given listings, newest first. Rows whose
// content does not match the offer convention are skipped.
func (r *OfferRepository) ListLegacyByListingIDs(ctx context.Context, listingIDs []uuid.UUID) ([]*offer.Offer, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, sender_id, listing_id, content, created_at
		FROM messages
		WHERE listing_id = ANY($1) AND content LIKE 'Offer:%'
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, pq.Array(listingIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy offers: %w", err)
	}
	defer rows.Close()

	var offers []*offer.Offer
	for rows.Next() {
		var id, senderID, listingID uuid.UUID
		var content string
		var createdAt time.Time

		if err := rows.Scan(&id, &senderID, &listingID, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan legacy message: %w", err)
		}

		o, err := offer.FromLegacyMessage(id, listingID, senderID, content, createdAt)
		if err != nil {
			// Not every 'Offer:'-prefixed body parses cleanly; skip the rest
			continue
		}
		offers = append(offers, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy messages: %w", err)
	}

	return offers, nil
}

// Update updates an offer
func (r *OfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	query := `
		UPDATE offers
		SET status = $2, counter_amount = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		o.ID,
		o.Status,
		nullFloat(o.CounterAmount),
		o.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrOfferNotFound
	}

	return nil
}

func (r *OfferRepository) scanRows(rows *sql.Rows) ([]*offer.Offer, error) {
	var offers []*offer.Offer
	for rows.Next() {
		var o offer.Offer
		var counter sql.NullFloat64

		err := rows.Scan(
			&o.ID,
			&o.ListingID,
			&o.BuyerID,
			&o.Amount,
			&o.Note,
			&o.Status,
			&counter,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}

		if counter.Valid {
			o.CounterAmount = &counter.Float64
		}
		offers = append(offers, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// ListingRepository implements the listing repository interface
type ListingRepository struct {
	conn *Connection
}

// NewListingRepository creates a new listing repository
func NewListingRepository(conn *Connection) *ListingRepository {
	return &ListingRepository{conn: conn}
}

const listingColumns = `id, owner_id, title, description, price, category, image_url, status, created_at, updated_at`

// Create creates a new listing
func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		l.ID,
		l.OwnerID,
		l.Title,
		l.Description,
		l.Price,
		l.Category,
		l.ImageURL,
		l.Status,
		l.CreatedAt,
		l.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// GetByID retrieves a listing by ID
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE id = $1
	`

	var l listing.Listing
	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&l.ID,
		&l.OwnerID,
		&l.Title,
		&l.Description,
		&l.Price,
		&l.Category,
		&l.ImageURL,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return &l, nil
}

// ListActive retrieves active listings ordered by creation time
func (r *ListingRepository) ListActive(ctx context.Context, filter outbound.ListingFilter) ([]*listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE status = 'active'
	`

	var args []interface{}
	argCount := 1

	if filter.ExcludeOwnerID != nil {
		query += fmt.Sprintf(" AND owner_id <> $%d", argCount)
		args = append(args, *filter.ExcludeOwnerID)
		argCount++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, *filter.Category)
		argCount++
	}

	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	query += " ORDER BY created_at " + direction

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}

	rows, err := r.conn.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active listings: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// ListByOwner retrieves an owner's listings filtered by status
func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status listing.Status) ([]*listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings by owner: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// ListIDsByOwner retrieves the ids of every listing an owner holds
func (r *ListingRepository) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM listings WHERE owner_id = $1`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listing ids by owner: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan listing id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing ids: %w", err)
	}

	return ids, nil
}

// Update updates a listing
func (r *ListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, price = $4, category = $5,
		    image_url = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		l.ID,
		l.Title,
		l.Description,
		l.Price,
		l.Category,
		l.ImageURL,
		l.Status,
		l.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrListingNotFound
	}

	return nil
}

// Delete deletes a listing
func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM listings WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrListingNotFound
	}

	return nil
}

func (r *ListingRepository) scanRows(rows *sql.Rows) ([]*listing.Listing, error) {
	var listings []*listing.Listing
	for rows.Next() {
		var l listing.Listing
		err := rows.Scan(
			&l.ID,
			&l.OwnerID,
			&l.Title,
			&l.Description,
			&l.Price,
			&l.Category,
			&l.ImageURL,
			&l.Status,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"helpyhands-market-service/internal/domain/principal"
	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
)

// PrincipalRepository implements the principal repository interface
type PrincipalRepository struct {
	conn *Connection
}

// NewPrincipalRepository creates a new principal repository
func NewPrincipalRepository(conn *Connection) *PrincipalRepository {
	return &PrincipalRepository{conn: conn}
}

const principalColumns = `id, email, phone, username, display_name, password_hash, email_confirmed, phone_verified, created_at, updated_at`

// Create creates a new principal
func (r *PrincipalRepository) Create(ctx context.Context, p *principal.Principal) error {
	query := `
		INSERT INTO principals (` + principalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		p.ID,
		nullString(p.Email),
		nullString(p.Phone),
		p.Username,
		p.DisplayName,
		p.PasswordHash,
		p.EmailConfirmed,
		p.PhoneVerified,
		p.CreatedAt,
		p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create principal: %w", err)
	}

	return nil
}

// GetByID retrieves a principal by ID
func (r *PrincipalRepository) GetByID(ctx context.Context, id uuid.UUID) (*principal.Principal, error) {
	query := `
		SELECT ` + principalColumns + `
		FROM principals
		WHERE id = $1
	`

	return r.scanOne(r.conn.GetDB().QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a principal by email address
func (r *PrincipalRepository) GetByEmail(ctx context.Context, email string) (*principal.Principal, error) {
	query := `
		SELECT ` + principalColumns + `
		FROM principals
		WHERE email = $1
	`

	return r.scanOne(r.conn.GetDB().QueryRowContext(ctx, query, email))
}

// GetByPhone retrieves a principal by phone number
func (r *PrincipalRepository) GetByPhone(ctx context.Context, phone string) (*principal.Principal, error) {
	query := `
		SELECT ` + principalColumns + `
		FROM principals
		WHERE phone = $1
	`

	return r.scanOne(r.conn.GetDB().QueryRowContext(ctx, query, phone))
}

// Update updates a principal
func (r *PrincipalRepository) Update(ctx context.Context, p *principal.Principal) error {
	query := `
		UPDATE principals
		SET email = $2, phone = $3, username = $4, display_name = $5,
		    password_hash = $6, email_confirmed = $7, phone_verified = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		p.ID,
		nullString(p.Email),
		nullString(p.Phone),
		p.Username,
		p.DisplayName,
		p.PasswordHash,
		p.EmailConfirmed,
		p.PhoneVerified,
		p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update principal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrPrincipalNotFound
	}

	return nil
}

func (r *PrincipalRepository) scanOne(row *sql.Row) (*principal.Principal, error) {
	var p principal.Principal
	var email, phone sql.NullString

	err := row.Scan(
		&p.ID,
		&email,
		&phone,
		&p.Username,
		&p.DisplayName,
		&p.PasswordHash,
		&p.EmailConfirmed,
		&p.PhoneVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}

	p.Email = email.String
	p.Phone = phone.String

	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package db

import (
	"helpyhands-market-service/internal/ports/outbound"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn *Connection
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// GetPrincipalRepository returns the principal repository
func (f *RepositoryFactory) GetPrincipalRepository() outbound.PrincipalRepository {
	return NewPrincipalRepository(f.conn)
}

// GetListingRepository returns the listing repository
func (f *RepositoryFactory) GetListingRepository() outbound.ListingRepository {
	return NewListingRepository(f.conn)
}

// GetOfferRepository returns the offer repository
func (f *RepositoryFactory) GetOfferRepository() outbound.OfferRepository {
	return NewOfferRepository(f.conn)
}

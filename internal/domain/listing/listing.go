package listing

import (
	"time"

	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Status represents the current status of a listing
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// PlaceholderImageURL is used when a listing carries no image reference
const PlaceholderImageURL = "https://via.placeholder.com/400"

// Categories is the fixed set a listing may belong to
var Categories = []string{
	"Furniture",
	"Electronics",
	"Clothing",
	"Books",
	"Transportation",
	"Home & Garden",
	"Toys & Games",
	"Sports & Outdoors",
	"Other",
}

// Listing represents a sellable item owned by a principal
type Listing struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsActive returns true if the listing is still for sale
func (l *Listing) IsActive() bool {
	return l.Status == StatusActive
}

// IsOwnedBy returns true if the principal owns this listing
func (l *Listing) IsOwnedBy(principalID uuid.UUID) bool {
	return l.OwnerID == principalID
}

// MarkSold transitions the listing active -> sold. The transition is
// one-directional: a sold listing never becomes active again.
func (l *Listing) MarkSold() error {
	if l.Status != StatusActive {
		return shared.ErrInvalidTransition
	}
	l.Status = StatusSold
	l.UpdatedAt = time.Now()
	return nil
}

// ValidStatus reports whether s names a known listing status
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusSold
}

// ValidCategory reports whether the category is in the fixed list
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Validate checks listing fields before any remote call
func (l *Listing) Validate() error {
	if l.Title == "" {
		return shared.ErrTitleRequired
	}
	if l.Price < 0 {
		return shared.ErrInvalidPrice
	}
	if !ValidCategory(l.Category) {
		return shared.ErrInvalidCategory
	}
	return nil
}

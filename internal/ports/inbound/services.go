package inbound

import (
	"context"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/principal"
	"helpyhands-market-service/internal/domain/session"

	"github.com/google/uuid"
)

// IdentityService defines the identity and session operations
type IdentityService interface {
	// SignUp registers a new email/password principal pending confirmation
	SignUp(ctx context.Context, req SignUpRequest) (*principal.Principal, error)

	// ConfirmEmail marks a pending principal's email as verified
	ConfirmEmail(ctx context.Context, principalID uuid.UUID) error

	// SignIn authenticates by email+password, or starts an OTP challenge
	// when the identifier looks like a phone number
	SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error)

	// RequestOtp dispatches (or re-dispatches) a one-time code to a phone
	RequestOtp(ctx context.Context, phone string) error

	// VerifyOtp completes a phone challenge and issues a session
	VerifyOtp(ctx context.Context, req VerifyOtpRequest) (*AuthResult, error)

	// Refresh rotates the access token for a live session
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)

	// SignOut invalidates a session; idempotent
	SignOut(ctx context.Context, sessionID string) error

	// Resolve loads the live session for a session ID
	Resolve(ctx context.Context, sessionID string) (*session.Session, error)
}

// ListingService defines the listing directory operations
type ListingService interface {
	// Create creates a new active listing owned by the caller
	Create(ctx context.Context, caller *session.Session, req CreateListingRequest) (*listing.Listing, error)

	// Get retrieves a listing by ID
	Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error)

	// ListActive retrieves active listings, optionally excluding the caller's own
	ListActive(ctx context.Context, req ListActiveRequest) ([]*listing.Listing, error)

	// ListMine retrieves the caller's own listings filtered by status
	ListMine(ctx context.Context, caller *session.Session, status listing.Status) ([]*listing.Listing, error)

	// MarkSold transitions an owned listing active -> sold
	MarkSold(ctx context.Context, caller *session.Session, id uuid.UUID) (*listing.Listing, error)

	// Delete removes an owned listing
	Delete(ctx context.Context, caller *session.Session, id uuid.UUID) error
}

// OfferService defines the offer negotiation workflow
type OfferService interface {
	// Submit records a buyer's offer against a listing
	Submit(ctx context.Context, caller *session.Session, req SubmitOfferRequest) (*offer.Offer, error)

	// ListForSeller retrieves offers targeting the caller's listings, newest first
	ListForSeller(ctx context.Context, caller *session.Session) ([]*offer.Offer, error)

	// ListForBuyer retrieves the caller's outgoing offers, newest first
	ListForBuyer(ctx context.Context, caller *session.Session) ([]*offer.Offer, error)

	// Respond resolves a pending offer on one of the caller's listings
	Respond(ctx context.Context, caller *session.Session, req RespondOfferRequest) (*offer.Offer, error)
}

// request to sign up with email and password
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// request to sign in; Identifier is an email or a phone number
type SignInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// SignInResult carries either an authenticated session or a pending OTP
// challenge for phone identifiers
type SignInResult struct {
	Auth        *AuthResult `json:"auth,omitempty"`
	OtpRequired bool        `json:"otp_required"`
	Phone       string      `json:"phone,omitempty"`
}

// request to complete a phone OTP challenge
type VerifyOtpRequest struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	Username string `json:"username,omitempty"`
}

// AuthResult represents a successful authentication
type AuthResult struct {
	Principal    *principal.Principal `json:"principal"`
	Session      *session.Session     `json:"session"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
}

// request to create a listing
type CreateListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// request to browse active listings
type ListActiveRequest struct {
	ExcludeOwnerID *uuid.UUID `json:"exclude_owner_id,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Ascending      bool       `json:"ascending"`
	Limit          int        `json:"limit"`
}

// request to submit an offer
type SubmitOfferRequest struct {
	ListingID uuid.UUID `json:"listing_id"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note,omitempty"`
}

// request to resolve a pending offer
type RespondOfferRequest struct {
	OfferID       uuid.UUID      `json:"offer_id"`
	Decision      offer.Decision `json:"decision"`
	CounterAmount *float64       `json:"counter_amount,omitempty"`
}

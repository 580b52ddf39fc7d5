package shared

import "errors"

// Domain-specific errors
var (
	// Identity errors
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionExpired     = errors.New("session has expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrTokenInvalid       = errors.New("invalid token")

	// OTP errors
	ErrOtpMismatch        = errors.New("otp code does not match")
	ErrOtpExpired         = errors.New("otp has expired")
	ErrOtpMaxAttempts     = errors.New("maximum otp attempts exceeded")
	ErrOtpResendThrottled = errors.New("otp resend limit exceeded")

	// Listing errors
	ErrListingNotFound   = errors.New("listing not found")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidCategory   = errors.New("unknown listing category")
	ErrTitleRequired     = errors.New("listing title is required")
	ErrNotOwner          = errors.New("caller does not own this listing")
	ErrInvalidTransition = errors.New("only active listings can be marked sold")
	ErrListingNotActive  = errors.New("listing is no longer active")

	// Offer errors
	ErrInvalidAmount        = errors.New("offer amount must be a positive number")
	ErrOfferNotFound        = errors.New("offer not found")
	ErrOfferAlreadyResolved = errors.New("offer has already been resolved")
	ErrInvalidDecision      = errors.New("unknown offer decision")
	ErrOwnListingOffer      = errors.New("cannot make an offer on your own listing")
	ErrNotLegacyOffer       = errors.New("message content is not an offer")

	// Record store errors
	ErrStoreUnavailable = errors.New("record store unavailable")

	// Broadcasting errors
	ErrBroadcastFailed = errors.New("broadcast failed")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrListingIDRequired   = errors.New("listing_id is required")
	ErrOfferIDRequired     = errors.New("offer_id is required")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// WebSocket handler specific errors
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
	ErrClientNotSignedIn          = errors.New("client is not signed in")
)

package principal

import (
	"regexp"
	"time"

	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
)

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MinPhoneLength    = 10
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]+$`)
)

// Principal represents an authenticated identity in the marketplace.
// Exactly one of Email or Phone is the verified contact at any time.
type Principal struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	PasswordHash   string    `json:"-"`
	EmailConfirmed bool      `json:"email_confirmed"`
	PhoneVerified  bool      `json:"phone_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsPending returns true while the principal still awaits contact verification
func (p *Principal) IsPending() bool {
	return !p.EmailConfirmed && !p.PhoneVerified
}

// ConfirmEmail marks the email address as verified
func (p *Principal) ConfirmEmail() {
	p.EmailConfirmed = true
	p.UpdatedAt = time.Now()
}

// VerifyPhone marks the phone number as verified
func (p *Principal) VerifyPhone() {
	p.PhoneVerified = true
	p.UpdatedAt = time.Now()
}

// ValidEmail reports whether the address has a plausible mailbox shape
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsPhoneIdentifier reports whether a sign-in identifier looks like a phone
// number rather than an email address. Digits with an optional leading +.
func IsPhoneIdentifier(identifier string) bool {
	return phonePattern.MatchString(identifier)
}

// ValidateSignUp checks sign-up input locally, before any remote call
func ValidateSignUp(email, password, username string) error {
	if !ValidEmail(email) {
		return shared.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return shared.ErrPasswordTooShort
	}
	if len(username) < MinUsernameLength {
		return shared.ErrUsernameTooShort
	}
	return nil
}

// ValidatePhone checks that a phone identifier carries a country code and
// enough digits to dial
func ValidatePhone(phone string) error {
	if !IsPhoneIdentifier(phone) || len(phone) < MinPhoneLength {
		return shared.ErrInvalidPhone
	}
	return nil
}

package outbound

// Notifier defines outbound message dispatch for OTP codes and
// confirmation emails
type Notifier interface {
	// SendSMS delivers a text message to a phone number
	SendSMS(to, message string) error

	// SendEmail delivers an email
	SendEmail(to, subject, body string) error
}

// TokenService defines access/refresh token operations
type TokenService interface {
	// GenerateAccessToken issues a short-lived access token for a session
	GenerateAccessToken(principalID, sessionID string) (string, error)

	// GenerateRefreshToken issues a long-lived refresh token for a session
	GenerateRefreshToken(principalID, sessionID string) (string, error)

	// ValidateAccessToken parses and verifies an access token
	ValidateAccessToken(token string) (*TokenClaims, error)

	// ValidateRefreshToken parses and verifies a refresh token
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// TokenClaims represents verified token claims
type TokenClaims struct {
	PrincipalID string `json:"principal_id"`
	SessionID   string `json:"session_id"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}

// PasswordService defines password hashing operations
type PasswordService interface {
	// Hash derives a storable hash from a plaintext password
	Hash(password string) (string, error)

	// Verify checks a plaintext password against a stored hash
	Verify(hashedPassword, password string) bool
}

package mocks

import (
	"fmt"

	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"
)

// MockTokenService implements outbound.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc  func(principalID, sessionID string) (string, error)
	GenerateRefreshTokenFunc func(principalID, sessionID string) (string, error)
	ValidateAccessTokenFunc  func(token string) (*outbound.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*outbound.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) GenerateAccessToken(principalID, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(principalID, sessionID)
	}
	// Default behavior: deterministic token
	return fmt.Sprintf("access-%s-%s", principalID, sessionID), nil
}

func (m *MockTokenService) GenerateRefreshToken(principalID, sessionID string) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(principalID, sessionID)
	}
	// Default behavior: deterministic token
	return fmt.Sprintf("refresh-%s-%s", principalID, sessionID), nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	// Default behavior: invalid
	return nil, shared.ErrTokenInvalid
}

func (m *MockTokenService) ValidateRefreshToken(token string) (*outbound.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	// Default behavior: invalid
	return nil, shared.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ outbound.TokenService = (*MockTokenService)(nil)

package mocks

import (
	"helpyhands-market-service/internal/ports/outbound"
)

// MockPasswordService implements outbound.PasswordService for testing
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	// Default behavior: reversible marker hash
	return "hashed:" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	// Default behavior: match against the marker hash
	return hashedPassword == "hashed:"+password
}

// Compile-time interface compliance verification
var _ outbound.PasswordService = (*MockPasswordService)(nil)

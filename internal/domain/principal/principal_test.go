package principal

import (
	"errors"
	"testing"

	"helpyhands-market-service/internal/domain/shared"
)

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		username      string
		expectedError error
	}{
		{
			name:     "valid input",
			email:    "buyer@example.com",
			password: "secret1",
			username: "buyer",
		},
		{
			name:          "email without domain",
			email:         "buyer@",
			password:      "secret1",
			username:      "buyer",
			expectedError: shared.ErrInvalidEmail,
		},
		{
			name:          "email without at sign",
			email:         "buyer.example.com",
			password:      "secret1",
			username:      "buyer",
			expectedError: shared.ErrInvalidEmail,
		},
		{
			name:          "email with whitespace",
			email:         "buy er@example.com",
			password:      "secret1",
			username:      "buyer",
			expectedError: shared.ErrInvalidEmail,
		},
		{
			name:          "password too short",
			email:         "buyer@example.com",
			password:      "12345",
			username:      "buyer",
			expectedError: shared.ErrPasswordTooShort,
		},
		{
			name:     "password at minimum length",
			email:    "buyer@example.com",
			password: "123456",
			username: "buyer",
		},
		{
			name:          "username too short",
			email:         "buyer@example.com",
			password:      "secret1",
			username:      "ab",
			expectedError: shared.ErrUsernameTooShort,
		},
		{
			name:          "email checked before password",
			email:         "nope",
			password:      "x",
			username:      "a",
			expectedError: shared.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignUp(tt.email, tt.password, tt.username)
			if !errors.Is(err, tt.expectedError) {
				t.Errorf("expected error %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestIsPhoneIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		expected   bool
	}{
		{"+919876543210", true},
		{"9876543210", true},
		{"buyer@example.com", false},
		{"+91 98765", false},
		{"98765-43210", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			if got := IsPhoneIdentifier(tt.identifier); got != tt.expected {
				t.Errorf("IsPhoneIdentifier(%q) = %v, expected %v", tt.identifier, got, tt.expected)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name          string
		phone         string
		expectedError error
	}{
		{name: "valid with country code", phone: "+919876543210"},
		{name: "valid without plus", phone: "9876543210"},
		{name: "too short", phone: "+12345", expectedError: shared.ErrInvalidPhone},
		{name: "contains letters", phone: "+91abc543210", expectedError: shared.ErrInvalidPhone},
		{name: "empty", phone: "", expectedError: shared.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if !errors.Is(err, tt.expectedError) {
				t.Errorf("expected error %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestPrincipalPendingState(t *testing.T) {
	p := &Principal{Username: "buyer"}

	if !p.IsPending() {
		t.Error("new principal should be pending")
	}

	p.ConfirmEmail()
	if p.IsPending() {
		t.Error("principal should not be pending after email confirmation")
	}
	if !p.EmailConfirmed {
		t.Error("EmailConfirmed should be set")
	}

	q := &Principal{Username: "seller"}
	q.VerifyPhone()
	if q.IsPending() {
		t.Error("principal should not be pending after phone verification")
	}
}

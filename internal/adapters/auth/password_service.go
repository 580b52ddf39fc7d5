package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswordService implements the password service with bcrypt
type BcryptPasswordService struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() *BcryptPasswordService {
	return &BcryptPasswordService{
		cost: bcrypt.DefaultCost,
	}
}

// Hash derives a storable hash from a plaintext password
func (p *BcryptPasswordService) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify checks a plaintext password against a stored hash
func (p *BcryptPasswordService) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

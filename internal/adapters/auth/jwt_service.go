package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"helpyhands-market-service/internal/domain/shared"
	"helpyhands-market-service/internal/ports/outbound"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService implements the token service with HMAC-signed JWTs
type JWTService struct {
	secretKey       []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secretKey:       []byte(secretKey),
		issuer:          issuer,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTService) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (j *JWTService) generate(principalID, sessionID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"principal_id": principalID,
		"session_id":   sessionID,
		"type":         tokenType,
		"iss":          j.issuer,
		"iat":          now.Unix(),
		"exp":          now.Add(ttl).Unix(),
		"jti":          j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// GenerateAccessToken issues a short-lived access token for a session
func (j *JWTService) GenerateAccessToken(principalID, sessionID string) (string, error) {
	return j.generate(principalID, sessionID, "access", j.accessTokenTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for a session
func (j *JWTService) GenerateRefreshToken(principalID, sessionID string) (string, error) {
	return j.generate(principalID, sessionID, "refresh", j.refreshTokenTTL)
}

// ValidateAccessToken parses and verifies an access token
func (j *JWTService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	return j.validate(token, "access")
}

// ValidateRefreshToken parses and verifies a refresh token
func (j *JWTService) ValidateRefreshToken(token string) (*outbound.TokenClaims, error) {
	return j.validate(token, "refresh")
}

func (j *JWTService) validate(tokenString, expectedType string) (*outbound.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, shared.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, shared.ErrTokenInvalid
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != expectedType {
		return nil, shared.ErrTokenInvalid
	}

	principalID, _ := claims["principal_id"].(string)
	sessionID, _ := claims["session_id"].(string)
	if principalID == "" || sessionID == "" {
		return nil, shared.ErrTokenInvalid
	}

	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &outbound.TokenClaims{
		PrincipalID: principalID,
		SessionID:   sessionID,
		IssuedAt:    int64(iat),
		ExpiresAt:   int64(exp),
	}, nil
}

package services

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by bearer tokens
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService identifies requesters from bearer tokens issued elsewhere
type TokenService struct {
	jwtSecret []byte
	parser    *jwt.Parser
}

// NewTokenService creates a new token service
func NewTokenService(jwtSecret string) *TokenService {
	return &TokenService{
		jwtSecret: []byte(jwtSecret),
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// ValidateJWT validates an HS256 token and returns the requester's user ID
func (s *TokenService) ValidateJWT(tokenString string) (string, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.UserID == "" {
		return "", errors.New("user_id not found in token")
	}

	return claims.UserID, nil
}

// Package auth implements bearer-token validation for practitioner sessions.
// Session issuance lives in the identity provider; this service only verifies.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"numina/internal/platform/middleware"
	id "numina/pkg/domain"
)

// Validator verifies HS256-signed session tokens.
type Validator struct {
	signingKey []byte
}

// NewValidator creates a token validator with the shared signing key.
func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

type sessionClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies a token, returning the claims the
// middleware stores in the request context.
func (v *Validator) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id claim: %w", err)
	}

	return &middleware.JWTClaims{
		UserID:    userID,
		SessionID: claims.SessionID,
	}, nil
}

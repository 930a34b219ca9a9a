// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

// Package sec provides token verification primitives for the API services.
//
// # Architecture
//
// Vendora does not issue tokens itself — the external identity provider does.
// This package isolates the security-sensitive verification code from the
// domain logic. It is injected into the middleware layer via the
// [middleware.TokenVerifier] interface.
package sec

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeList holds the OAuth2 scopes granted to a token.
//
// # Wire Format
//
// The identity provider emits the `scope` claim either as a JSON array
// (multiple scopes) or as a single string (one scope). Both shapes decode
// into the same slice.
type ScopeList []string

// UnmarshalJSON accepts both the array and the single-string claim shape.
func (s *ScopeList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("sec: malformed scope claim: %w", err)
	}
	*s = []string{one}
	return nil
}

// Contains reports whether the given scope was granted.
func (s ScopeList) Contains(scope string) bool {
	for _, granted := range s {
		if granted == scope {
			return true
		}
	}
	return false
}

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By reading subject, name, email, and scopes directly from the JWT, the
// [middleware.Authenticate] chain can reconstruct the active caller context
// WITHOUT a round-trip to the identity provider on every API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Scope ScopeList `json:"scope,omitempty"`
}

// TokenVerifier checks RS256 signatures of access tokens issued by the
// identity provider. It holds only the provider's public key — Vendora
// never signs tokens.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
}

// NewTokenVerifier creates a TokenVerifier from a PEM-encoded RSA public key file.
func NewTokenVerifier(publicKeyPath string) (*TokenVerifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenVerifier{publicKey: publicKey}, nil
}

// NewTokenVerifierFromKey wraps an already-loaded RSA public key.
//
// Used by tests that generate an ephemeral signing key pair.
func NewTokenVerifierFromKey(publicKey *rsa.PublicKey) *TokenVerifier {
	return &TokenVerifier{publicKey: publicKey}
}

// VerifyToken checks the signature and validity of a JWT string.
func (verifier *TokenVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return verifier.publicKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

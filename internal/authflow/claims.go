// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeUnverifiedClaims extracts display claims from a JWT access token
// WITHOUT verifying its signature.
//
// # Trust Boundary
//
// The result is suitable only for rendering who is signed in. Every
// authorization decision happens server-side in the API middleware, which
// verifies the signature against the provider's public key.
func DecodeUnverifiedClaims(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("parse access token payload: %w", err)
	}

	identity := Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = sub
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// unreservedChars is the RFC 7636 §4.1 code verifier alphabet.
const unreservedChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// NewCodeVerifier returns a 128-character PKCE code verifier drawn
// uniformly from the RFC 7636 unreserved character set.
func NewCodeVerifier() string {
	return randomString(CodeVerifierLength)
}

// NewState returns an unguessable CSRF state parameter.
func NewState() string {
	return randomString(CSRFStateLength)
}

// ChallengeS256 derives the S256 code challenge for a verifier:
// base64url without padding over the SHA-256 digest.
func ChallengeS256(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// randomString draws each character independently via crypto/rand.Int,
// which rejects out-of-range values rather than folding them with a
// biased modulo.
func randomString(length int) string {
	max := big.NewInt(int64(len(unreservedChars)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Entropy failure is unrecoverable; matches uuidv7.New.
			panic(fmt.Sprintf("authflow: failed to read random bytes: %v", err))
		}
		out[i] = unreservedChars[n.Int64()]
	}
	return string(out)
}

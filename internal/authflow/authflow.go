// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package authflow implements the OAuth2/OIDC Authorization Code + PKCE flow
against the external identity provider.

It is the backend-for-frontend counterpart of the storefront SPA: per-browser
login flow state (PKCE verifier, CSRF state) survives the full-page redirect
to the provider in a TTL-bound Redis entry keyed by an opaque cookie, and the
issued access token is held in a server-side session.

Architecture:

  - Service: Orchestrates BeginLogin, HandleCallback, Logout and publishes
    auth state transitions to subscribers.
  - Stores: Abstracted interfaces for flow and session state (Redis).
  - PKCE: Verifier/challenge/state generation primitives (crypto/rand, S256).

The access token payload is decoded WITHOUT signature verification — strictly
for display. Verification happens where it matters: in the API middleware.
*/
package authflow

import (
	"net/http"
	"time"
)

// # Domain Entities

// Identity holds the claims decoded from the access token payload.
//
// # Trust Boundary
//
// These values come from [DecodeUnverifiedClaims] and are informational
// only. They must never be used for authorization decisions.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}

// AuthState is the observable snapshot of a browser session's auth status.
//
// It is always passed and returned by value; mutating a snapshot never
// affects the state held by the [Service].
type AuthState struct {
	IsAuthenticated bool     `json:"is_authenticated"`
	AccessToken     string   `json:"access_token,omitempty"`
	User            Identity `json:"user,omitzero"`
}

// FlowState is the transient PKCE material for one login attempt.
//
// Created at login initiation, consumed exactly once at callback time.
// It lives in the flow store under a TTL so an abandoned login cannot be
// replayed indefinitely.
type FlowState struct {
	CodeVerifier string    `json:"code_verifier"`
	CSRFState    string    `json:"csrf_state"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents an established browser session after a successful
// token exchange.
type Session struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Identity  `json:"user"`
}

// State returns the session as an authenticated [AuthState] snapshot.
func (s *Session) State() AuthState {
	return AuthState{
		IsAuthenticated: true,
		AccessToken:     s.AccessToken,
		User:            s.User,
	}
}

// TokenResponse is the JSON body returned by the provider's token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// # Failure Taxonomy
//
// All conditions below are recoverable by the caller (typically by starting
// a fresh login) and are surfaced as explicit [apperr.AppError] values.

const (
	// CodeInvalidCallback: callback missing code/state, or CSRF state mismatch.
	CodeInvalidCallback = "INVALID_CALLBACK"

	// CodeMissingVerifier: callback arrived without a stored PKCE verifier.
	CodeMissingVerifier = "MISSING_VERIFIER"

	// CodeTokenExchangeFailed: the provider's token endpoint rejected the exchange.
	CodeTokenExchangeFailed = "TOKEN_EXCHANGE_FAILED"
)

// HTTP statuses for the taxonomy. The token exchange talks to an upstream
// collaborator, so its failures map to 502 rather than 400.
const (
	statusInvalidCallback     = http.StatusBadRequest
	statusMissingVerifier     = http.StatusBadRequest
	statusTokenExchangeFailed = http.StatusBadGateway
)

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/storefront/internal/authflow"
	"github.com/vendora/storefront/internal/platform/apperr"
)

// tokenEndpointHandler validates the exchange request the way the real
// provider would: form encoding, PKCE verifier binding, and grant type.
func tokenEndpointHandler(t *testing.T, expectedChallenge *string, accessToken string) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodPost, request.Method)
		require.Equal(t, "application/x-www-form-urlencoded",
			request.Header.Get("Content-Type"))
		require.NoError(t, request.ParseForm())

		assert.Equal(t, "authorization_code", request.PostForm.Get("grant_type"))
		assert.Equal(t, "storefront", request.PostForm.Get("client_id"))
		assert.Equal(t, "auth-code-1", request.PostForm.Get("code"))
		assert.NotEmpty(t, request.PostForm.Get("redirect_uri"))

		verifier := request.PostForm.Get("code_verifier")
		require.NotEmpty(t, verifier)
		if expectedChallenge != nil {
			assert.Equal(t, *expectedChallenge, authflow.ChallengeS256(verifier))
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}
}

// newTestService wires a Service against miniredis stores and the given
// provider stub.
func newTestService(t *testing.T, providerURL string) (*authflow.Service, *authflow.RedisStore) {
	t.Helper()

	store, _ := newTestStore(t)
	service := authflow.NewService(authflow.Options{
		Authority:             providerURL,
		ClientID:              "storefront",
		RedirectURI:           "https://shop.example/api/v1/auth/callback",
		Scopes:                []string{"openid", "profile", "order.view", "order.edit"},
		PostLogoutRedirectURI: "https://shop.example/",
	}, store, store)
	return service, store
}

/*
TestService_BeginLogin checks the authorization URL shape and that every
call produces fresh PKCE material.
*/
func TestService_BeginLogin(t *testing.T) {
	service, store := newTestService(t, "https://id.example")
	ctx := context.Background()

	first, err := service.BeginLogin(ctx)
	require.NoError(t, err)
	second, err := service.BeginLogin(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.FlowID, second.FlowID)

	parsed, err := url.Parse(first.AuthorizationURL)
	require.NoError(t, err)
	assert.Equal(t, "https", parsed.Scheme)
	assert.Equal(t, "id.example", parsed.Host)
	assert.Equal(t, "/connect/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "storefront", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "https://shop.example/api/v1/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "openid profile order.view order.edit", query.Get("scope"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))
	assert.NotEmpty(t, query.Get("state"))
	assert.NotEmpty(t, query.Get("code_challenge"))

	secondQuery, err := url.Parse(second.AuthorizationURL)
	require.NoError(t, err)
	assert.NotEqual(t, query.Get("state"), secondQuery.Query().Get("state"))
	assert.NotEqual(t, query.Get("code_challenge"), secondQuery.Query().Get("code_challenge"))

	// Flow state must survive the redirect: stored with the CSRF state.
	flow, err := store.GetFlow(ctx, first.FlowID)
	require.NoError(t, err)
	assert.Equal(t, query.Get("state"), flow.CSRFState)
	assert.Equal(t, query.Get("code_challenge"), authflow.ChallengeS256(flow.CodeVerifier))
}

/*
TestService_HandleCallback_Success runs the full happy path: CSRF check,
PKCE-bound exchange, session establishment, flow consumption, and the
subscriber notification.
*/
func TestService_HandleCallback_Success(t *testing.T) {
	accessToken := signTestToken(t, jwt.MapClaims{
		"sub":   "user-42",
		"name":  "Vault Dweller",
		"email": "dweller@vault111.example",
	})

	var expectedChallenge string
	provider := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/connect/token", request.URL.Path)
		tokenEndpointHandler(t, &expectedChallenge, accessToken)(writer, request)
	}))
	defer provider.Close()

	service, store := newTestService(t, provider.URL)
	ctx := context.Background()

	var observed []authflow.AuthState
	service.Subscribe(func(state authflow.AuthState) {
		observed = append(observed, state)
	})

	challenge, err := service.BeginLogin(ctx)
	require.NoError(t, err)

	parsed, _ := url.Parse(challenge.AuthorizationURL)
	expectedChallenge = parsed.Query().Get("code_challenge")
	state := parsed.Query().Get("state")

	session, err := service.HandleCallback(ctx, challenge.FlowID, "auth-code-1", state)
	require.NoError(t, err)

	assert.Equal(t, accessToken, session.AccessToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, "user-42", session.User.Subject)
	assert.Equal(t, "Vault Dweller", session.User.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	// The flow is single-use and must be gone after success.
	_, err = store.GetFlow(ctx, challenge.FlowID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	// Exactly one transition, carrying the authenticated snapshot.
	require.Len(t, observed, 1)
	assert.True(t, observed[0].IsAuthenticated)
	assert.Equal(t, accessToken, observed[0].AccessToken)
	assert.Equal(t, "user-42", observed[0].User.Subject)
}

/*
TestService_HandleCallback_InvalidParameters exercises the CSRF and
parameter checks. Failed attempts must leave the flow state intact.
*/
func TestService_HandleCallback_InvalidParameters(t *testing.T) {
	service, store := newTestService(t, "https://id.example")
	ctx := context.Background()

	challenge, err := service.BeginLogin(ctx)
	require.NoError(t, err)
	parsed, _ := url.Parse(challenge.AuthorizationURL)
	state := parsed.Query().Get("state")

	tests := []struct {
		name   string
		flowID string
		code   string
		state  string
	}{
		{"missing_code", challenge.FlowID, "", state},
		{"missing_state", challenge.FlowID, "auth-code-1", ""},
		{"state_mismatch", challenge.FlowID, "auth-code-1", "forged-state"},
		{"unknown_flow", "no-such-flow", "auth-code-1", state},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.HandleCallback(ctx, tt.flowID, tt.code, tt.state)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, authflow.CodeInvalidCallback, ae.Code)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		})
	}

	// After every failure the attempt is still retryable.
	flow, err := store.GetFlow(ctx, challenge.FlowID)
	require.NoError(t, err)
	assert.Equal(t, state, flow.CSRFState)
}

/*
TestService_HandleCallback_MissingVerifier hits the stored-flow-without-
verifier condition: the state matches but no PKCE verifier exists.
*/
func TestService_HandleCallback_MissingVerifier(t *testing.T) {
	service, store := newTestService(t, "https://id.example")
	ctx := context.Background()

	flow := authflow.FlowState{CSRFState: "state-1", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveFlow(ctx, "flow-1", flow, authflow.FlowTTL))

	_, err := service.HandleCallback(ctx, "flow-1", "auth-code-1", "state-1")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, authflow.CodeMissingVerifier, ae.Code)
}

/*
TestService_HandleCallback_TokenExchangeFailed checks that the provider's
error body is surfaced in the failure, never swallowed, and that the flow
remains retryable.
*/
func TestService_HandleCallback_TokenExchangeFailed(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(writer, `{"error":"invalid_grant"}`)
	}))
	defer provider.Close()

	service, store := newTestService(t, provider.URL)
	ctx := context.Background()

	var observed []authflow.AuthState
	service.Subscribe(func(state authflow.AuthState) {
		observed = append(observed, state)
	})

	challenge, err := service.BeginLogin(ctx)
	require.NoError(t, err)
	parsed, _ := url.Parse(challenge.AuthorizationURL)
	state := parsed.Query().Get("state")

	_, err = service.HandleCallback(ctx, challenge.FlowID, "auth-code-1", state)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, authflow.CodeTokenExchangeFailed, ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	assert.Contains(t, ae.Message, "400")
	assert.Contains(t, ae.Message, "invalid_grant")

	// No transition on failure, and the flow survives for a retry.
	assert.Empty(t, observed)
	_, err = store.GetFlow(ctx, challenge.FlowID)
	assert.NoError(t, err)
}

/*
TestService_Logout checks session erasure, subscriber ordering, and the
end-session URL. Logging out without a session is a no-op transition.
*/
func TestService_Logout(t *testing.T) {
	service, store := newTestService(t, "https://id.example")
	ctx := context.Background()

	session := &authflow.Session{
		ID:          "session-1",
		AccessToken: "token-abc",
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
		User:        authflow.Identity{Subject: "user-42"},
	}
	require.NoError(t, store.SaveSession(ctx, session, time.Hour))

	var observed []authflow.AuthState
	service.Subscribe(func(state authflow.AuthState) {
		observed = append(observed, state)
	})

	endSessionURL, err := service.Logout(ctx, "session-1")
	require.NoError(t, err)

	parsed, err := url.Parse(endSessionURL)
	require.NoError(t, err)
	assert.Equal(t, "/connect/endsession", parsed.Path)
	assert.Equal(t, "https://shop.example/",
		parsed.Query().Get("post_logout_redirect_uri"))

	// Local state is cleared and subscribers saw it before we returned.
	_, err = store.GetSession(ctx, "session-1")
	require.Error(t, err)
	require.Len(t, observed, 1)
	assert.False(t, observed[0].IsAuthenticated)
	assert.Empty(t, observed[0].AccessToken)

	// Idempotent: no session, still a clean transition.
	_, err = service.Logout(ctx, "session-1")
	assert.NoError(t, err)
	assert.Len(t, observed, 2)
}

/*
TestService_Snapshot returns the zero state for unknown sessions and a
value copy for live ones.
*/
func TestService_Snapshot(t *testing.T) {
	service, store := newTestService(t, "https://id.example")
	ctx := context.Background()

	assert.Equal(t, authflow.AuthState{}, service.Snapshot(ctx, ""))
	assert.Equal(t, authflow.AuthState{}, service.Snapshot(ctx, "nope"))

	session := &authflow.Session{
		ID:          "session-1",
		AccessToken: "token-abc",
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
		User:        authflow.Identity{Subject: "user-42", Name: "Vault Dweller"},
	}
	require.NoError(t, store.SaveSession(ctx, session, time.Hour))

	snapshot := service.Snapshot(ctx, "session-1")
	assert.True(t, snapshot.IsAuthenticated)
	assert.Equal(t, "token-abc", snapshot.AccessToken)

	// Mutating the snapshot must not leak into stored state.
	snapshot.User.Name = "Someone Else"
	again := service.Snapshot(ctx, "session-1")
	assert.Equal(t, "Vault Dweller", again.User.Name)
}

/*
TestService_Subscribe verifies synchronous in-order delivery and that
unsubscribing one listener leaves the others untouched.
*/
func TestService_Subscribe(t *testing.T) {
	service, _ := newTestService(t, "https://id.example")
	ctx := context.Background()

	var order []string
	unsubscribeFirst := service.Subscribe(func(authflow.AuthState) {
		order = append(order, "first")
	})
	service.Subscribe(func(authflow.AuthState) {
		order = append(order, "second")
	})

	require.NoError(t, service.ClearSession(ctx, ""))
	assert.Equal(t, []string{"first", "second"}, order)

	unsubscribeFirst()
	// Unsubscribe is idempotent.
	unsubscribeFirst()

	require.NoError(t, service.ClearSession(ctx, ""))
	assert.Equal(t, []string{"first", "second", "second"}, order)
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vendora/storefront/internal/platform/apperr"
	"github.com/vendora/storefront/internal/platform/constants"
	"github.com/vendora/storefront/pkg/uuidv7"
)

// Listener receives auth state snapshots. Listeners are invoked
// synchronously, in registration order, one snapshot per transition.
type Listener func(state AuthState)

// Options configures the [Service] against one OIDC provider.
type Options struct {
	// Authority is the provider base URL, e.g. "https://id.vendora.shop".
	Authority string
	// ClientID is the public client identifier registered at the provider.
	ClientID string
	// RedirectURI is the absolute callback URL registered at the provider.
	RedirectURI string
	// Scopes are the space-joined scopes requested at login.
	Scopes []string
	// PostLogoutRedirectURI is where the provider sends the browser after
	// ending its session.
	PostLogoutRedirectURI string
	// HTTPClient performs the token exchange. Defaults to a client with a
	// short timeout when nil.
	HTTPClient *http.Client
}

// Service orchestrates the Authorization Code + PKCE flow.
//
// One instance serves all browser sessions; per-attempt state lives in the
// flow store, per-browser state in the session store.
type Service struct {
	opts       Options
	flows      FlowStore
	sessions   SessionStore
	httpClient *http.Client

	mutex          sync.Mutex
	listeners      []listenerEntry
	nextListenerID uint64
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// NewService creates the flow orchestrator.
func NewService(opts Options, flows FlowStore, sessions SessionStore) *Service {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{
		opts:       opts,
		flows:      flows,
		sessions:   sessions,
		httpClient: httpClient,
	}
}

// # Flow Operations

// LoginChallenge is the result of initiating a login: an opaque flow
// identifier for the browser to carry, and the provider URL to visit.
type LoginChallenge struct {
	FlowID           string
	AuthorizationURL string
}

// BeginLogin generates fresh PKCE material, persists it under a new flow
// identifier, and builds the provider authorization URL.
//
// Every call generates a fresh verifier and state; flows are never reused.
func (s *Service) BeginLogin(ctx context.Context) (*LoginChallenge, error) {
	verifier := NewCodeVerifier()
	state := NewState()
	flowID := uuidv7.New()

	flow := FlowState{
		CodeVerifier: verifier,
		CSRFState:    state,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.flows.SaveFlow(ctx, flowID, flow, FlowTTL); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("client_id", s.opts.ClientID)
	query.Set("redirect_uri", s.opts.RedirectURI)
	query.Set("response_type", "code")
	query.Set("scope", strings.Join(s.opts.Scopes, " "))
	query.Set("state", state)
	query.Set("code_challenge", ChallengeS256(verifier))
	query.Set("code_challenge_method", "S256")

	return &LoginChallenge{
		FlowID:           flowID,
		AuthorizationURL: s.endpoint(constants.AuthorizePath) + "?" + query.Encode(),
	}, nil
}

// HandleCallback consumes the provider redirect: it validates the CSRF
// state, exchanges the authorization code for tokens with the stored PKCE
// verifier, and establishes a session.
//
// # Failure Semantics
//
// On any failure the stored flow state is left untouched so the attempt
// can be retried until the flow TTL expires. The flow is consumed only
// after a successful exchange.
func (s *Service) HandleCallback(ctx context.Context, flowID, code, state string) (*Session, error) {
	if code == "" || state == "" {
		return nil, apperr.New(CodeInvalidCallback,
			"Invalid callback parameters", statusInvalidCallback)
	}

	flow, err := s.flows.GetFlow(ctx, flowID)
	if err != nil {
		if apperr.IsAppError(err) && apperr.As(err).HTTPStatus == http.StatusNotFound {
			return nil, apperr.New(CodeInvalidCallback,
				"Invalid callback parameters", statusInvalidCallback).WithCause(err)
		}
		return nil, err
	}
	if state != flow.CSRFState {
		return nil, apperr.New(CodeInvalidCallback,
			"Invalid callback parameters", statusInvalidCallback)
	}
	if flow.CodeVerifier == "" {
		return nil, apperr.New(CodeMissingVerifier,
			"Code verifier not found", statusMissingVerifier)
	}

	tokens, err := s.exchangeCode(ctx, code, flow.CodeVerifier)
	if err != nil {
		return nil, err
	}

	identity, err := DecodeUnverifiedClaims(tokens.AccessToken)
	if err != nil {
		return nil, apperr.New(CodeTokenExchangeFailed,
			"Token endpoint returned a malformed access token",
			statusTokenExchangeFailed).WithCause(err)
	}

	ttl := DefaultSessionTTL
	if tokens.ExpiresIn > 0 {
		ttl = time.Duration(tokens.ExpiresIn) * time.Second
	}

	session := &Session{
		ID:          uuidv7.New(),
		AccessToken: tokens.AccessToken,
		TokenType:   tokens.TokenType,
		ExpiresAt:   time.Now().UTC().Add(ttl),
		User:        identity,
	}
	if err := s.sessions.SaveSession(ctx, session, ttl); err != nil {
		return nil, err
	}

	// The flow is single-use: consume it only once the session exists.
	if err := s.flows.DeleteFlow(ctx, flowID); err != nil {
		return nil, err
	}

	s.notify(session.State())
	return session, nil
}

// exchangeCode performs the form-encoded POST to the provider's token
// endpoint. A non-2xx response surfaces the provider's body verbatim so
// misconfigured clients can be diagnosed from the error alone.
func (s *Service) exchangeCode(ctx context.Context, code, verifier string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", s.opts.ClientID)
	form.Set("code", code)
	form.Set("redirect_uri", s.opts.RedirectURI)
	form.Set("code_verifier", verifier)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.endpoint(constants.TokenPath), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("build token request: %w", err))
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, apperr.New(CodeTokenExchangeFailed,
			"Token endpoint unreachable", statusTokenExchangeFailed).WithCause(err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return nil, apperr.New(CodeTokenExchangeFailed,
			"Failed to read token endpoint response", statusTokenExchangeFailed).WithCause(err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, apperr.New(CodeTokenExchangeFailed,
			fmt.Sprintf("Token exchange failed: %d %s", response.StatusCode, strings.TrimSpace(string(body))),
			statusTokenExchangeFailed)
	}

	tokens := &TokenResponse{}
	if err := json.Unmarshal(body, tokens); err != nil {
		return nil, apperr.New(CodeTokenExchangeFailed,
			"Token endpoint returned malformed JSON", statusTokenExchangeFailed).WithCause(err)
	}
	if tokens.AccessToken == "" {
		return nil, apperr.New(CodeTokenExchangeFailed,
			"Token endpoint response is missing access_token", statusTokenExchangeFailed)
	}
	return tokens, nil
}

// # Session Operations

// Snapshot returns the current auth state for a session identifier.
// An empty or unknown identifier yields the unauthenticated zero state.
func (s *Service) Snapshot(ctx context.Context, sessionID string) AuthState {
	if sessionID == "" {
		return AuthState{}
	}
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return AuthState{}
	}
	return session.State()
}

// Logout erases the session, notifies subscribers, and returns the
// provider end-session URL for the browser to visit.
//
// Subscribers observe the cleared state before the browser navigates away,
// mirroring the local-first ordering of the storefront UI.
func (s *Service) Logout(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			return "", err
		}
	}
	s.notify(AuthState{})

	query := url.Values{}
	query.Set("post_logout_redirect_uri", s.opts.PostLogoutRedirectURI)
	return s.endpoint(constants.EndSessionPath) + "?" + query.Encode(), nil
}

// ClearSession erases local session state without contacting the provider.
// Used when a downstream 401 reveals the token is no longer honored.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	if sessionID != "" {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			return err
		}
	}
	s.notify(AuthState{})
	return nil
}

// # Observer Registry

// Subscribe registers a listener for auth state transitions and returns
// its unsubscribe function. Unsubscribing is idempotent and never
// disturbs other registrations.
func (s *Service) Subscribe(listener Listener) func() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextListenerID++
	id := s.nextListenerID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: listener})

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify delivers one snapshot per transition to every listener, in
// registration order. Each listener gets its own value copy.
func (s *Service) notify(state AuthState) {
	s.mutex.Lock()
	entries := make([]listenerEntry, len(s.listeners))
	copy(entries, s.listeners)
	s.mutex.Unlock()

	for _, entry := range entries {
		entry.fn(state)
	}
}

func (s *Service) endpoint(path string) string {
	return strings.TrimRight(s.opts.Authority, "/") + path
}

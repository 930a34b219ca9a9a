// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/storefront/internal/authflow"
)

// cookieByName finds a Set-Cookie entry in a recorded response.
func cookieByName(t *testing.T, recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func newTestHandler(t *testing.T, providerURL string) (*authflow.Handler, *authflow.Service) {
	t.Helper()
	service, _ := newTestService(t, providerURL)
	return authflow.NewHandler(service, "/shop", false), service
}

/*
TestHandler_Login issues the flow cookie and redirects the browser to
the provider's authorization endpoint.
*/
func TestHandler_Login(t *testing.T) {
	handler, _ := newTestHandler(t, "https://id.example")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/login", nil)
	handler.Routes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "id.example", location.Host)
	assert.Equal(t, "/connect/authorize", location.Path)
	assert.Equal(t, "S256", location.Query().Get("code_challenge_method"))

	flowCookie := cookieByName(t, recorder, "vendora_auth_flow")
	require.NotNil(t, flowCookie)
	assert.NotEmpty(t, flowCookie.Value)
	assert.True(t, flowCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, flowCookie.SameSite)
}

/*
TestHandler_Callback_Success swaps the flow cookie for a session cookie
and redirects to the post-login page.
*/
func TestHandler_Callback_Success(t *testing.T) {
	accessToken := signTestToken(t, jwt.MapClaims{"sub": "user-42"})

	provider := httptest.NewServer(tokenEndpointHandler(t, nil, accessToken))
	defer provider.Close()

	handler, _ := newTestHandler(t, provider.URL)
	routes := handler.Routes()

	// Start a login to obtain a real flow cookie and CSRF state.
	loginRecorder := httptest.NewRecorder()
	routes.ServeHTTP(loginRecorder, httptest.NewRequest(http.MethodGet, "/login", nil))
	flowCookie := cookieByName(t, loginRecorder, "vendora_auth_flow")
	require.NotNil(t, flowCookie)

	location, err := url.Parse(loginRecorder.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	callback := httptest.NewRequest(http.MethodGet,
		"/callback?code=auth-code-1&state="+url.QueryEscape(state), nil)
	callback.AddCookie(flowCookie)

	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, callback)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/shop", recorder.Header().Get("Location"))

	sessionCookie := cookieByName(t, recorder, "vendora_session")
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	// The flow cookie is cleared once the flow is consumed.
	clearedFlow := cookieByName(t, recorder, "vendora_auth_flow")
	require.NotNil(t, clearedFlow)
	assert.Empty(t, clearedFlow.Value)
	assert.Negative(t, clearedFlow.MaxAge)
}

/*
TestHandler_Callback_NoFlowCookie rejects callbacks that arrive without
a pending flow.
*/
func TestHandler_Callback_NoFlowCookie(t *testing.T) {
	handler, _ := newTestHandler(t, "https://id.example")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/callback?code=c&state=s", nil)
	handler.Routes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, authflow.CodeInvalidCallback, envelope.Code)
}

/*
TestHandler_Session exposes the auth state snapshot: the zero state
without a cookie, the authenticated state with one.
*/
func TestHandler_Session(t *testing.T) {
	accessToken := signTestToken(t, jwt.MapClaims{"sub": "user-42", "name": "Vault Dweller"})

	provider := httptest.NewServer(tokenEndpointHandler(t, nil, accessToken))
	defer provider.Close()

	handler, service := newTestHandler(t, provider.URL)
	routes := handler.Routes()

	// Anonymous snapshot.
	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var anonymous struct {
		Data authflow.AuthState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &anonymous))
	assert.False(t, anonymous.Data.IsAuthenticated)

	// Authenticated snapshot through a real login.
	challenge, err := service.BeginLogin(t.Context())
	require.NoError(t, err)
	parsed, _ := url.Parse(challenge.AuthorizationURL)

	session, err := service.HandleCallback(t.Context(),
		challenge.FlowID, "auth-code-1", parsed.Query().Get("state"))
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/session", nil)
	request.AddCookie(&http.Cookie{Name: "vendora_session", Value: session.ID})

	recorder = httptest.NewRecorder()
	routes.ServeHTTP(recorder, request)

	var authenticated struct {
		Data authflow.AuthState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &authenticated))
	assert.True(t, authenticated.Data.IsAuthenticated)
	assert.Equal(t, accessToken, authenticated.Data.AccessToken)
	assert.Equal(t, "Vault Dweller", authenticated.Data.User.Name)
}

/*
TestHandler_Logout clears the session cookie and redirects to the
provider's end-session endpoint.
*/
func TestHandler_Logout(t *testing.T) {
	handler, _ := newTestHandler(t, "https://id.example")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.AddCookie(&http.Cookie{Name: "vendora_session", Value: "session-1"})
	handler.Routes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/connect/endsession", location.Path)

	cleared := cookieByName(t, recorder, "vendora_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

/*
TestHandler_ClearSession drops local state without a provider redirect.
*/
func TestHandler_ClearSession(t *testing.T) {
	handler, _ := newTestHandler(t, "https://id.example")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/session", nil)
	request.AddCookie(&http.Cookie{Name: "vendora_session", Value: "session-1"})
	handler.Routes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)

	cleared := cookieByName(t, recorder, "vendora_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

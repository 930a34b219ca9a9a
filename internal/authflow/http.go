// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/storefront/internal/platform/apperr"
	"github.com/vendora/storefront/internal/platform/constants"
	"github.com/vendora/storefront/internal/platform/respond"
)

// Handler exposes the login flow over HTTP.
//
// The browser carries two opaque cookies: a short-lived flow cookie that
// survives the redirect to the provider, and a session cookie once the
// exchange succeeds. Tokens themselves never travel in cookies.
type Handler struct {
	service           *Service
	postLoginRedirect string
	secureCookies     bool
}

// NewHandler creates the auth HTTP handler.
//
// # Parameters
//   - service: Flow orchestrator.
//   - postLoginRedirect: Where to send the browser after a successful callback.
//   - secureCookies: Set the Secure flag on cookies (disabled for local dev).
func NewHandler(service *Service, postLoginRedirect string, secureCookies bool) *Handler {
	return &Handler{
		service:           service,
		postLoginRedirect: postLoginRedirect,
		secureCookies:     secureCookies,
	}
}

// Routes returns the router for the /auth subtree.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/login", h.login)
	router.Get("/callback", h.callback)
	router.Get("/session", h.session)
	router.Post("/logout", h.logout)
	router.Delete("/session", h.clearSession)
	return router
}

// login initiates the Authorization Code + PKCE flow and redirects the
// browser to the provider.
//
//	GET /api/v1/auth/login
func (h *Handler) login(writer http.ResponseWriter, request *http.Request) {
	challenge, err := h.service.BeginLogin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.setCookie(writer, constants.FlowCookieName, challenge.FlowID, int(FlowTTL.Seconds()))
	respond.Redirect(writer, request, challenge.AuthorizationURL)
}

// callback completes the flow: validates state, exchanges the code, and
// establishes the session cookie.
//
//	GET /api/v1/auth/callback?code=...&state=...
func (h *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	flowID := h.cookieValue(request, constants.FlowCookieName)
	if flowID == "" {
		respond.Error(writer, request, apperr.New(CodeInvalidCallback,
			"Invalid callback parameters", statusInvalidCallback))
		return
	}

	query := request.URL.Query()
	session, err := h.service.HandleCallback(request.Context(),
		flowID, query.Get("code"), query.Get("state"))
	if err != nil {
		// The flow cookie stays; the stored flow state outlives a failed
		// attempt so the exchange can be retried until the TTL runs out.
		respond.Error(writer, request, err)
		return
	}

	h.clearCookie(writer, constants.FlowCookieName)
	h.setCookie(writer, constants.SessionCookieName, session.ID,
		int(time.Until(session.ExpiresAt).Seconds()))
	respond.Redirect(writer, request, h.postLoginRedirect)
}

// session returns the auth state snapshot for the calling browser.
//
//	GET /api/v1/auth/session
func (h *Handler) session(writer http.ResponseWriter, request *http.Request) {
	state := h.service.Snapshot(request.Context(),
		h.cookieValue(request, constants.SessionCookieName))
	respond.OK(writer, state)
}

// logout erases the session and redirects the browser to the provider's
// end-session endpoint.
//
//	POST /api/v1/auth/logout
func (h *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	endSessionURL, err := h.service.Logout(request.Context(),
		h.cookieValue(request, constants.SessionCookieName))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.clearCookie(writer, constants.SessionCookieName)
	respond.Redirect(writer, request, endSessionURL)
}

// clearSession drops local session state without visiting the provider.
// The storefront calls this when an API request comes back 401.
//
//	DELETE /api/v1/auth/session
func (h *Handler) clearSession(writer http.ResponseWriter, request *http.Request) {
	err := h.service.ClearSession(request.Context(),
		h.cookieValue(request, constants.SessionCookieName))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.clearCookie(writer, constants.SessionCookieName)
	respond.NoContent(writer)
}

// # Cookie Helpers

func (h *Handler) setCookie(writer http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) cookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import "time"

// PKCE material sizes. The verifier uses the maximum length RFC 7636
// permits; the CSRF state only needs to be unguessable.
const (
	CodeVerifierLength = 128
	CSRFStateLength    = 32
)

const (
	// FlowTTL bounds how long an initiated login may wait for its callback.
	// Failed callbacks keep the flow entry alive until this expires, so the
	// user can retry without restarting the flow.
	FlowTTL = 10 * time.Minute

	// DefaultSessionTTL applies when the provider omits expires_in.
	DefaultSessionTTL = 1 * time.Hour
)

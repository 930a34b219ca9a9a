// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import (
	"context"
	"time"
)

// FlowStore persists transient login flow state across the provider
// redirect. Entries expire on their own; DeleteFlow exists for the
// success path, which consumes the flow exactly once.
type FlowStore interface {
	SaveFlow(ctx context.Context, flowID string, flow FlowState, ttl time.Duration) error

	// GetFlow returns apperr.NotFound when the flow is absent or expired.
	GetFlow(ctx context.Context, flowID string) (*FlowState, error)

	DeleteFlow(ctx context.Context, flowID string) error
}

// SessionStore persists established sessions. Deleting an absent session
// is not an error; logout is idempotent.
type SessionStore interface {
	SaveSession(ctx context.Context, session *Session, ttl time.Duration) error

	// GetSession returns apperr.NotFound when the session is absent or expired.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	DeleteSession(ctx context.Context, sessionID string) error
}

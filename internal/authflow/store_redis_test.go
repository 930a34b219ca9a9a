// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/storefront/internal/authflow"
	"github.com/vendora/storefront/internal/platform/apperr"
)

// newTestStore spins up an in-process Redis and returns a store bound to it.
func newTestStore(t *testing.T) (*authflow.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return authflow.NewRedisStore(client), server
}

/*
TestRedisStore_FlowLifecycle covers save, load, and single-use deletion
of PKCE flow state.
*/
func TestRedisStore_FlowLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	flow := authflow.FlowState{
		CodeVerifier: authflow.NewCodeVerifier(),
		CSRFState:    authflow.NewState(),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.SaveFlow(ctx, "flow-1", flow, authflow.FlowTTL))

	loaded, err := store.GetFlow(ctx, "flow-1")
	require.NoError(t, err)
	assert.Equal(t, flow.CodeVerifier, loaded.CodeVerifier)
	assert.Equal(t, flow.CSRFState, loaded.CSRFState)

	require.NoError(t, store.DeleteFlow(ctx, "flow-1"))

	_, err = store.GetFlow(ctx, "flow-1")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)

	// Idempotent delete.
	assert.NoError(t, store.DeleteFlow(ctx, "flow-1"))
}

/*
TestRedisStore_FlowExpiry confirms abandoned flows vanish after the TTL.
*/
func TestRedisStore_FlowExpiry(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	flow := authflow.FlowState{CodeVerifier: "v", CSRFState: "s", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveFlow(ctx, "flow-ttl", flow, time.Minute))

	server.FastForward(2 * time.Minute)

	_, err := store.GetFlow(ctx, "flow-ttl")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestRedisStore_SessionLifecycle covers session save, load, expiry, and
idempotent deletion.
*/
func TestRedisStore_SessionLifecycle(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	session := &authflow.Session{
		ID:          "session-1",
		AccessToken: "token-abc",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().UTC().Add(time.Hour).Truncate(time.Second),
		User:        authflow.Identity{Subject: "user-42", Name: "Vault Dweller"},
	}

	require.NoError(t, store.SaveSession(ctx, session, time.Hour))

	loaded, err := store.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, loaded.AccessToken)
	assert.Equal(t, session.User, loaded.User)

	server.FastForward(2 * time.Hour)

	_, err = store.GetSession(ctx, "session-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)

	assert.NoError(t, store.DeleteSession(ctx, "session-1"))
}

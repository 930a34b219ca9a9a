// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package authflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendora/storefront/internal/platform/apperr"
	"github.com/vendora/storefront/internal/platform/constants"
)

// RedisStore implements [FlowStore] and [SessionStore] on top of Redis.
// Entries are JSON documents under prefixed keys with a hard TTL, so
// abandoned flows and expired sessions vanish without a reaper.
type RedisStore struct {
	client *redis.Client
}

// Interface compliance checks.
var (
	_ FlowStore    = (*RedisStore)(nil)
	_ SessionStore = (*RedisStore)(nil)
)

// NewRedisStore creates a Redis-backed flow and session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func flowKey(flowID string) string {
	return constants.RedisPrefixAuthFlow + flowID
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

// SaveFlow stores PKCE material for one login attempt under its TTL.
func (s *RedisStore) SaveFlow(ctx context.Context, flowID string, flow FlowState, ttl time.Duration) error {
	payload, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal flow state: %w", err)
	}

	if err := s.client.Set(ctx, flowKey(flowID), payload, ttl).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("persist login flow state: %w", err))
	}
	return nil
}

// GetFlow loads the PKCE material for a pending login attempt.
func (s *RedisStore) GetFlow(ctx context.Context, flowID string) (*FlowState, error) {
	payload, err := s.client.Get(ctx, flowKey(flowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("Login flow")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("load login flow state: %w", err))
	}

	flow := &FlowState{}
	if err := json.Unmarshal(payload, flow); err != nil {
		return nil, apperr.Internal(fmt.Errorf("unmarshal login flow state: %w", err))
	}
	return flow, nil
}

// DeleteFlow removes a consumed login flow. Deleting an absent flow is a no-op.
func (s *RedisStore) DeleteFlow(ctx context.Context, flowID string) error {
	if err := s.client.Del(ctx, flowKey(flowID)).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("delete login flow state: %w", err))
	}
	return nil
}

// SaveSession stores an established session under its token lifetime.
func (s *RedisStore) SaveSession(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("persist session: %w", err))
	}
	return nil
}

// GetSession loads an established session.
func (s *RedisStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("Session")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("load session: %w", err))
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, apperr.Internal(fmt.Errorf("unmarshal session: %w", err))
	}
	return session, nil
}

// DeleteSession removes a session. Deleting an absent session is a no-op.
func (s *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("delete session: %w", err))
	}
	return nil
}

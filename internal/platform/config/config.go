// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, OIDC client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Vendora API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) for auth flow and session state
	RedisURL string `env:"REDIS_URL,required"`

	// Identity provider (OAuth2/OIDC Authorization Code + PKCE)
	OIDCAuthority             string `env:"OIDC_AUTHORITY,required"`
	OIDCClientID              string `env:"OIDC_CLIENT_ID,required"`
	OIDCRedirectURI           string `env:"OIDC_REDIRECT_URI,required"`
	OIDCScopes                string `env:"OIDC_SCOPES" envDefault:"openid profile order.view order.edit product.view product.stock"`
	OIDCPostLoginRedirectURI  string `env:"OIDC_POST_LOGIN_REDIRECT_URI"  envDefault:"/"`
	OIDCPostLogoutRedirectURI string `env:"OIDC_POST_LOGOUT_REDIRECT_URI" envDefault:"/"`

	// Public key used to verify access tokens issued by the provider
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Product service base URL (the order coordinator's remote collaborator).
	// Points at this same deployment by default, but stays an HTTP boundary.
	ProductServiceURL string `env:"PRODUCT_SERVICE_URL" envDefault:"http://localhost:8080/api/v1"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

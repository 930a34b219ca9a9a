// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package order implements order placement and retrieval.

Placement is a cross-service coordination: the catalogue owns stock, so
the coordinator fetches products over HTTP, validates the draft against
live stock, reserves stock product by product, and only then commits the
order locally. The caller's bearer token is forwarded on every catalogue
call.

# Consistency Model

Reservations are sequential HTTP writes with no surrounding transaction.
When a reservation fails midway, earlier reservations are NOT rolled
back: stock may be decremented for an order that was never committed.
Operators reconcile from the reservation failure details; callers see
every failed product, not just the first.
*/
package order

import (
	"context"
	"net/http"
	"time"
)

// # Domain Entities

// Order is a committed order with its line items.
type Order struct {
	ID        string    `json:"id"`
	PlacedBy  string    `json:"placedBy"`
	CreatedAt time.Time `json:"createdAt"`

	Details []Detail `json:"details,omitempty"`
}

// Detail is one line item of a committed order. SoldAtUnitPrice freezes
// the catalogue cost at placement time; later price changes never touch
// committed orders.
type Detail struct {
	ID              string  `json:"id"`
	OrderID         string  `json:"-"`
	ProductID       string  `json:"productId"`
	Quantity        int64   `json:"quantity"`
	SoldAtUnitPrice float64 `json:"soldAtUnitPrice"`
}

// DraftItem is one requested line of an incoming order.
type DraftItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// # Catalogue Boundary

// CatalogItem is the coordinator's view of one catalogue product.
type CatalogItem struct {
	ID            string
	Cost          float64
	StockQuantity int64
}

// Catalog is the remote product catalogue. Implementations forward the
// given bearer token so the catalogue enforces its own scopes.
type Catalog interface {
	// ListProducts fetches the full catalogue.
	ListProducts(ctx context.Context, bearer string) ([]CatalogItem, error)

	// SetStock writes an absolute stock level and returns the catalogue's
	// HTTP status. The error is reserved for transport failures. Any 2xx
	// counts as a successful reservation; the product service only ever
	// answers a changed write with 204.
	SetStock(ctx context.Context, bearer, productID string, quantity int64) (int, error)
}

// # Failure Taxonomy
//
// Placement failures are the caller's problem to fix (retry, trim the
// draft) and all map to 400 with a machine-readable code plus per-product
// details.

const (
	// CodeCatalogUnavailable: the product catalogue could not be fetched.
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"

	// CodeProductsNotFound: one or more draft lines name unknown products.
	CodeProductsNotFound = "PRODUCTS_NOT_FOUND"

	// CodeInsufficientStock: live stock cannot cover one or more lines.
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// CodeReservationFailed: one or more stock reservations were rejected.
	// Earlier reservations in the same placement are not rolled back.
	CodeReservationFailed = "RESERVATION_FAILED"
)

const statusPlacementFailed = http.StatusBadRequest

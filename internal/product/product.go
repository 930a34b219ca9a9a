// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package product implements the catalogue side of the storefront: product
lookup, management, and the stock endpoint the order coordinator reserves
against.

# Wire Contract

Product JSON uses camelCase field names (id, name, cost, stockQuantity).
This shape is consumed by the order placement coordinator and must not
drift; the list endpoint returns a bare JSON array rather than the usual
envelope for the same reason.
*/
package product

import "time"

// Product is a catalogue entry.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description"`
	Cost          float64   `json:"cost"`
	StockQuantity int64     `json:"stockQuantity"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package order

import "context"

// Repository abstracts order persistence.
type Repository interface {
	// Create persists the order and its details atomically.
	Create(context context.Context, order *Order) error

	// ListByUser returns a page of the user's orders, newest first,
	// details included, plus the total count.
	ListByUser(context context.Context, userID string, limit, offset int) ([]*Order, int, error)

	// FindByID returns one order with its details.
	FindByID(context context.Context, id string) (*Order, error)

	Delete(context context.Context, id string) error
}

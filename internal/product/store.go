// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package product

import "context"

// Repository abstracts catalogue persistence.
type Repository interface {
	// List returns the full catalogue ordered by creation time.
	List(context context.Context) ([]*Product, error)
	FindByID(context context.Context, id string) (*Product, error)
	FindBySlug(context context.Context, slug string) (*Product, error)
	Create(context context.Context, product *Product) error
	Delete(context context.Context, id string) error
	// UpdateStock sets the absolute stock quantity for a product.
	UpdateStock(context context.Context, id string, quantity int64) error
}

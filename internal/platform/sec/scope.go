// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package sec

// # Authorization Scopes
//
// Route groups are guarded by OAuth2 scopes rather than role hierarchies.
// The identity provider grants these to the SPA client during the
// authorization code flow.

const (
	// Read access to the order history.
	ScopeOrderView = "order.view"

	// Place and delete orders.
	ScopeOrderEdit = "order.edit"

	// Read access to the product catalog.
	ScopeProductView = "product.view"

	// Create and delete catalog entries.
	ScopeProductEdit = "product.edit"

	// Adjust stock levels (used by the order placement coordinator).
	ScopeProductStock = "product.stock"
)

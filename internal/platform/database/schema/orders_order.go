// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package schema

// OrderTable represents the 'orders.order' table
type OrderTable struct {
	Table     string
	ID        string
	PlacedBy  string
	CreatedAt string
}

// Order is the schema definition for orders.order
var Order = OrderTable{
	Table:     `orders."order"`,
	ID:        "id",
	PlacedBy:  "placedby",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t OrderTable) Columns() []string {
	return []string{t.ID, t.PlacedBy, t.CreatedAt}
}

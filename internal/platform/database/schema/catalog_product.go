// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

// Package schema holds typed table definitions shared by all repositories.
//
// Column names live here once, so query builders in store_postgres files
// never embed raw string literals.
package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table         string
	ID            string
	Name          string
	Slug          string
	Description   string
	Cost          string
	StockQuantity string
	CreatedAt     string
	UpdatedAt     string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:         "catalog.product",
	ID:            "id",
	Name:          "name",
	Slug:          "slug",
	Description:   "description",
	Cost:          "cost",
	StockQuantity: "stockquantity",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t CatalogProductTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Description, t.Cost, t.StockQuantity, t.CreatedAt, t.UpdatedAt,
	}
}

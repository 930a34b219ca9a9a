// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package schema

// OrderDetailTable represents the 'orders.orderdetail' table
type OrderDetailTable struct {
	Table           string
	ID              string
	OrderID         string
	ProductID       string
	Quantity        string
	SoldAtUnitPrice string
}

// OrderDetail is the schema definition for orders.orderdetail
var OrderDetail = OrderDetailTable{
	Table:           "orders.orderdetail",
	ID:              "id",
	OrderID:         "orderid",
	ProductID:       "productid",
	Quantity:        "quantity",
	SoldAtUnitPrice: "soldatunitprice",
}

// Columns returns all standard column names
func (t OrderDetailTable) Columns() []string {
	return []string{t.ID, t.OrderID, t.ProductID, t.Quantity, t.SoldAtUnitPrice}
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/storefront/internal/platform/apperr"
	"github.com/vendora/storefront/internal/platform/database/schema"
	"github.com/vendora/storefront/internal/platform/dberr"
)

// PostgresRepository persists orders in the orders schema.
type PostgresRepository struct {
	db *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs an order repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Create persists an order and its details in one transaction.

Description: The order header and every detail row commit or roll back
together, so a half-written order can never be read back. Stock has
already been reserved remotely by the time this runs.

Parameters:
  - context: context.Context
  - order: *Order (Header plus details, IDs already assigned)

Returns:
  - error: Transactional or database failures
*/
func (repository *PostgresRepository) Create(context context.Context, order *Order) error {
	order.CreatedAt = time.Now().UTC()

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_order_tx")
	}
	defer transaction.Rollback(context)

	orderQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.Order.Table, schema.Order.ID, schema.Order.PlacedBy, schema.Order.CreatedAt)

	_, err = transaction.Exec(context, orderQuery, order.ID, order.PlacedBy, order.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "insert_order")
	}

	detailQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.OrderDetail.Table,
		schema.OrderDetail.ID, schema.OrderDetail.OrderID, schema.OrderDetail.ProductID,
		schema.OrderDetail.Quantity, schema.OrderDetail.SoldAtUnitPrice)

	for _, detail := range order.Details {
		_, err = transaction.Exec(context, detailQuery,
			detail.ID, detail.OrderID, detail.ProductID, detail.Quantity, detail.SoldAtUnitPrice)
		if err != nil {
			return dberr.Wrap(err, "insert_order_detail")
		}
	}

	return transaction.Commit(context)
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.Order.Table, schema.Order.PlacedBy)

	total := 0
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_orders")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s, %s, %s FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.Order.ID, schema.Order.PlacedBy, schema.Order.CreatedAt,
		schema.Order.Table, schema.Order.PlacedBy, schema.Order.CreatedAt)

	rows, err := repository.db.Query(context, listQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_orders")
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	orderMap := make(map[string]*Order)
	ids := make([]string, 0)

	for rows.Next() {
		o := &Order{Details: make([]Detail, 0)}
		if err := rows.Scan(&o.ID, &o.PlacedBy, &o.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_order")
		}
		orders = append(orders, o)
		orderMap[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows.Close()

	if len(ids) == 0 {
		return orders, total, nil
	}

	detailQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s ASC
	`,
		schema.OrderDetail.ID, schema.OrderDetail.OrderID, schema.OrderDetail.ProductID,
		schema.OrderDetail.Quantity, schema.OrderDetail.SoldAtUnitPrice,
		schema.OrderDetail.Table, schema.OrderDetail.OrderID, schema.OrderDetail.ID)

	detailRows, err := repository.db.Query(context, detailQuery, ids)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_order_details")
	}
	defer detailRows.Close()

	for detailRows.Next() {
		d := Detail{}
		if err := detailRows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.SoldAtUnitPrice); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_order_detail")
		}
		if owner, ok := orderMap[d.OrderID]; ok {
			owner.Details = append(owner.Details, d)
		}
	}

	return orders, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Order, error) {
	orderQuery := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Order.ID, schema.Order.PlacedBy, schema.Order.CreatedAt,
		schema.Order.Table, schema.Order.ID)

	o := &Order{Details: make([]Detail, 0)}
	err := repository.db.QueryRow(context, orderQuery, id).Scan(&o.ID, &o.PlacedBy, &o.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_order_by_id")
	}

	detailQuery := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.OrderDetail.ID, schema.OrderDetail.OrderID, schema.OrderDetail.ProductID,
		schema.OrderDetail.Quantity, schema.OrderDetail.SoldAtUnitPrice,
		schema.OrderDetail.Table, schema.OrderDetail.OrderID, schema.OrderDetail.ID)

	rows, err := repository.db.Query(context, detailQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_order_details")
	}
	defer rows.Close()

	for rows.Next() {
		d := Detail{}
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.SoldAtUnitPrice); err != nil {
			return nil, dberr.Wrap(err, "scan_order_detail")
		}
		o.Details = append(o.Details, d)
	}

	return o, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	// Details go first; the schema has no ON DELETE CASCADE.
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_order_tx")
	}
	defer transaction.Rollback(context)

	detailQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.OrderDetail.Table, schema.OrderDetail.OrderID)
	if _, err := transaction.Exec(context, detailQuery, id); err != nil {
		return dberr.Wrap(err, "delete_order_details")
	}

	orderQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Order.Table, schema.Order.ID)
	tag, err := transaction.Exec(context, orderQuery, id)
	if err != nil {
		return dberr.Wrap(err, "delete_order")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Order")
	}

	return transaction.Commit(context)
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package product

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/storefront/internal/platform/apperr"
	"github.com/vendora/storefront/internal/platform/database/schema"
	"github.com/vendora/storefront/internal/platform/dberr"
)

// PostgresRepository persists the catalogue in the catalog schema.
type PostgresRepository struct {
	db *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a catalogue repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Product, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.CatalogProduct.ID, schema.CatalogProduct.Name, schema.CatalogProduct.Slug,
		schema.CatalogProduct.Description, schema.CatalogProduct.Cost, schema.CatalogProduct.StockQuantity,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.Table, schema.CatalogProduct.CreatedAt)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_products")
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description,
			&p.Cost, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_product")
		}
		products = append(products, p)
	}

	return products, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Product, error) {
	return repository.findByColumn(context, schema.CatalogProduct.ID, id, "get_product_by_id")
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Product, error) {
	return repository.findByColumn(context, schema.CatalogProduct.Slug, slug, "get_product_by_slug")
}

func (repository *PostgresRepository) findByColumn(context context.Context, column, value, op string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CatalogProduct.ID, schema.CatalogProduct.Name, schema.CatalogProduct.Slug,
		schema.CatalogProduct.Description, schema.CatalogProduct.Cost, schema.CatalogProduct.StockQuantity,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.Table, column)

	p := &Product{}
	err := repository.db.QueryRow(context, query, value).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description,
		&p.Cost, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, op)
	}

	return p, nil
}

func (repository *PostgresRepository) Create(context context.Context, product *Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.ID, schema.CatalogProduct.Name, schema.CatalogProduct.Slug,
		schema.CatalogProduct.Description, schema.CatalogProduct.Cost, schema.CatalogProduct.StockQuantity,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt)

	_, err := repository.db.Exec(context, query,
		product.ID, product.Name, product.Slug, product.Description,
		product.Cost, product.StockQuantity, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_product")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogProduct.Table, schema.CatalogProduct.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

func (repository *PostgresRepository) UpdateStock(context context.Context, id string, quantity int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.StockQuantity, schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID)

	tag, err := repository.db.Exec(context, query, id, quantity, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "update_product_stock")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package product

import (
	"context"
	"log/slog"

	"github.com/vendora/storefront/internal/platform/validate"
	"github.com/vendora/storefront/pkg/slug"
	"github.com/vendora/storefront/pkg/uuidv7"
)

const (
	FieldName          = "name"
	FieldCost          = "cost"
	FieldStockQuantity = "stockQuantity"
)

// # Service Layer

// Service orchestrates the business logic for the catalogue.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Catalogue Retrieval

// ListProducts returns the full catalogue.
func (service *Service) ListProducts(context context.Context) ([]*Product, error) {
	return service.repo.List(context)
}

// GetProduct retrieves a single product by its ID.
func (service *Service) GetProduct(context context.Context, id string) (*Product, error) {
	return service.repo.FindByID(context, id)
}

// GetProductBySlug retrieves a single product by its URL slug.
func (service *Service) GetProductBySlug(context context.Context, s string) (*Product, error) {
	return service.repo.FindBySlug(context, s)
}

// # Catalogue Management

/*
CreateProduct validates and persists a new catalogue entry.

Description: Generates the identity and URL slug, applies sanity checks
on price and stock, and persists the entry.

Parameters:
  - context: context.Context
  - product: *Product (The new catalogue data)

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) CreateProduct(context context.Context, product *Product) error {
	if product.ID == "" {
		product.ID = uuidv7.New()
	}
	if product.Slug == "" {
		product.Slug = slug.From(product.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, product.Name)
	validator.Custom(FieldCost, product.Cost < 0, "Cost cannot be negative")
	validator.NonNegative(FieldStockQuantity, product.StockQuantity)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, product); err != nil {
		return err
	}

	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
		slog.Int64("stock_quantity", product.StockQuantity),
	)

	return nil
}

// DeleteProduct removes a catalogue entry.
func (service *Service) DeleteProduct(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("product_deleted", slog.String("product_id", id))
	return nil
}

// # Stock Control

/*
UpdateStock sets the absolute stock quantity for one product.

Description: This is the endpoint the order coordinator reserves stock
against. The write is skipped entirely when the quantity already matches,
so the caller can distinguish a no-op from a real mutation.

Parameters:
  - context: context.Context
  - id: string (Product UUID)
  - quantity: int64 (New absolute stock level, must not be negative)

Returns:
  - bool: Whether the stored quantity actually changed
  - error: Validation, ErrNotFound, or persistence errors
*/
func (service *Service) UpdateStock(context context.Context, id string, quantity int64) (bool, error) {
	validator := &validate.Validator{}
	validator.NonNegative(FieldStockQuantity, quantity)
	if err := validator.Err(); err != nil {
		return false, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return false, err
	}

	if current.StockQuantity == quantity {
		return false, nil
	}

	if err := service.repo.UpdateStock(context, id, quantity); err != nil {
		return false, err
	}

	service.logger.Info("product_stock_updated",
		slog.String("product_id", id),
		slog.Int64("previous", current.StockQuantity),
		slog.Int64("quantity", quantity),
	)

	return true, nil
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendora/storefront/internal/platform/apperr"
	"github.com/vendora/storefront/internal/platform/validate"
	"github.com/vendora/storefront/pkg/uuidv7"
)

const (
	FieldItems    = "items"
	FieldQuantity = "quantity"
)

// # Service Layer

// Service coordinates order placement against the remote catalogue and
// serves order retrieval.
type Service struct {
	repo    Repository
	catalog Catalog
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// # Order Placement

/*
PlaceOrder runs the full placement coordination for one draft.

Description: The draft moves through fixed stages: fetch the live
catalogue, validate every line against it, reserve stock line by line,
then commit the order locally with the catalogue cost frozen into each
detail. Validation is complete before the first reservation, so a draft
that cannot possibly succeed never mutates stock.

Parameters:
  - context: context.Context
  - bearer: string (Caller's access token, forwarded to the catalogue)
  - userID: string (Subject claim of the caller)
  - items: []DraftItem (Requested lines)

Returns:
  - *Order: The committed order with details
  - error: Validation errors or the placement failure taxonomy
*/
func (service *Service) PlaceOrder(context context.Context, bearer, userID string, items []DraftItem) (*Order, error) {
	if err := validateDraft(items); err != nil {
		return nil, err
	}

	// Fetch the live catalogue.
	products, err := service.catalog.ListProducts(context, bearer)
	if err != nil {
		service.logger.Error("order_catalog_fetch_failed", slog.String("error", err.Error()))
		return nil, apperr.New(CodeCatalogUnavailable,
			"Could not retrieve products", statusPlacementFailed).WithCause(err)
	}

	byID := make(map[string]CatalogItem, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Validate every line before touching any stock.
	var missing []apperr.FieldError
	var short []apperr.FieldError
	for _, item := range items {
		catalogItem, ok := byID[item.ProductID]
		if !ok {
			missing = append(missing, apperr.FieldError{
				Field:   item.ProductID,
				Message: "Product does not exist",
			})
			continue
		}
		if catalogItem.StockQuantity < item.Quantity {
			short = append(short, apperr.FieldError{
				Field: item.ProductID,
				Message: fmt.Sprintf("Requested %d, only %d in stock",
					item.Quantity, catalogItem.StockQuantity),
			})
		}
	}
	if len(missing) > 0 {
		return nil, &apperr.AppError{
			Code:       CodeProductsNotFound,
			Message:    "One or more products do not exist",
			HTTPStatus: statusPlacementFailed,
			Details:    missing,
		}
	}
	if len(short) > 0 {
		return nil, &apperr.AppError{
			Code:       CodeInsufficientStock,
			Message:    "One or more products have insufficient stock",
			HTTPStatus: statusPlacementFailed,
			Details:    short,
		}
	}

	// Reserve stock line by line. A failure does not stop the loop: the
	// caller gets every rejected product, and earlier reservations stay
	// reserved. There is no rollback across the service boundary.
	var rejected []apperr.FieldError
	for _, item := range items {
		catalogItem := byID[item.ProductID]
		newQuantity := catalogItem.StockQuantity - item.Quantity

		status, err := service.catalog.SetStock(context, bearer, item.ProductID, newQuantity)
		if err != nil {
			service.logger.Error("order_reservation_transport_failed",
				slog.String("product_id", item.ProductID),
				slog.String("error", err.Error()),
			)
			rejected = append(rejected, apperr.FieldError{
				Field:   item.ProductID,
				Message: "Reservation request failed",
			})
			continue
		}
		if status < 200 || status >= 300 {
			rejected = append(rejected, apperr.FieldError{
				Field:   item.ProductID,
				Message: fmt.Sprintf("Reservation rejected with status %d", status),
			})
		}
	}
	if len(rejected) > 0 {
		service.logger.Error("order_reservation_failed",
			slog.String("placed_by", userID),
			slog.Int("rejected", len(rejected)),
		)
		return nil, &apperr.AppError{
			Code:       CodeReservationFailed,
			Message:    "Could not reserve stock for one or more products",
			HTTPStatus: statusPlacementFailed,
			Details:    rejected,
		}
	}

	// Commit locally with the catalogue cost frozen per line.
	order := &Order{
		ID:       uuidv7.New(),
		PlacedBy: userID,
	}
	for _, item := range items {
		order.Details = append(order.Details, Detail{
			ID:              uuidv7.New(),
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			SoldAtUnitPrice: byID[item.ProductID].Cost,
		})
	}

	if err := service.repo.Create(context, order); err != nil {
		return nil, err
	}

	service.logger.Info("order_placed",
		slog.String("order_id", order.ID),
		slog.String("placed_by", userID),
		slog.Int("lines", len(order.Details)),
	)

	return order, nil
}

// validateDraft applies the local sanity checks that need no catalogue.
// Each product may appear on at most one line: absolute set-stock
// reservations would clobber each other across duplicate lines.
func validateDraft(items []DraftItem) error {
	validator := &validate.Validator{}
	validator.Custom(FieldItems, len(items) == 0, "Order must contain at least one item")

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		validator.Required("productId", item.ProductID)
		validator.Custom(FieldQuantity, item.Quantity <= 0, "Quantity must be positive")
		validator.Custom("productId", seen[item.ProductID], "Product appears on more than one line")
		seen[item.ProductID] = true
	}

	return validator.Err()
}

// # Order Retrieval

// ListOrders returns a page of the caller's orders plus the total count.
func (service *Service) ListOrders(context context.Context, userID string, limit, offset int) ([]*Order, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}

// GetOrder retrieves one of the caller's orders. Orders placed by other
// users are indistinguishable from absent ones.
func (service *Service) GetOrder(context context.Context, userID, id string) (*Order, error) {
	order, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if order.PlacedBy != userID {
		return nil, apperr.NotFound("Order")
	}
	return order, nil
}

// DeleteOrder removes one of the caller's orders. Stock reserved at
// placement time is not returned to the catalogue.
func (service *Service) DeleteOrder(context context.Context, userID, id string) error {
	if _, err := service.GetOrder(context, userID, id); err != nil {
		return err
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("order_deleted",
		slog.String("order_id", id),
		slog.String("placed_by", userID),
	)
	return nil
}

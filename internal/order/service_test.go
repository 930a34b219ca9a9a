// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package order_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/storefront/internal/order"
	"github.com/vendora/storefront/internal/platform/apperr"
)

// stockCall records one reservation attempt against the fake catalogue.
type stockCall struct {
	bearer    string
	productID string
	quantity  int64
}

// fakeCatalog scripts the remote catalogue for coordinator tests.
type fakeCatalog struct {
	items    []order.CatalogItem
	listErr  error
	statuses map[string]int   // per-product reservation status, default 204
	errs     map[string]error // per-product transport failure

	listBearers []string
	calls       []stockCall
}

func (c *fakeCatalog) ListProducts(ctx context.Context, bearer string) ([]order.CatalogItem, error) {
	c.listBearers = append(c.listBearers, bearer)
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.items, nil
}

func (c *fakeCatalog) SetStock(ctx context.Context, bearer, productID string, quantity int64) (int, error) {
	c.calls = append(c.calls, stockCall{bearer: bearer, productID: productID, quantity: quantity})
	if err := c.errs[productID]; err != nil {
		return 0, err
	}
	if status, ok := c.statuses[productID]; ok {
		return status, nil
	}
	return http.StatusNoContent, nil
}

// fakeOrderRepository records committed orders in memory.
type fakeOrderRepository struct {
	created []*order.Order
	byID    map[string]*order.Order
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{byID: map[string]*order.Order{}}
}

func (r *fakeOrderRepository) Create(ctx context.Context, o *order.Order) error {
	r.created = append(r.created, o)
	r.byID[o.ID] = o
	return nil
}

func (r *fakeOrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*order.Order, int, error) {
	out := make([]*order.Order, 0)
	for _, o := range r.created {
		if o.PlacedBy == userID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *fakeOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	return o, nil
}

func (r *fakeOrderRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("Order")
	}
	delete(r.byID, id)
	return nil
}

func newTestService(repo order.Repository, catalog order.Catalog) *order.Service {
	return order.NewService(repo, catalog, slog.New(slog.DiscardHandler))
}

// threeItemCatalog mirrors the seeded catalogue.
func threeItemCatalog() []order.CatalogItem {
	return []order.CatalogItem{
		{ID: "pie", Cost: 25, StockQuantity: 1},
		{ID: "oil-can", Cost: 10, StockQuantity: 100},
		{ID: "nuka-cola", Cost: 5, StockQuantity: 10},
	}
}

/*
TestService_PlaceOrder_Success walks the full coordination: catalogue
fetch with the caller's token, absolute stock writes, and a commit with
the catalogue cost frozen per line.
*/
func TestService_PlaceOrder_Success(t *testing.T) {
	catalog := &fakeCatalog{items: threeItemCatalog()}
	repo := newFakeOrderRepository()
	service := newTestService(repo, catalog)

	placed, err := service.PlaceOrder(context.Background(), "token-abc", "user-42", []order.DraftItem{
		{ProductID: "oil-can", Quantity: 3},
		{ProductID: "nuka-cola", Quantity: 2},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, placed.ID)
	assert.Equal(t, "user-42", placed.PlacedBy)

	// The caller's token travels on every catalogue call.
	assert.Equal(t, []string{"token-abc"}, catalog.listBearers)
	require.Len(t, catalog.calls, 2)
	assert.Equal(t, stockCall{bearer: "token-abc", productID: "oil-can", quantity: 97}, catalog.calls[0])
	assert.Equal(t, stockCall{bearer: "token-abc", productID: "nuka-cola", quantity: 8}, catalog.calls[1])

	// Prices are frozen from the catalogue at placement time.
	require.Len(t, placed.Details, 2)
	assert.Equal(t, "oil-can", placed.Details[0].ProductID)
	assert.Equal(t, float64(10), placed.Details[0].SoldAtUnitPrice)
	assert.Equal(t, int64(3), placed.Details[0].Quantity)
	assert.Equal(t, float64(5), placed.Details[1].SoldAtUnitPrice)

	require.Len(t, repo.created, 1)
	assert.Equal(t, placed, repo.created[0])
}

/*
TestService_PlaceOrder_DraftValidation rejects structurally bad drafts
before the catalogue is ever contacted.
*/
func TestService_PlaceOrder_DraftValidation(t *testing.T) {
	tests := []struct {
		name  string
		items []order.DraftItem
	}{
		{"empty_draft", nil},
		{"zero_quantity", []order.DraftItem{{ProductID: "pie", Quantity: 0}}},
		{"negative_quantity", []order.DraftItem{{ProductID: "pie", Quantity: -2}}},
		{"missing_product_id", []order.DraftItem{{Quantity: 1}}},
		{"duplicate_product_line", []order.DraftItem{
			{ProductID: "pie", Quantity: 1},
			{ProductID: "pie", Quantity: 2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{items: threeItemCatalog()}
			service := newTestService(newFakeOrderRepository(), catalog)

			_, err := service.PlaceOrder(context.Background(), "token", "user-42", tt.items)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Empty(t, catalog.listBearers)
		})
	}
}

/*
TestService_PlaceOrder_DuplicateLines rejects a draft that names the
same product twice. Reservations write absolute stock levels, so two
lines for one product would overwrite each other: the order would sell
the summed quantity while stock drops by only one line's worth.
*/
func TestService_PlaceOrder_DuplicateLines(t *testing.T) {
	catalog := &fakeCatalog{items: threeItemCatalog()}
	repo := newFakeOrderRepository()
	service := newTestService(repo, catalog)

	// oil-can has stock 100; each line alone is satisfiable.
	_, err := service.PlaceOrder(context.Background(), "token", "user-42", []order.DraftItem{
		{ProductID: "oil-can", Quantity: 6},
		{ProductID: "oil-can", Quantity: 6},
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, catalog.calls, "no stock write may be issued")
	assert.Empty(t, repo.created, "no order may be committed")
}

/*
TestService_PlaceOrder_CatalogUnavailable maps a catalogue outage to
CATALOG_UNAVAILABLE without attempting any reservation.
*/
func TestService_PlaceOrder_CatalogUnavailable(t *testing.T) {
	catalog := &fakeCatalog{listErr: errors.New("connection refused")}
	repo := newFakeOrderRepository()
	service := newTestService(repo, catalog)

	_, err := service.PlaceOrder(context.Background(), "token", "user-42",
		[]order.DraftItem{{ProductID: "pie", Quantity: 1}})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, order.CodeCatalogUnavailable, ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.Empty(t, catalog.calls)
	assert.Empty(t, repo.created)
}

/*
TestService_PlaceOrder_ProductsNotFound collects every unknown product,
not just the first, and never mutates stock.
*/
func TestService_PlaceOrder_ProductsNotFound(t *testing.T) {
	catalog := &fakeCatalog{items: threeItemCatalog()}
	service := newTestService(newFakeOrderRepository(), catalog)

	_, err := service.PlaceOrder(context.Background(), "token", "user-42", []order.DraftItem{
		{ProductID: "pie", Quantity: 1},
		{ProductID: "ghost-1", Quantity: 1},
		{ProductID: "ghost-2", Quantity: 1},
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, order.CodeProductsNotFound, ae.Code)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "ghost-1", ae.Details[0].Field)
	assert.Equal(t, "ghost-2", ae.Details[1].Field)
	assert.Empty(t, catalog.calls)
}

/*
TestService_PlaceOrder_InsufficientStock fails the whole draft before
any reservation when any line exceeds live stock, even if other lines
would have succeeded.
*/
func TestService_PlaceOrder_InsufficientStock(t *testing.T) {
	catalog := &fakeCatalog{items: threeItemCatalog()}
	repo := newFakeOrderRepository()
	service := newTestService(repo, catalog)

	_, err := service.PlaceOrder(context.Background(), "token", "user-42", []order.DraftItem{
		{ProductID: "oil-can", Quantity: 5},
		{ProductID: "pie", Quantity: 2}, // only 1 in stock
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, order.CodeInsufficientStock, ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "pie", ae.Details[0].Field)

	// Validation is complete before the first write: nothing reserved.
	assert.Empty(t, catalog.calls)
	assert.Empty(t, repo.created)
}

/*
TestService_PlaceOrder_ReservationFailed exercises the documented
consistency gap: a mid-sequence rejection keeps going, reports every
rejected product, commits nothing, and does NOT roll back the
reservations that already succeeded.
*/
func TestService_PlaceOrder_ReservationFailed(t *testing.T) {
	catalog := &fakeCatalog{
		items: threeItemCatalog(),
		statuses: map[string]int{
			"nuka-cola": http.StatusConflict,
		},
		errs: map[string]error{
			"pie": errors.New("connection reset"),
		},
	}
	repo := newFakeOrderRepository()
	service := newTestService(repo, catalog)

	_, err := service.PlaceOrder(context.Background(), "token", "user-42", []order.DraftItem{
		{ProductID: "oil-can", Quantity: 1},   // succeeds
		{ProductID: "nuka-cola", Quantity: 1}, // rejected with 409
		{ProductID: "pie", Quantity: 1},       // transport failure
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, order.CodeReservationFailed, ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)

	// Every failed product is reported, with the rejection status.
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "nuka-cola", ae.Details[0].Field)
	assert.Contains(t, ae.Details[0].Message, "409")
	assert.Equal(t, "pie", ae.Details[1].Field)

	// All three reservations were attempted; the successful first one is
	// never compensated.
	require.Len(t, catalog.calls, 3)
	assert.Equal(t, "oil-can", catalog.calls[0].productID)
	assert.Equal(t, int64(99), catalog.calls[0].quantity)

	// No order is committed.
	assert.Empty(t, repo.created)
}

/*
TestService_GetOrder_Ownership hides other users' orders behind 404.
*/
func TestService_GetOrder_Ownership(t *testing.T) {
	catalog := &fakeCatalog{items: threeItemCatalog()}
	repo := newFakeOrderRepository()
	service := newTestService(repo, catalog)

	placed, err := service.PlaceOrder(context.Background(), "token", "user-42",
		[]order.DraftItem{{ProductID: "nuka-cola", Quantity: 1}})
	require.NoError(t, err)

	found, err := service.GetOrder(context.Background(), "user-42", placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, found.ID)

	_, err = service.GetOrder(context.Background(), "someone-else", placed.ID)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)

	// Deleting through the wrong user fails the same way.
	err = service.DeleteOrder(context.Background(), "someone-else", placed.ID)
	require.Error(t, err)

	require.NoError(t, service.DeleteOrder(context.Background(), "user-42", placed.ID))
	_, err = service.GetOrder(context.Background(), "user-42", placed.ID)
	assert.Error(t, err)
}

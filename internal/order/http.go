// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/storefront/internal/platform/middleware"
	requestutil "github.com/vendora/storefront/internal/platform/request"
	"github.com/vendora/storefront/internal/platform/respond"
	"github.com/vendora/storefront/internal/platform/sec"
	"github.com/vendora/storefront/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for orders.
type Handler struct {
	service *Service
}

// NewHandler constructs a new order [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches order endpoints under /orders.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/orders", func(router chi.Router) {
		router.Group(func(view chi.Router) {
			view.Use(middleware.RequireScope(sec.ScopeOrderView))
			view.Get("/", handler.ListOrders)
			view.Get("/{id}", handler.GetOrder)
			view.Get("/{id}/details", handler.GetOrderDetails)
		})

		router.Group(func(edit chi.Router) {
			edit.Use(middleware.RequireScope(sec.ScopeOrderEdit))
			edit.Post("/", handler.PlaceOrder)
			edit.Delete("/{id}", handler.DeleteOrder)
		})
	})
}

// # Order Placement

// placeOrderRequest defines the inbound JSON schema for a draft.
type placeOrderRequest struct {
	Items []DraftItem `json:"items"`
}

/*
POST /api/v1/orders.

Description: Places an order. The draft is validated against live
catalogue stock, stock is reserved product by product, and the order is
committed with per-line frozen prices.

Request:
  - body: placeOrderRequest

Response:
  - 201: Order: Committed order, Location header set
  - 400: 400: Placement taxonomy: CATALOG_UNAVAILABLE, PRODUCTS_NOT_FOUND,
    INSUFFICIENT_STOCK, RESERVATION_FAILED (details list the products)
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Missing order.edit scope
*/
func (handler *Handler) PlaceOrder(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	bearer, err := requestutil.BearerToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input placeOrderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.PlaceOrder(request.Context(), bearer, claims.Subject, input.Items)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.CreatedAt(writer, "/api/v1/orders/"+order.ID, order)
}

// # Order Retrieval

/*
GET /api/v1/orders.

Description: Returns a paginated list of the caller's orders, newest
first, details included.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Order: Paginated list
*/
func (handler *Handler) ListOrders(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	orders, total, err := handler.service.ListOrders(request.Context(),
		claims.Subject, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders,
		pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/orders/{id}.

Response:
  - 200: Order: The order with details
  - 404: 404: ErrNotFound: Unknown order, or placed by another user
*/
func (handler *Handler) GetOrder(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.GetOrder(request.Context(),
		claims.Subject, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, order)
}

/*
GET /api/v1/orders/{id}/details.

Description: Returns only the line items of an order.

Response:
  - 200: []Detail: The order's line items
  - 404: 404: ErrNotFound: Unknown order, or placed by another user
*/
func (handler *Handler) GetOrderDetails(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.service.GetOrder(request.Context(),
		claims.Subject, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, order.Details)
}

/*
DELETE /api/v1/orders/{id}.

Description: Removes an order record. Reserved stock is not returned.

Response:
  - 204: Deleted
  - 404: 404: ErrNotFound: Unknown order, or placed by another user
*/
func (handler *Handler) DeleteOrder(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteOrder(request.Context(),
		claims.Subject, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

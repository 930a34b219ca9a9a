// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/storefront/internal/platform/middleware"
	requestutil "github.com/vendora/storefront/internal/platform/request"
	"github.com/vendora/storefront/internal/platform/respond"
	"github.com/vendora/storefront/internal/platform/sec"
	"github.com/vendora/storefront/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalogue [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches catalogue endpoints under /products.
// All routes require a verified bearer token; the scope decides which.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/products", func(router chi.Router) {
		router.Group(func(read chi.Router) {
			read.Use(middleware.RequireScope(sec.ScopeProductView))
			read.Get("/", handler.ListProducts)
			read.Get("/{id}", handler.GetProduct)
			read.Get("/by-slug/{slug}", handler.GetProductBySlug)
		})

		router.Group(func(edit chi.Router) {
			edit.Use(middleware.RequireScope(sec.ScopeProductEdit))
			edit.Post("/", handler.CreateProduct)
			edit.Delete("/{id}", handler.DeleteProduct)
		})

		router.Group(func(stock chi.Router) {
			stock.Use(middleware.RequireScope(sec.ScopeProductStock))
			stock.Put("/{id}/{stockQuantity}", handler.UpdateStock)
		})
	})
}

// # Catalogue Retrieval

/*
GET /api/v1/products.

Description: Returns the full catalogue as a bare JSON array. The order
coordinator consumes this shape directly; it is a cross-service contract
and intentionally skips the usual data envelope.

Response:
  - 200: []Product: Full catalogue
*/
func (handler *Handler) ListProducts(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.ListProducts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, http.StatusOK, products)
}

/*
GET /api/v1/products/{id}.

Response:
  - 200: Product
  - 404: 404: ErrNotFound: Unknown product
*/
func (handler *Handler) GetProduct(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	prod, err := handler.service.GetProduct(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prod)
}

/*
GET /api/v1/products/by-slug/{slug}.

Response:
  - 200: Product
  - 404: 404: ErrNotFound: Unknown slug
*/
func (handler *Handler) GetProductBySlug(writer http.ResponseWriter, request *http.Request) {
	s := chi.URLParam(request, "slug")

	prod, err := handler.service.GetProductBySlug(request.Context(), s)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prod)
}

// # Catalogue Management

// createProductRequest defines the inbound JSON schema for new products.
type createProductRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Cost          float64 `json:"cost"`
	StockQuantity int64   `json:"stockQuantity"`
}

/*
POST /api/v1/products.

Request:
  - body: createProductRequest

Response:
  - 201: Product: Created catalogue entry
  - 400: 400: ErrInvalidJSON/Validation: Invalid payload
  - 403: 403: ErrForbidden: Missing product.edit scope
*/
func (handler *Handler) CreateProduct(writer http.ResponseWriter, request *http.Request) {
	var input createProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prod := &Product{
		Name:          input.Name,
		Description:   input.Description,
		Cost:          input.Cost,
		StockQuantity: input.StockQuantity,
	}

	if err := handler.service.CreateProduct(request.Context(), prod); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.CreatedAt(writer, "/api/v1/products/"+prod.ID, prod)
}

/*
DELETE /api/v1/products/{id}.

Response:
  - 204: Deleted
  - 404: 404: ErrNotFound: Unknown product
*/
func (handler *Handler) DeleteProduct(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := handler.service.DeleteProduct(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Stock Control

/*
PUT /api/v1/products/{id}/{stockQuantity}.

Description: Sets the absolute stock level. The status code tells the
caller what actually happened, which the order coordinator relies on.

Request:
  - id: string (Product UUID)
  - stockQuantity: int (New absolute stock level)

Response:
  - 204: Stock changed
  - 304: Quantity already matched, nothing written
  - 400: 400: Validation: Negative or non-numeric quantity
  - 404: 404: ErrNotFound: Unknown product
*/
func (handler *Handler) UpdateStock(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	quantity, err := strconv.ParseInt(chi.URLParam(request, "stockQuantity"), 10, 64)
	if err != nil {
		v := &validate.Validator{}
		v.Custom(FieldStockQuantity, true, "Stock quantity must be an integer")
		respond.Error(writer, request, v.Err())
		return
	}

	changed, err := handler.service.UpdateStock(request.Context(), id, quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !changed {
		respond.NotModified(writer)
		return
	}
	respond.NoContent(writer)
}

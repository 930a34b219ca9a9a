// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package productclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/storefront/internal/order"
	"github.com/vendora/storefront/internal/productclient"
)

/*
TestClient_ListProducts decodes the catalogue's bare-array contract and
forwards the caller's bearer token.
*/
func TestClient_ListProducts(t *testing.T) {
	catalogue := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/api/v1/products", request.URL.Path)
		assert.Equal(t, "Bearer token-abc", request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `[
			{"id":"pie","name":"Perfectly Preserved Pie","cost":25,"stockQuantity":1},
			{"id":"nuka-cola","name":"Nuka-Cola","cost":5,"stockQuantity":10}
		]`)
	}))
	defer catalogue.Close()

	client := productclient.New(catalogue.URL+"/api/v1", nil)

	items, err := client.ListProducts(context.Background(), "token-abc")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, order.CatalogItem{ID: "pie", Cost: 25, StockQuantity: 1}, items[0])
	assert.Equal(t, order.CatalogItem{ID: "nuka-cola", Cost: 5, StockQuantity: 10}, items[1])
}

/*
TestClient_ListProducts_Failure reports non-200 statuses as errors
carrying the upstream status.
*/
func TestClient_ListProducts_Failure(t *testing.T) {
	catalogue := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		fmt.Fprint(writer, `{"error":"Insufficient permissions"}`)
	}))
	defer catalogue.Close()

	client := productclient.New(catalogue.URL+"/api/v1", nil)

	_, err := client.ListProducts(context.Background(), "token-abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

/*
TestClient_SetStock maps the reservation endpoint: the quantity travels
in the path and every response status comes back as a value, including
the non-2xx ones the coordinator collects as failures.
*/
func TestClient_SetStock(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"reserved", http.StatusNoContent},
		{"unchanged", http.StatusNotModified},
		{"conflict", http.StatusConflict},
		{"missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogue := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, http.MethodPut, request.Method)
				assert.Equal(t, "/api/v1/products/pie/7", request.URL.Path)
				assert.Equal(t, "Bearer token-abc", request.Header.Get("Authorization"))
				writer.WriteHeader(tt.status)
			}))
			defer catalogue.Close()

			client := productclient.New(catalogue.URL+"/api/v1", nil)

			status, err := client.SetStock(context.Background(), "token-abc", "pie", 7)
			require.NoError(t, err)
			assert.Equal(t, tt.status, status)
		})
	}
}

/*
TestClient_SetStock_TransportFailure keeps transport errors distinct
from status rejections.
*/
func TestClient_SetStock_TransportFailure(t *testing.T) {
	catalogue := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	catalogue.Close() // immediately unreachable

	client := productclient.New(catalogue.URL+"/api/v1", nil)

	_, err := client.SetStock(context.Background(), "token-abc", "pie", 7)
	assert.Error(t, err)
}

// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package productclient is the HTTP client for the product catalogue API.

The order coordinator talks to the catalogue over HTTP even when both run
in the same binary: stock is owned by the catalogue service and the
boundary stays a network boundary. The caller's bearer token is forwarded
verbatim on every request, so the catalogue applies the same scope checks
it would for a direct call.
*/
package productclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vendora/storefront/internal/order"
	"github.com/vendora/storefront/internal/platform/constants"
)

// Client calls the product catalogue API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ order.Catalog = (*Client)(nil)

// New constructs a catalogue client.
//
// # Parameters
//   - baseURL: Catalogue API prefix, e.g. "http://localhost:8080/api/v1".
//   - httpClient: Optional; defaults to a client with a short timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// productPayload mirrors the catalogue's wire shape.
type productPayload struct {
	ID            string  `json:"id"`
	Cost          float64 `json:"cost"`
	StockQuantity int64   `json:"stockQuantity"`
}

// ListProducts fetches the full catalogue as a bare JSON array.
func (client *Client) ListProducts(ctx context.Context, bearer string) ([]order.CatalogItem, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		client.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("build catalogue request: %w", err)
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+bearer)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch catalogue: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return nil, fmt.Errorf("fetch catalogue: status %d: %s", response.StatusCode, body)
	}

	var payload []productPayload
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	items := make([]order.CatalogItem, 0, len(payload))
	for _, p := range payload {
		items = append(items, order.CatalogItem{
			ID:            p.ID,
			Cost:          p.Cost,
			StockQuantity: p.StockQuantity,
		})
	}
	return items, nil
}

// SetStock PUTs the new absolute stock level for one product and returns
// the catalogue's status code. Non-2xx statuses are reported through the
// status value, not the error; the error covers transport failures only.
func (client *Client) SetStock(ctx context.Context, bearer, productID string, quantity int64) (int, error) {
	url := client.baseURL + "/products/" + productID + "/" + strconv.FormatInt(quantity, 10)

	request, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build stock request: %w", err)
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+bearer)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("set stock for %s: %w", productID, err)
	}
	defer func() { _ = response.Body.Close() }()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4096))

	return response.StatusCode, nil
}

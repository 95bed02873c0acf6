// Package catalog talks to the product service and keeps a short-lived local
// view of its products for pricing and display.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/httpclient"
)

const serviceName = "product-service"

// Client is an HTTP client for the product service.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, httpClient *httpclient.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

type productData struct {
	Data domain.Product `json:"data"`
}

type productListData struct {
	Data []domain.Product `json:"data"`
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/api/v1/products")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	var out productListData
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return out.Data, nil
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("marshal product: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/api/v1/products", "application/json", bytes.NewReader(body))
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return domain.Product{}, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	var out productData
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return out.Data, nil
}

// UpdateProduct replaces a product's catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("marshal product: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/v1/products/"+p.ID, bytes.NewReader(body))
	if err != nil {
		return domain.Product{}, fmt.Errorf("create PUT request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	var out productData
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return out.Data, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/products/"+id, http.NoBody)
	if err != nil {
		return fmt.Errorf("create DELETE request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	resp.Body.Close()
	return nil
}

// AdjustStock changes a product's stock level by delta, which may be negative.
func (c *Client) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	body, err := json.Marshal(map[string]int{"delta": delta})
	if err != nil {
		return domain.Product{}, fmt.Errorf("marshal stock adjustment: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/api/v1/products/"+id+"/stock", "application/json", bytes.NewReader(body))
	if err != nil {
		return domain.Product{}, fmt.Errorf("adjust stock: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	var out productData
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return out.Data, nil
}

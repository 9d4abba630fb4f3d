package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/elitepos/pos-terminal/internal/models"
)

// ProductPage is the normalized shape of every product listing response.
// The backend has answered with a bare array, a {data,totalCount} envelope
// and a {products,pagination} envelope across versions; normalization
// happens here, once, so callers only ever see this struct.
type ProductPage struct {
	Items      []models.Product
	TotalCount int
	Page       int
	Limit      int
}

type ListParams struct {
	Page    int
	Limit   int
	Query   string
	SortBy  string // name | retailPrice | stock
	SortDir string // asc | desc
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
	Total      int `json:"total"`
}

type productListEnvelope struct {
	Data       []models.Product `json:"data"`
	Products   []models.Product `json:"products"`
	TotalCount int              `json:"totalCount"`
	Pagination *pagination      `json:"pagination"`
}

func normalizeProductPage(raw json.RawMessage, page, limit int) (*ProductPage, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.Product
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
		return &ProductPage{Items: items, TotalCount: len(items), Page: page, Limit: limit}, nil
	}

	var env productListEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode product page: %w", err)
	}
	out := &ProductPage{Items: env.Data, TotalCount: env.TotalCount, Page: page, Limit: limit}
	if out.Items == nil {
		out.Items = env.Products
	}
	if p := env.Pagination; p != nil {
		if p.Page > 0 {
			out.Page = p.Page
		}
		if p.Limit > 0 {
			out.Limit = p.Limit
		}
		if p.TotalCount > 0 {
			out.TotalCount = p.TotalCount
		} else if p.Total > 0 {
			out.TotalCount = p.Total
		}
	}
	if out.TotalCount == 0 {
		out.TotalCount = len(out.Items)
	}
	return out, nil
}

func (c *Client) ListProducts(ctx context.Context, p ListParams) (*ProductPage, error) {
	page, limit := clampPage(p.Page, p.Limit)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
		q.Set("sortDir", p.SortDir)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/product/all", q, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeProductPage(raw, page, limit)
}

func (c *Client) SearchProducts(ctx context.Context, query string, page, limit int) (*ProductPage, error) {
	page, limit = clampPage(page, limit)
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/product/search", q, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeProductPage(raw, page, limit)
}

func (c *Client) AddProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPost, "/product/add", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodPut, "/product/update/"+url.PathEscape(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/product/delete/"+url.PathEscape(id), nil, nil, nil)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (c *Client) BulkDeleteProducts(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/product/bulk/delete", nil, bulkDeleteRequest{IDs: ids}, nil)
}

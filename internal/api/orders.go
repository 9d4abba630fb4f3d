package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/elitepos/pos-terminal/internal/models"
)

type CreateOrderRequest struct {
	Items         []models.OrderItem   `json:"items"`
	CustomerPhone string               `json:"customerPhone,omitempty"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Discount      decimal.Decimal      `json:"discount"`
	Notes         string               `json:"notes,omitempty"`
}

// UpdateOrderRequest carries only the fields the backend lets the client
// mutate after creation. Nil pointers are left untouched server-side.
type UpdateOrderRequest struct {
	CustomerPhone *string               `json:"customerPhone,omitempty"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus,omitempty"`
	Discount      *decimal.Decimal      `json:"discount,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
}

type OrderListParams struct {
	From    time.Time
	To      time.Time
	Status  string // "" | paid | pending | cancelled
	Page    int
	Limit   int
	SortBy  string // date | total | profit
	SortDir string // asc | desc
}

type OrdersPage struct {
	Orders     []models.Order   `json:"orders"`
	Analytics  models.Analytics `json:"analytics"`
	Pagination pagination       `json:"pagination"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, p OrderListParams) (*OrdersPage, error) {
	page, limit := clampPage(p.Page, p.Limit)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if !p.From.IsZero() {
		q.Set("from", p.From.Format("2006-01-02"))
	}
	if !p.To.IsZero() {
		q.Set("to", p.To.Format("2006-01-02"))
	}
	if p.Status != "" {
		q.Set("paymentStatus", p.Status)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
		q.Set("sortDir", p.SortDir)
	}

	var out OrdersPage
	if err := c.do(ctx, http.MethodGet, "/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder is terminal: the backend restores inventory and the order
// stops accepting edits.
func (c *Client) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/cancel", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetInvoice(ctx context.Context, orderID string) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/invoice", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

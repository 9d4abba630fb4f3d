package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentUPI  PaymentMethod = "upi"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusPaid      PaymentStatus = "paid"
	StatusCancelled PaymentStatus = "cancelled"
)

// SizeStock is one (size, quantity) pair of a product. Order matters:
// the backend returns sizes in display order.
type SizeStock struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	Description    string          `json:"description"`
	Sizes          []SizeStock     `json:"sizes"`
}

// TotalStock is derived from the size list on every call, never cached.
func (p *Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Quantity
	}
	return total
}

// SizeQuantity returns the stock of one size, 0 when the size is unknown.
func (p *Product) SizeQuantity(size string) int {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Quantity
		}
	}
	return 0
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal,omitempty"`
}

type Order struct {
	ID            string          `json:"id"`
	Items         []OrderItem     `json:"items"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Discount      decimal.Decimal `json:"discount"`
	Notes         string          `json:"notes,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Profit        decimal.Decimal `json:"profit"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Editable reports whether the order still accepts edit or cancel.
// Cancellation is terminal.
func (o *Order) Editable() bool {
	return o.PaymentStatus != StatusCancelled
}

// Analytics is the aggregate block the orders listing returns alongside
// the page. All numbers are computed server-side.
type Analytics struct {
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	OrderCount  int             `json:"orderCount"`
	ItemsSold   int             `json:"itemsSold"`
}

// UploadBatch records one bulk import: what it inserted and which
// quantity deltas it applied to pre-existing products. Rollback undoes
// exactly that set.
type UploadBatch struct {
	UploadID      string    `json:"uploadId"`
	FileName      string    `json:"fileName"`
	FileHash      string    `json:"fileHash"`
	InsertedIDs   []string  `json:"insertedIds"`
	InsertedCount int       `json:"insertedCount"`
	UpdatedCount  int       `json:"updatedCount"`
	RolledBack    bool      `json:"rolledBack"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ShopIdentity struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	Phone   string `json:"phone"`
}

type InvoiceLine struct {
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Taxable   decimal.Decimal `json:"taxable"`
	GSTRate   decimal.Decimal `json:"gstRate"`
	GSTAmount decimal.Decimal `json:"gstAmount"`
	Total     decimal.Decimal `json:"total"`
}

type GSTBreakup struct {
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Amount  decimal.Decimal `json:"amount"`
}

// Invoice is the tax-breakdown document the backend assembles for one
// order. The client only renders it.
type Invoice struct {
	Shop       ShopIdentity    `json:"shop"`
	OrderID    string          `json:"orderId"`
	Date       time.Time       `json:"date"`
	Items      []InvoiceLine   `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	TotalGST   decimal.Decimal `json:"totalGst"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Breakup    []GSTBreakup    `json:"gstBreakup"`
	Notes      string          `json:"notes,omitempty"`
}

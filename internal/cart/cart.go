package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

var (
	ErrOutOfStock   = errors.New("out of stock")
	ErrStockCeiling = errors.New("stock ceiling reached")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNotFound     = errors.New("not found")
	ErrNotAwaiting  = errors.New("no UPI confirmation pending")
)

// Line is one cart entry: a product+size with a quantity capped by the
// per-size availability remembered when the line was added. The cap is a
// client-side courtesy; the backend re-checks stock at order time.
type Line struct {
	ID             uuid.UUID
	ProductID      string
	Name           string
	Size           string
	RetailPrice    decimal.Decimal
	WholesalePrice decimal.Decimal
	Quantity       int
	Available      int
}

// Phase is the checkout step the cart is in. UPI sales pass through
// PhaseAwaitingUPI and only finalize on operator confirmation; cash
// sales never leave PhaseOpen.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseAwaitingUPI
)

// OrderCreator is the slice of the API client checkout needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*models.Order, error)
}

type Cart struct {
	mu     sync.Mutex
	client OrderCreator

	lines    []Line
	discount decimal.Decimal
	phone    string
	notes    string
	method   models.PaymentMethod
	status   models.PaymentStatus
	phase    Phase
}

func New(client OrderCreator) *Cart {
	return &Cart{
		client: client,
		method: models.PaymentCash,
		status: models.StatusPaid,
	}
}

// Add puts one unit of (product, size) in the cart. A size with zero
// remembered stock is rejected; an existing line increments up to its
// remembered ceiling, never beyond it.
func (c *Cart) Add(p models.Product, size string) error {
	avail := p.SizeQuantity(size)
	if avail <= 0 {
		return fmt.Errorf("%s (%s): %w", p.Name, size, ErrOutOfStock)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID && c.lines[i].Size == size {
			if c.lines[i].Quantity >= c.lines[i].Available {
				return fmt.Errorf("%s (%s): %w", p.Name, size, ErrStockCeiling)
			}
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ID:             uuid.New(),
		ProductID:      p.ID,
		Name:           p.Name,
		Size:           size,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		Quantity:       1,
		Available:      avail,
	})
	return nil
}

// UpdateQuantity sets a line's quantity directly. Zero or negative
// removes the line. Values above the remembered availability clamp to it,
// the same rule the increment path applies; the applied quantity is
// returned so callers can tell a clamp happened.
func (c *Cart) UpdateQuantity(id uuid.UUID, qty int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return 0, nil
		}
		if qty > c.lines[i].Available {
			qty = c.lines[i].Available
		}
		c.lines[i].Quantity = qty
		return qty, nil
	}
	return 0, ErrNotFound
}

func (c *Cart) Remove(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) SetDiscount(d decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d.IsNegative() {
		d = decimal.Zero
	}
	c.discount = d
}

func (c *Cart) SetCustomerPhone(phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phone = phone
}

func (c *Cart) SetNotes(notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = notes
}

func (c *Cart) SetPaymentMethod(m models.PaymentMethod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.method = m
}

func (c *Cart) SetPaymentStatus(s models.PaymentStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

func (c *Cart) PaymentMethod() models.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

func (c *Cart) PaymentStatus() models.PaymentStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Cart) Discount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discount
}

func (c *Cart) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Subtotal is Σ(retail × qty).
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.RetailPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Total is the subtotal less the discount, floored at zero for display.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.subtotalLocked().Sub(c.discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Profit is Σ((retail − wholesale) × qty) − discount, floored at zero.
// Display-only; the backend computes the authoritative figure.
func (c *Cart) Profit() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	profit := decimal.Zero
	for _, l := range c.lines {
		margin := l.RetailPrice.Sub(l.WholesalePrice)
		profit = profit.Add(margin.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	profit = profit.Sub(c.discount)
	if profit.IsNegative() {
		return decimal.Zero
	}
	return profit
}

// Confirm starts checkout. An empty cart is rejected before any network
// traffic. Cash sales submit immediately and reset the cart on success.
// UPI sales only transition to PhaseAwaitingUPI; nothing is submitted
// until ConfirmUPIPaid, so awaiting is true and the order nil.
func (c *Cart) Confirm(ctx context.Context) (order *models.Order, awaiting bool, err error) {
	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return nil, false, ErrEmptyCart
	}
	if c.method == models.PaymentUPI {
		c.phase = PhaseAwaitingUPI
		c.mu.Unlock()
		return nil, true, nil
	}
	req := c.buildRequestLocked(c.status)
	c.mu.Unlock()

	order, err = c.client.CreateOrder(ctx, req)
	if err != nil {
		return nil, false, err
	}
	c.Reset()
	return order, false, nil
}

// ConfirmUPIPaid finalizes a UPI sale after the operator confirms the
// payment arrived. Status is forced to paid regardless of the form.
func (c *Cart) ConfirmUPIPaid(ctx context.Context) (*models.Order, error) {
	c.mu.Lock()
	if c.phase != PhaseAwaitingUPI {
		c.mu.Unlock()
		return nil, ErrNotAwaiting
	}
	req := c.buildRequestLocked(models.StatusPaid)
	c.mu.Unlock()

	order, err := c.client.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Reset()
	return order, nil
}

// AbortUPI returns an awaiting-confirmation cart to the open phase
// without submitting anything.
func (c *Cart) AbortUPI() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseAwaitingUPI {
		c.phase = PhaseOpen
	}
}

func (c *Cart) buildRequestLocked(status models.PaymentStatus) api.CreateOrderRequest {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: l.RetailPrice,
		})
	}
	return api.CreateOrderRequest{
		Items:         items,
		CustomerPhone: c.phone,
		PaymentMethod: c.method,
		PaymentStatus: status,
		Discount:      c.discount,
		Notes:         c.notes,
	}
}

// Reset clears the lines and the checkout form.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.discount = decimal.Zero
	c.phone = ""
	c.notes = ""
	c.method = models.PaymentCash
	c.status = models.StatusPaid
	c.phase = PhaseOpen
}

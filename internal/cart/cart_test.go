package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

type fakeCreator struct {
	calls []api.CreateOrderRequest
	order *models.Order
	err   error
}

func (f *fakeCreator) CreateOrder(_ context.Context, req api.CreateOrderRequest) (*models.Order, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.order != nil {
		return f.order, nil
	}
	return &models.Order{ID: "ord-1", PaymentStatus: req.PaymentStatus, PaymentMethod: req.PaymentMethod}, nil
}

func testProduct() models.Product {
	return models.Product{
		ID:             "p1",
		Name:           "Runner",
		Category:       "shoes",
		WholesalePrice: decimal.NewFromInt(300),
		RetailPrice:    decimal.NewFromInt(500),
		Sizes: []models.SizeStock{
			{Size: "M", Quantity: 2},
			{Size: "L", Quantity: 0},
		},
	}
}

func TestCart_Add_RejectsOutOfStockSize(t *testing.T) {
	t.Parallel()

	c := New(&fakeCreator{})
	err := c.Add(testProduct(), "L")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, c.Lines())
}

func TestCart_Add_IncrementsUpToCeiling(t *testing.T) {
	t.Parallel()

	c := New(&fakeCreator{})
	p := testProduct()

	require.NoError(t, c.Add(p, "M"))
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	require.NoError(t, c.Add(p, "M"))
	assert.Equal(t, 2, c.Lines()[0].Quantity)

	err := c.Add(p, "M")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStockCeiling)
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Parallel()

	c := New(&fakeCreator{})
	p := testProduct()
	require.NoError(t, c.Add(p, "M"))
	id := c.Lines()[0].ID

	applied, err := c.UpdateQuantity(id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	// direct edits clamp to the remembered availability, same as increment
	applied, err = c.UpdateQuantity(id, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, 2, c.Lines()[0].Quantity)

	// zero or less removes the line
	applied, err = c.UpdateQuantity(id, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.Empty(t, c.Lines())
}

func TestCart_Totals(t *testing.T) {
	t.Parallel()

	c := New(&fakeCreator{})
	p := testProduct()
	require.NoError(t, c.Add(p, "M"))
	require.NoError(t, c.Add(p, "M"))
	c.SetDiscount(decimal.NewFromInt(200))

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(1000)), "subtotal = %s", c.Subtotal())
	assert.True(t, c.Total().Equal(decimal.NewFromInt(800)), "total = %s", c.Total())
	assert.True(t, c.Profit().Equal(decimal.NewFromInt(200)), "profit = %s", c.Profit())
}

func TestCart_Totals_FlooredAtZero(t *testing.T) {
	t.Parallel()

	c := New(&fakeCreator{})
	require.NoError(t, c.Add(testProduct(), "M"))
	c.SetDiscount(decimal.NewFromInt(9999))

	assert.True(t, c.Total().IsZero())
	assert.True(t, c.Profit().IsZero())
}

func TestCart_Confirm_EmptyCartIsNoOp(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	c := New(creator)

	_, _, err := c.Confirm(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, creator.calls, "empty-cart confirm must not issue a request")
}

func TestCart_Confirm_CashSubmitsImmediately(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	c := New(creator)
	require.NoError(t, c.Add(testProduct(), "M"))
	c.SetCustomerPhone("9876543210")
	c.SetDiscount(decimal.NewFromInt(50))

	order, awaiting, err := c.Confirm(context.Background())
	require.NoError(t, err)
	assert.False(t, awaiting)
	require.NotNil(t, order)

	require.Len(t, creator.calls, 1)
	req := creator.calls[0]
	assert.Equal(t, models.PaymentCash, req.PaymentMethod)
	assert.Equal(t, "9876543210", req.CustomerPhone)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "p1", req.Items[0].ProductID)
	assert.Equal(t, "M", req.Items[0].Size)
	assert.Equal(t, 1, req.Items[0].Quantity)

	// successful cash sale resets the cart and form
	assert.True(t, c.Empty())
	assert.True(t, c.Discount().IsZero())
}

func TestCart_Confirm_UPIWaitsForConfirmation(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	c := New(creator)
	require.NoError(t, c.Add(testProduct(), "M"))
	c.SetPaymentMethod(models.PaymentUPI)
	c.SetPaymentStatus(models.StatusPending)

	order, awaiting, err := c.Confirm(context.Background())
	require.NoError(t, err)
	assert.True(t, awaiting)
	assert.Nil(t, order)
	assert.Empty(t, creator.calls, "nothing may be submitted before the operator confirms")
	assert.Equal(t, PhaseAwaitingUPI, c.Phase())

	order, err = c.ConfirmUPIPaid(context.Background())
	require.NoError(t, err)
	require.NotNil(t, order)

	require.Len(t, creator.calls, 1)
	assert.Equal(t, models.StatusPaid, creator.calls[0].PaymentStatus, "UPI confirmation forces paid")
	assert.True(t, c.Empty())
}

func TestCart_AbortUPI(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{}
	c := New(creator)
	require.NoError(t, c.Add(testProduct(), "M"))
	c.SetPaymentMethod(models.PaymentUPI)

	_, awaiting, err := c.Confirm(context.Background())
	require.NoError(t, err)
	require.True(t, awaiting)

	c.AbortUPI()
	assert.Equal(t, PhaseOpen, c.Phase())
	assert.Empty(t, creator.calls)
	assert.False(t, c.Empty(), "aborting keeps the cart intact")

	_, err = c.ConfirmUPIPaid(context.Background())
	assert.ErrorIs(t, err, ErrNotAwaiting)
}

func TestCart_ConfirmFailureKeepsCart(t *testing.T) {
	t.Parallel()

	creator := &fakeCreator{err: assert.AnError}
	c := New(creator)
	require.NoError(t, c.Add(testProduct(), "M"))

	_, _, err := c.Confirm(context.Background())
	require.Error(t, err)
	assert.False(t, c.Empty(), "a failed submission must not clear the cart")
}

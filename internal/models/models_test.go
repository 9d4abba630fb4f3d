package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_TotalStock(t *testing.T) {
	t.Parallel()

	p := Product{Sizes: []SizeStock{
		{Size: "S", Quantity: 3},
		{Size: "M", Quantity: 0},
		{Size: "L", Quantity: 7},
	}}
	assert.Equal(t, 10, p.TotalStock())

	// derived, so a size change is reflected immediately
	p.Sizes[1].Quantity = 5
	assert.Equal(t, 15, p.TotalStock())

	empty := Product{}
	assert.Zero(t, empty.TotalStock())
}

func TestProduct_SizeQuantity(t *testing.T) {
	t.Parallel()

	p := Product{Sizes: []SizeStock{{Size: "M", Quantity: 4}}}
	assert.Equal(t, 4, p.SizeQuantity("M"))
	assert.Zero(t, p.SizeQuantity("XL"))
}

func TestOrder_Editable(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Order{PaymentStatus: StatusPaid}).Editable())
	assert.True(t, (&Order{PaymentStatus: StatusPending}).Editable())
	assert.False(t, (&Order{PaymentStatus: StatusCancelled}).Editable())
}

package manage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitepos/pos-terminal/internal/models"
)

type fakeProducts struct {
	addCalls    int
	updateCalls int
	updateID    string
	deleteID    string
	bulkIDs     []string
	lastProduct *models.Product
}

func (f *fakeProducts) AddProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	f.addCalls++
	f.lastProduct = p
	out := *p
	out.ID = "p-1"
	return &out, nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, id string, p *models.Product) (*models.Product, error) {
	f.updateCalls++
	f.updateID = id
	f.lastProduct = p
	return p, nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, id string) error {
	f.deleteID = id
	return nil
}

func (f *fakeProducts) BulkDeleteProducts(_ context.Context, ids []string) error {
	f.bulkIDs = ids
	return nil
}

func validForm() ProductForm {
	return ProductForm{
		Name:           "Oxford Shirt",
		Category:       "Shirts",
		Brand:          "Arrow",
		WholesalePrice: decimal.NewFromInt(400),
		RetailPrice:    decimal.NewFromInt(650),
		Sizes:          []models.SizeStock{{Size: "M", Quantity: 10}},
	}
}

func TestProductForm_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ProductForm)
		errMsg string
	}{
		{
			name:   "missing name",
			mutate: func(f *ProductForm) { f.Name = "" },
			errMsg: "required",
		},
		{
			name:   "missing category",
			mutate: func(f *ProductForm) { f.Category = "" },
			errMsg: "required",
		},
		{
			name:   "no sizes",
			mutate: func(f *ProductForm) { f.Sizes = nil },
			errMsg: "required",
		},
		{
			name:   "negative price",
			mutate: func(f *ProductForm) { f.RetailPrice = decimal.NewFromInt(-1) },
			errMsg: "negative",
		},
		{
			name:   "retail equals wholesale",
			mutate: func(f *ProductForm) { f.RetailPrice = f.WholesalePrice },
			errMsg: "retail price must exceed wholesale price",
		},
		{
			name:   "retail below wholesale",
			mutate: func(f *ProductForm) { f.RetailPrice = decimal.NewFromInt(300) },
			errMsg: "retail price must exceed wholesale price",
		},
		{
			name:   "blank size label",
			mutate: func(f *ProductForm) { f.Sizes = []models.SizeStock{{Size: "", Quantity: 5}} },
			errMsg: "size label",
		},
		{
			name:   "negative size quantity",
			mutate: func(f *ProductForm) { f.Sizes = []models.SizeStock{{Size: "M", Quantity: -2}} },
			errMsg: "size quantity",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			form := validForm()
			tt.mutate(&form)
			err := form.Validate()
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	form := validForm()
	assert.NoError(t, form.Validate())
}

func TestService_AddValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	client := &fakeProducts{}
	svc := New(client)

	form := validForm()
	form.RetailPrice = decimal.NewFromInt(100)
	_, err := svc.Add(context.Background(), form)
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, client.addCalls)
}

func TestService_Add(t *testing.T) {
	t.Parallel()

	client := &fakeProducts{}
	svc := New(client)

	p, err := svc.Add(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Oxford Shirt", client.lastProduct.Name)
	assert.True(t, client.lastProduct.RetailPrice.Equal(decimal.NewFromInt(650)))
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	client := &fakeProducts{}
	svc := New(client)

	_, err := svc.Update(context.Background(), "p-9", validForm())
	require.NoError(t, err)
	assert.Equal(t, "p-9", client.updateID)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	client := &fakeProducts{}
	svc := New(client)

	require.NoError(t, svc.Delete(context.Background(), "p-3"))
	assert.Equal(t, "p-3", client.deleteID)
}

func TestService_BulkDelete(t *testing.T) {
	t.Parallel()

	client := &fakeProducts{}
	svc := New(client)

	err := svc.BulkDelete(context.Background(), nil)
	require.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, client.bulkIDs)

	require.NoError(t, svc.BulkDelete(context.Background(), []string{"p-1", "p-2"}))
	assert.Equal(t, []string{"p-1", "p-2"}, client.bulkIDs)
}

package manage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/elitepos/pos-terminal/internal/models"
)

var ErrValidation = errors.New("validation")

var validate = validator.New()

// ProductForm is the add/edit product submission. Storage does not
// guarantee the price invariant, so it is checked here before anything
// goes over the wire.
type ProductForm struct {
	Name           string `validate:"required"`
	Category       string `validate:"required"`
	Brand          string
	Barcode        string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	Description    string
	Sizes          []models.SizeStock `validate:"required,min=1,dive"`
}

func (f *ProductForm) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is required", ErrValidation, verrs[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if f.WholesalePrice.IsNegative() || f.RetailPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}
	if f.RetailPrice.LessThanOrEqual(f.WholesalePrice) {
		return fmt.Errorf("%w: retail price must exceed wholesale price", ErrValidation)
	}
	for _, s := range f.Sizes {
		if s.Size == "" {
			return fmt.Errorf("%w: size label must not be empty", ErrValidation)
		}
		if s.Quantity < 0 {
			return fmt.Errorf("%w: size quantity must not be negative", ErrValidation)
		}
	}
	return nil
}

func (f *ProductForm) product() *models.Product {
	return &models.Product{
		Name:           f.Name,
		Category:       f.Category,
		Brand:          f.Brand,
		Barcode:        f.Barcode,
		WholesalePrice: f.WholesalePrice,
		RetailPrice:    f.RetailPrice,
		Description:    f.Description,
		Sizes:          f.Sizes,
	}
}

// Products is the API client slice management needs.
type Products interface {
	AddProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BulkDeleteProducts(ctx context.Context, ids []string) error
}

type Service struct {
	client Products
}

func New(client Products) *Service {
	return &Service{client: client}
}

func (s *Service) Add(ctx context.Context, form ProductForm) (*models.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.client.AddProduct(ctx, form.product())
}

func (s *Service) Update(ctx context.Context, id string, form ProductForm) (*models.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return s.client.UpdateProduct(ctx, id, form.product())
}

// Delete and BulkDelete assume the UI already ran its confirmation step.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.DeleteProduct(ctx, id)
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: nothing selected", ErrValidation)
	}
	return s.client.BulkDeleteProducts(ctx, ids)
}

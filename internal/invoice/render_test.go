package invoice

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitepos/pos-terminal/internal/models"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		Shop: models.ShopIdentity{
			Name:    "Elite Garments",
			Address: "12 Market Road, Pune",
			GSTIN:   "27AAAAA0000A1Z5",
			Phone:   "9876543210",
		},
		OrderID: "ord-42",
		Date:    time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Items: []models.InvoiceLine{
			{
				Name:      "Oxford Shirt",
				Size:      "M",
				Quantity:  2,
				UnitPrice: decimal.NewFromInt(650),
				Taxable:   decimal.NewFromFloat(1160.71),
				GSTRate:   decimal.NewFromInt(12),
				GSTAmount: decimal.NewFromFloat(139.29),
				Total:     decimal.NewFromInt(1300),
			},
		},
		Subtotal:   decimal.NewFromInt(1300),
		Discount:   decimal.NewFromInt(100),
		TotalGST:   decimal.NewFromFloat(139.29),
		GrandTotal: decimal.NewFromInt(1200),
		Breakup: []models.GSTBreakup{
			{Rate: decimal.NewFromInt(12), Taxable: decimal.NewFromFloat(1160.71), Amount: decimal.NewFromFloat(139.29)},
		},
		Notes: "Exchange within 7 days with receipt",
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	require.NoError(t, err)

	doc, err := r.Render(sampleInvoice())
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "Elite Garments")
	assert.Contains(t, html, "27AAAAA0000A1Z5")
	assert.Contains(t, html, "ord-42")
	assert.Contains(t, html, "14 Mar 2026 18:30")
	assert.Contains(t, html, "Oxford Shirt")
	assert.Contains(t, html, "139.29")
	assert.Contains(t, html, "Exchange within 7 days")
	assert.Contains(t, html, "window.print()", "the page must trigger the print dialog on load")
}

func TestRenderer_OmitsEmptyNotes(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	require.NoError(t, err)

	inv := sampleInvoice()
	inv.Notes = ""
	doc, err := r.Render(inv)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), `class="notes"`)
}

func TestRenderer_EscapesMarkup(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	require.NoError(t, err)

	inv := sampleInvoice()
	inv.Items[0].Name = `<script>alert("x")</script>`
	doc, err := r.Render(inv)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), `<script>alert`)
}

func TestFilePrinter(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "invoices")
	p := NewFilePrinter(r, dir)

	require.NoError(t, p.Print(context.Background(), sampleInvoice()))

	raw, err := os.ReadFile(filepath.Join(dir, "invoice-ord-42.html"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Elite Garments")
}

package invoice

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/elitepos/pos-terminal/internal/models"
)

// Renderer assembles a self-contained print-styled HTML document from the
// backend's invoice data. The page invokes the print dialog on load and
// closes itself afterwards, so it works unattended in a browser context.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(inv *models.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, inv); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.OrderID}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; margin: 24px; color: #111; }
  .shop { text-align: center; margin-bottom: 16px; }
  .shop h1 { font-size: 18px; margin: 0; }
  .shop p { margin: 2px 0; }
  .meta { display: flex; justify-content: space-between; margin-bottom: 12px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 12px; }
  th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
  th { background: #eee; }
  td.num, th.num { text-align: right; }
  .totals { width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 2px 6px; }
  .totals tr.grand td { font-weight: bold; border-top: 1px solid #111; }
  .notes { margin-top: 16px; font-style: italic; }
  @media print { body { margin: 8px; } }
</style>
</head>
<body>
<div class="shop">
  <h1>{{.Shop.Name}}</h1>
  <p>{{.Shop.Address}}</p>
  <p>GSTIN: {{.Shop.GSTIN}} | Ph: {{.Shop.Phone}}</p>
</div>
<div class="meta">
  <span>Invoice: {{.OrderID}}</span>
  <span>Date: {{.Date.Format "02 Jan 2006 15:04"}}</span>
</div>
<table>
  <tr><th>Item</th><th>Size</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Taxable</th><th class="num">GST %</th><th class="num">GST</th><th class="num">Total</th></tr>
  {{range .Items}}
  <tr>
    <td>{{.Name}}</td><td>{{.Size}}</td>
    <td class="num">{{.Quantity}}</td>
    <td class="num">{{.UnitPrice}}</td>
    <td class="num">{{.Taxable}}</td>
    <td class="num">{{.GSTRate}}</td>
    <td class="num">{{.GSTAmount}}</td>
    <td class="num">{{.Total}}</td>
  </tr>
  {{end}}
</table>
<table>
  <tr><th>GST Rate</th><th class="num">Taxable</th><th class="num">Tax</th></tr>
  {{range .Breakup}}
  <tr><td>{{.Rate}}%</td><td class="num">{{.Taxable}}</td><td class="num">{{.Amount}}</td></tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
  <tr><td>Discount</td><td class="num">{{.Discount}}</td></tr>
  <tr><td>Total GST</td><td class="num">{{.TotalGST}}</td></tr>
  <tr class="grand"><td>Grand Total</td><td class="num">{{.GrandTotal}}</td></tr>
</table>
{{if .Notes}}<p class="notes">{{.Notes}}</p>{{end}}
<script>window.onload = function() { window.print(); window.close(); };</script>
</body>
</html>
`

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/elitepos/pos-terminal/internal/manage"
	"github.com/elitepos/pos-terminal/internal/models"
)

func (m Model) updateManage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := m.handleNav(msg.String()); handled {
		return m, cmd
	}

	products := m.app.Catalog.Visible()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(products)-1 {
			m.cursor++
		}
	case "left", "h":
		if m.app.Catalog.PrevPage() {
			m.cursor = 0
			return m, m.fetchCatalog()
		}
	case "right", "l":
		if m.app.Catalog.NextPage() {
			m.cursor = 0
			return m, m.fetchCatalog()
		}
	case " ":
		if m.cursor < len(products) {
			id := products[m.cursor].ID
			m.selected[id] = !m.selected[id]
		}
	case "a":
		m.editingProduct = nil
		m.view = viewProductForm
		m.initProductForm(nil)
		return m, textinput.Blink
	case "e", "enter":
		if m.cursor < len(products) {
			p := products[m.cursor]
			m.editingProduct = &p
			m.view = viewProductForm
			m.initProductForm(&p)
			return m, textinput.Blink
		}
	case "D":
		if m.cursor < len(products) {
			p := products[m.cursor]
			m.confirm = &confirmAction{
				prompt: fmt.Sprintf("Delete %s?", p.Name),
				cmd:    m.deleteProductCmd(p.ID),
			}
		}
	case "X":
		var ids []string
		for id, on := range m.selected {
			if on {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			m.setStatus("Nothing selected. Mark products with space.")
			return m, nil
		}
		m.confirm = &confirmAction{
			prompt: fmt.Sprintf("Delete %d selected product(s)?", len(ids)),
			cmd:    m.bulkDeleteCmd(ids),
		}
	case "r":
		return m, m.fetchCatalog()
	}
	return m, nil
}

func (m Model) renderManage() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Manage Products ") + "\n\n")

	if m.app.Catalog.Loading() {
		b.WriteString("  Loading...\n")
	} else if err := m.app.Catalog.Err(); err != nil {
		b.WriteString(errorStyle.Render("  Failed to load products: "+err.Error()) + "\n")
		b.WriteString(helpStyle.Render("  r: retry") + "\n")
	} else {
		products := m.app.Catalog.Visible()
		if len(products) == 0 {
			b.WriteString(helpStyle.Render("  No products.") + "\n")
		}
		for i, p := range products {
			mark := "[ ]"
			if m.selected[p.ID] {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %-26s %-12s W:%8s R:%8s %5d in stock", mark, truncate(p.Name, 26), truncate(p.Category, 12),
				p.WholesalePrice.StringFixed(2), p.RetailPrice.StringFixed(2), p.TotalStock())
			if i == m.cursor {
				b.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString("    " + line + "\n")
			}
		}
	}

	b.WriteString("\n" + helpStyle.Render("  a: add • e: edit • D: delete • space: mark • X: delete marked • ←/→: page • 1: dashboard"))
	return b.String()
}

const (
	fpName = iota
	fpCategory
	fpBrand
	fpBarcode
	fpWholesale
	fpRetail
	fpDescription
	fpSizes
)

func (m *Model) initProductForm(p *models.Product) {
	m.inputs = make([]textinput.Model, 8)
	m.inputLabels = []string{"Name:", "Category:", "Brand:", "Barcode:", "Wholesale price:", "Retail price:", "Description:", "Sizes (size:qty, ...):"}
	for i := range m.inputs {
		m.inputs[i] = textinput.New()
	}
	m.inputs[fpBrand].Placeholder = "optional"
	m.inputs[fpBarcode].Placeholder = "optional"
	m.inputs[fpSizes].Placeholder = "S:10, M:5, L:0"

	if p != nil {
		m.inputs[fpName].SetValue(p.Name)
		m.inputs[fpCategory].SetValue(p.Category)
		m.inputs[fpBrand].SetValue(p.Brand)
		m.inputs[fpBarcode].SetValue(p.Barcode)
		m.inputs[fpWholesale].SetValue(p.WholesalePrice.String())
		m.inputs[fpRetail].SetValue(p.RetailPrice.String())
		m.inputs[fpDescription].SetValue(p.Description)
		m.inputs[fpSizes].SetValue(formatSizes(p.Sizes))
	}
	m.inputs[fpName].Focus()
	m.focusIndex = 0
}

func formatSizes(sizes []models.SizeStock) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, fmt.Sprintf("%s:%d", s.Size, s.Quantity))
	}
	return strings.Join(parts, ", ")
}

func parseSizes(s string) ([]models.SizeStock, error) {
	var out []models.SizeStock
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		size, qtyStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("size entry %q must look like S:10", part)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("size entry %q has an invalid quantity", part)
		}
		out = append(out, models.SizeStock{Size: strings.TrimSpace(size), Quantity: qty})
	}
	return out, nil
}

func (m Model) updateProductForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingProduct = nil
		m.view = viewManage
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up")
		return m, nil
	case "enter", "ctrl+s":
		form, err := m.collectProductForm()
		if err != nil {
			m.status = err.Error()
			m.statusErr = true
			return m, nil
		}
		m.setStatus("Saving...")
		if m.editingProduct != nil {
			return m, m.updateProductCmd(m.editingProduct.ID, form)
		}
		return m, m.addProductCmd(form)
	}
	return m, m.updateInputs(msg)
}

func (m Model) collectProductForm() (manage.ProductForm, error) {
	var form manage.ProductForm
	form.Name = strings.TrimSpace(m.inputs[fpName].Value())
	form.Category = strings.TrimSpace(m.inputs[fpCategory].Value())
	form.Brand = strings.TrimSpace(m.inputs[fpBrand].Value())
	form.Barcode = strings.TrimSpace(m.inputs[fpBarcode].Value())
	form.Description = strings.TrimSpace(m.inputs[fpDescription].Value())

	wholesale, err := decimal.NewFromString(strings.TrimSpace(m.inputs[fpWholesale].Value()))
	if err != nil {
		return form, fmt.Errorf("wholesale price must be a number")
	}
	retail, err := decimal.NewFromString(strings.TrimSpace(m.inputs[fpRetail].Value()))
	if err != nil {
		return form, fmt.Errorf("retail price must be a number")
	}
	form.WholesalePrice = wholesale
	form.RetailPrice = retail

	sizes, err := parseSizes(m.inputs[fpSizes].Value())
	if err != nil {
		return form, err
	}
	form.Sizes = sizes
	return form, nil
}

func (m Model) renderProductForm() string {
	var b strings.Builder
	title := " Add Product "
	if m.editingProduct != nil {
		title = " Edit " + m.editingProduct.Name + " "
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("  %-24s %s\n", m.inputLabels[i], input.View()))
	}
	b.WriteString("\n" + helpStyle.Render("  enter: save • tab: next field • esc: cancel"))
	return boxStyle.Render(b.String())
}

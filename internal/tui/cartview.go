package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/elitepos/pos-terminal/internal/models"
)

func (m *Model) initCartForm() {
	m.inputs = make([]textinput.Model, 3)
	m.inputLabels = []string{"Customer phone:", "Discount:", "Notes:"}

	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "optional"
	m.inputs[0].CharLimit = 15

	m.inputs[1] = textinput.New()
	m.inputs[1].Placeholder = "0"
	m.inputs[1].CharLimit = 10

	m.inputs[2] = textinput.New()
	m.inputs[2].Placeholder = "optional"

	m.focusIndex = -1
	m.cursor = 0
}

func (m *Model) anyInputFocused() bool {
	for i := range m.inputs {
		if m.inputs[i].Focused() {
			return true
		}
	}
	return false
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focusIndex = -1
}

// applyCartForm pushes the form fields into the cart store. The discount
// input falls back to zero when unparseable; validation proper happens at
// confirm time.
func (m *Model) applyCartForm() {
	m.app.Cart.SetCustomerPhone(strings.TrimSpace(m.inputs[0].Value()))
	if d, err := decimal.NewFromString(strings.TrimSpace(m.inputs[1].Value())); err == nil {
		m.app.Cart.SetDiscount(d)
	} else {
		m.app.Cart.SetDiscount(decimal.Zero)
	}
	m.app.Cart.SetNotes(strings.TrimSpace(m.inputs[2].Value()))
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.anyInputFocused() {
		switch msg.String() {
		case "esc":
			m.blurInputs()
			m.applyCartForm()
			return m, nil
		case "tab":
			m.applyCartForm()
			m.cycleFocus(false)
			return m, nil
		case "shift+tab":
			m.applyCartForm()
			m.cycleFocus(true)
			return m, nil
		}
		return m, m.updateInputs(msg)
	}

	lines := m.app.Cart.Lines()
	switch msg.String() {
	case "esc", "1":
		m.view = viewDashboard
		return m, nil
	case "tab":
		if len(m.inputs) > 0 {
			m.focusIndex = 0
			m.inputs[0].Focus()
		}
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(lines)-1 {
			m.cursor++
		}
	case "+", "=":
		if m.cursor < len(lines) {
			l := lines[m.cursor]
			if applied, _ := m.app.Cart.UpdateQuantity(l.ID, l.Quantity+1); applied == l.Quantity {
				m.status = fmt.Sprintf("Only %d of %s (%s) in stock", l.Available, l.Name, l.Size)
				m.statusErr = true
			}
		}
	case "-":
		if m.cursor < len(lines) {
			l := lines[m.cursor]
			m.app.Cart.UpdateQuantity(l.ID, l.Quantity-1)
			if l.Quantity == 1 && m.cursor > 0 {
				m.cursor--
			}
		}
	case "d":
		if m.cursor < len(lines) {
			l := lines[m.cursor]
			id := l.ID
			m.confirm = &confirmAction{
				prompt: fmt.Sprintf("Remove %s (%s) from the cart?", l.Name, l.Size),
				cmd: func() tea.Msg {
					if err := m.app.Cart.Remove(id); err != nil {
						return errorMsg{err}
					}
					return statusMsg("Removed.")
				},
			}
		}
	case "m":
		if m.app.Cart.PaymentMethod() == models.PaymentCash {
			m.app.Cart.SetPaymentMethod(models.PaymentUPI)
		} else {
			m.app.Cart.SetPaymentMethod(models.PaymentCash)
		}
	case "p":
		// pending/paid toggling only matters for cash sales; UPI forces
		// paid at confirmation anyway
		if m.app.Cart.PaymentStatus() == models.StatusPaid {
			m.app.Cart.SetPaymentStatus(models.StatusPending)
		} else {
			m.app.Cart.SetPaymentStatus(models.StatusPaid)
		}
	case "ctrl+s", "enter":
		m.applyCartForm()
		m.setStatus("Confirming sale...")
		return m, m.confirmSaleCmd()
	}
	return m, nil
}

func (m Model) updateUPIConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.setStatus("Recording UPI sale...")
		return m, m.confirmUPIPaidCmd()
	case "n", "N", "esc":
		m.app.Cart.AbortUPI()
		m.view = viewCart
		m.setStatus("UPI payment not confirmed; sale not recorded.")
		return m, nil
	}
	return m, nil
}

func (m Model) renderCart() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Cart & Checkout ") + "\n\n")

	lines := m.app.Cart.Lines()
	if len(lines) == 0 {
		b.WriteString(helpStyle.Render("  Cart is empty. Add products from the dashboard.") + "\n")
	}
	for i, l := range lines {
		line := fmt.Sprintf("%-26s %-6s x%-3d @ %8s = %9s", truncate(l.Name, 26), l.Size, l.Quantity,
			l.RetailPrice.StringFixed(2), l.RetailPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).StringFixed(2))
		if i == m.cursor {
			b.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Subtotal: %10s\n", m.app.Cart.Subtotal().StringFixed(2)))
	b.WriteString(fmt.Sprintf("  Discount: %10s\n", m.app.Cart.Discount().StringFixed(2)))
	b.WriteString(selectedStyle.Render(fmt.Sprintf("  Total:    %10s", m.app.Cart.Total().StringFixed(2))) + "\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("  Profit:   %10s", m.app.Cart.Profit().StringFixed(2))) + "\n\n")

	b.WriteString(fmt.Sprintf("  Payment: %s %s\n\n",
		strings.ToUpper(string(m.app.Cart.PaymentMethod())),
		statusBadge(string(m.app.Cart.PaymentStatus()))))

	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("  %s %s\n", m.inputLabels[i], input.View()))
	}

	b.WriteString("\n" + helpStyle.Render("  enter: confirm sale • +/-: qty • d: remove • m: cash/upi • tab: form • esc: back"))
	return b.String()
}

func (m Model) renderUPIConfirm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" UPI Payment ") + "\n\n")
	b.WriteString(fmt.Sprintf("  Ask the customer to scan and pay %s.\n\n", selectedStyle.Render(m.app.Cart.Total().StringFixed(2))))
	b.WriteString("  Payment received?\n\n")
	b.WriteString(helpStyle.Render("  y: payment received, record sale • n: back to cart"))
	return boxStyle.Render(b.String())
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/history"
	"github.com/elitepos/pos-terminal/internal/models"
)

var statusCycle = []string{"", "paid", "pending", "cancelled"}

var historySortCycle = []history.SortKey{history.SortDate, history.SortTotal, history.SortProfit}

// dateRanges are the preset report windows; 0 days means all time.
var dateRanges = []struct {
	label string
	days  int
}{
	{"all time", 0},
	{"today", 1},
	{"7 days", 7},
	{"30 days", 30},
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		// client-side filter over the loaded page; no request, no debounce
		m.app.History.SetSearch(m.searchInput.Value())
		m.cursor = 0
		return m, cmd
	}

	if cmd, handled := m.handleNav(msg.String()); handled {
		return m, cmd
	}

	orders := m.app.History.Visible()
	switch msg.String() {
	case "/":
		m.searchInput.Focus()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(orders)-1 {
			m.cursor++
		}
	case "left", "h":
		if m.app.History.PrevPage() {
			m.cursor = 0
			return m, m.fetchHistory()
		}
	case "right", "l":
		if m.app.History.NextPage() {
			m.cursor = 0
			return m, m.fetchHistory()
		}
	case "f":
		m.statusFilter = nextIn(statusCycle, m.statusFilter)
		m.app.History.SetStatus(m.statusFilter)
		m.cursor = 0
		return m, m.fetchHistory()
	case "s":
		m.historySort = nextSort(historySortCycle, m.historySort)
		m.app.History.SetSort(m.historySort, m.historyDesc)
		return m, m.fetchHistory()
	case "S":
		m.historyDesc = !m.historyDesc
		m.app.History.SetSort(m.historySort, m.historyDesc)
		return m, m.fetchHistory()
	case "t":
		m.dateRangeIdx = (m.dateRangeIdx + 1) % len(dateRanges)
		dr := dateRanges[m.dateRangeIdx]
		if dr.days == 0 {
			m.app.History.SetDateRange(time.Time{}, time.Time{})
		} else {
			now := time.Now()
			from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(dr.days - 1))
			m.app.History.SetDateRange(from, now)
		}
		m.cursor = 0
		return m, m.fetchHistory()
	case "r":
		return m, m.fetchHistory()
	case "enter":
		if m.cursor < len(orders) {
			return m, m.loadOrderCmd(orders[m.cursor].ID)
		}
	case "x":
		if m.cursor < len(orders) {
			o := orders[m.cursor]
			if !o.Editable() {
				m.setStatus("Order is already cancelled.")
				return m, nil
			}
			target := o
			m.confirm = &confirmAction{
				prompt: fmt.Sprintf("Cancel order %s? Inventory will be restored.", o.ID),
				cmd:    m.cancelOrderCmd(&target),
			}
		}
	case "i":
		if m.cursor < len(orders) {
			m.setStatus("Preparing invoice...")
			return m, m.printInvoiceCmd(orders[m.cursor].ID)
		}
	}
	return m, nil
}

func nextIn(cycle []string, cur string) string {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func nextSort(cycle []history.SortKey, cur history.SortKey) history.SortKey {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Sales History ") + "\n\n")
	b.WriteString("  " + m.searchInput.View() + "\n")

	filter := m.statusFilter
	if filter == "" {
		filter = "all"
	}
	a := m.app.History.Analytics()
	b.WriteString(helpStyle.Render(fmt.Sprintf("  status: %s | range: %s | sort: %s | page %d (%d total)", filter, dateRanges[m.dateRangeIdx].label, m.historySort, m.app.History.Page(), m.app.History.Total())) + "\n")
	b.WriteString(fmt.Sprintf("  Sales: %s  Profit: %s  Orders: %d  Items: %d\n\n",
		a.TotalSales.StringFixed(2), a.TotalProfit.StringFixed(2), a.OrderCount, a.ItemsSold))

	if m.app.History.Loading() {
		b.WriteString("  Loading...\n")
	} else if err := m.app.History.Err(); err != nil {
		b.WriteString(errorStyle.Render("  Failed to load orders: "+err.Error()) + "\n")
		b.WriteString(helpStyle.Render("  r: retry") + "\n")
	} else {
		orders := m.app.History.Visible()
		if len(orders) == 0 {
			b.WriteString(helpStyle.Render("  No orders.") + "\n")
		}
		for i, o := range orders {
			line := fmt.Sprintf("%-12s %s %-5s %9s  %s", truncate(o.ID, 12), o.CreatedAt.Format("02 Jan 15:04"),
				strings.ToUpper(string(o.PaymentMethod)), o.Total.StringFixed(2), statusBadge(string(o.PaymentStatus)))
			if i == m.cursor {
				b.WriteString("  " + selectedStyle.Render("> ") + line + "\n")
			} else {
				b.WriteString("    " + line + "\n")
			}
		}
	}

	b.WriteString("\n" + helpStyle.Render("  enter: edit • x: cancel • i: invoice • /: search • f: status • t: range • s/S: sort • ←/→: page • 1: dashboard"))
	return b.String()
}

func (m *Model) initOrderEditForm(o *models.Order) {
	m.inputs = make([]textinput.Model, 3)
	m.inputLabels = []string{"Customer phone:", "Discount:", "Notes:"}

	m.inputs[0] = textinput.New()
	m.inputs[0].SetValue(o.CustomerPhone)
	m.inputs[0].Focus()

	m.inputs[1] = textinput.New()
	m.inputs[1].SetValue(o.Discount.String())

	m.inputs[2] = textinput.New()
	m.inputs[2].SetValue(o.Notes)

	m.editMethod = o.PaymentMethod
	m.editStatus = o.PaymentStatus
	m.focusIndex = 0
}

func (m Model) updateOrderEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingOrder == nil {
		m.view = viewHistory
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.editingOrder = nil
		m.view = viewHistory
		return m, nil
	case "tab", "shift+tab":
		m.cycleFocus(msg.String() == "shift+tab")
		return m, nil
	case "ctrl+p":
		if m.editMethod == models.PaymentCash {
			m.editMethod = models.PaymentUPI
		} else {
			m.editMethod = models.PaymentCash
		}
		return m, nil
	case "ctrl+t":
		if m.editStatus == models.StatusPaid {
			m.editStatus = models.StatusPending
		} else {
			m.editStatus = models.StatusPaid
		}
		return m, nil
	case "ctrl+s", "enter":
		phone := strings.TrimSpace(m.inputs[0].Value())
		notes := strings.TrimSpace(m.inputs[2].Value())
		discount, err := decimal.NewFromString(strings.TrimSpace(m.inputs[1].Value()))
		if err != nil {
			m.status = "Discount must be a number"
			m.statusErr = true
			return m, nil
		}
		method, status := m.editMethod, m.editStatus
		req := api.UpdateOrderRequest{
			CustomerPhone: &phone,
			PaymentMethod: &method,
			PaymentStatus: &status,
			Discount:      &discount,
			Notes:         &notes,
		}
		m.setStatus("Saving...")
		return m, m.saveOrderCmd(m.editingOrder, req)
	}
	return m, m.updateInputs(msg)
}

func (m Model) renderOrderEdit() string {
	o := m.editingOrder
	if o == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Edit Order "+o.ID+" ") + "\n\n")

	for _, it := range o.Items {
		b.WriteString(fmt.Sprintf("    %-26s %-6s x%-3d @ %s\n", truncate(it.Name, 26), it.Size, it.Quantity, it.UnitPrice.StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf("\n  Total: %s  Profit: %s\n\n", o.Total.StringFixed(2), o.Profit.StringFixed(2)))

	b.WriteString(fmt.Sprintf("  Payment: %s %s\n\n", strings.ToUpper(string(m.editMethod)), statusBadge(string(m.editStatus))))
	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("  %s %s\n", m.inputLabels[i], input.View()))
	}

	b.WriteString("\n" + helpStyle.Render("  enter: save • ctrl+p: method • ctrl+t: status • esc: back"))
	return boxStyle.Render(b.String())
}

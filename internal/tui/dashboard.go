package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elitepos/pos-terminal/internal/cart"
	"github.com/elitepos/pos-terminal/internal/catalog"
)

var sortCycle = []catalog.SortKey{catalog.SortName, catalog.SortRetail, catalog.SortStock}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc":
			m.searchInput.Blur()
			return m, nil
		case "enter":
			m.searchInput.Blur()
			m.searchSeq++
			m.app.Catalog.SetQuery(m.searchInput.Value())
			return m, m.fetchCatalog()
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		// every keystroke restarts the idle timer; only the newest
		// sequence number will still match when the tick fires
		m.searchSeq++
		return m, tea.Batch(cmd, m.debounceCmd(m.searchSeq, m.debounceDelay()))
	}

	if cmd, handled := m.handleNav(msg.String()); handled {
		return m, cmd
	}

	products := m.app.Catalog.Visible()
	switch msg.String() {
	case "/":
		m.searchInput.Focus()
		return m, nil
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
	case "s":
		m.app.Catalog.SetSort(nextSortKey(m.app.Catalog), false)
		return m, m.fetchCatalog()
	case "S":
		key, desc := m.app.Catalog.Sort()
		m.app.Catalog.SetSort(key, !desc)
		return m, m.fetchCatalog()
	case "f":
		m.app.Catalog.SetCategory(nextCategory(m.app.Catalog))
		m.cursor = 0
		return m, nil
	case "r":
		return m, m.fetchCatalog()
	case "enter":
		if m.cursor < len(products) {
			p := products[m.cursor]
			m.pickTarget = &p
			m.sizeCursor = 0
			m.view = viewSizePick
		}
	}
	return m, nil
}

func nextSortKey(s *catalog.State) catalog.SortKey {
	cur, _ := s.Sort()
	for i, k := range sortCycle {
		if k == cur {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func nextCategory(s *catalog.State) string {
	cats := s.Categories()
	if len(cats) == 0 {
		return catalog.AllCategories
	}
	cur := s.Category()
	if cur == catalog.AllCategories {
		return cats[0]
	}
	for i, c := range cats {
		if c == cur {
			if i+1 < len(cats) {
				return cats[i+1]
			}
			return catalog.AllCategories
		}
	}
	return catalog.AllCategories
}

func (m Model) updateSizePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pickTarget == nil {
		m.view = viewDashboard
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.pickTarget = nil
		m.view = viewDashboard
	case "up", "k":
		if m.sizeCursor > 0 {
			m.sizeCursor--
		}
	case "down", "j":
		if m.sizeCursor < len(m.pickTarget.Sizes)-1 {
			m.sizeCursor++
		}
	case "enter":
		size := m.pickTarget.Sizes[m.sizeCursor].Size
		err := m.app.Cart.Add(*m.pickTarget, size)
		switch {
		case errors.Is(err, cart.ErrOutOfStock):
			m.status = fmt.Sprintf("%s (%s) is out of stock", m.pickTarget.Name, size)
			m.statusErr = true
		case errors.Is(err, cart.ErrStockCeiling):
			m.status = fmt.Sprintf("No more %s (%s) in stock", m.pickTarget.Name, size)
			m.statusErr = true
		case err != nil:
			m.setError(err)
		default:
			m.setStatus(fmt.Sprintf("Added %s (%s)", m.pickTarget.Name, size))
			m.pickTarget = nil
			m.view = viewDashboard
		}
	}
	return m, nil
}

func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Products ") + "\n\n")
	b.WriteString("  " + m.searchInput.View() + "\n")

	cat := m.app.Catalog.Category()
	if cat == catalog.AllCategories {
		cat = "All Categories"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("  category: %s | page %d (%d total)", cat, m.app.Catalog.Page(), m.app.Catalog.Total())) + "\n\n")

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
			line := fmt.Sprintf("%-28s %-12s %8s %6d in stock", truncate(p.Name, 28), truncate(p.Category, 12), p.RetailPrice.StringFixed(2), p.TotalStock())
			if i == m.cursor {
				b.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString("    " + line + "\n")
			}
		}
	}

	lines := m.app.Cart.Lines()
	if len(lines) > 0 {
		b.WriteString("\n" + successStyle.Render(fmt.Sprintf("  Cart: %d line(s), total %s", len(lines), m.app.Cart.Total().StringFixed(2))) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("  enter: add to cart • /: search • f: category • s/S: sort • ←/→: page • c: cart • 2: sales • 3: manage • 4: bulk • ctrl+l: sign out"))
	return b.String()
}

func (m Model) renderSizePick() string {
	if m.pickTarget == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(" "+m.pickTarget.Name+" / pick size ") + "\n\n")
	for i, s := range m.pickTarget.Sizes {
		line := fmt.Sprintf("%-8s %4d in stock", s.Size, s.Quantity)
		if s.Quantity == 0 {
			line = helpStyle.Render(line + "  (out of stock)")
		}
		if i == m.sizeCursor {
			b.WriteString("  " + selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("  enter: add • esc: back"))
	return boxStyle.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

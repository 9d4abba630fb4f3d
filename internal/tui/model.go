package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/auth"
	"github.com/elitepos/pos-terminal/internal/bulk"
	"github.com/elitepos/pos-terminal/internal/cart"
	"github.com/elitepos/pos-terminal/internal/catalog"
	"github.com/elitepos/pos-terminal/internal/config"
	"github.com/elitepos/pos-terminal/internal/history"
	"github.com/elitepos/pos-terminal/internal/invoice"
	"github.com/elitepos/pos-terminal/internal/manage"
	"github.com/elitepos/pos-terminal/internal/models"
)

type view int

const (
	viewLogin view = iota
	viewOTP
	viewDashboard
	viewSizePick
	viewCart
	viewUPIConfirm
	viewHistory
	viewOrderEdit
	viewManage
	viewProductForm
	viewBulk
)

// App is the explicit application-state container: every store and
// service the views touch, injected once at startup instead of living in
// package-level variables.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	API     *api.Client
	Auth    *auth.Flow
	Catalog *catalog.State
	Cart    *cart.Cart
	History *history.State
	Manage  *manage.Service
	Bulk    *bulk.Service
	Printer invoice.Printer
}

// confirmAction is a pending destructive action: the prompt shown and
// the command run if the operator presses y.
type confirmAction struct {
	prompt string
	cmd    tea.Cmd
}

type Model struct {
	app *App

	view view

	searchInput textinput.Model
	inputs      []textinput.Model
	inputLabels []string
	focusIndex  int

	cursor     int
	sizeCursor int
	pickTarget *models.Product
	selected   map[string]bool

	editingOrder   *models.Order
	editingProduct *models.Product
	editMethod     models.PaymentMethod
	editStatus     models.PaymentStatus

	statusFilter string
	historySort  history.SortKey
	historyDesc  bool
	dateRangeIdx int

	batches     []models.UploadBatch
	batchCursor int

	confirm *confirmAction

	searchSeq int

	status    string
	statusErr bool

	width, height int
}

func NewModel(app *App) Model {
	si := textinput.New()
	si.Placeholder = "search products (min 2 chars)"
	si.CharLimit = 64

	m := Model{
		app:         app,
		searchInput: si,
		selected:    map[string]bool{},
		historySort: history.SortDate,
		historyDesc: true,
	}
	if app.Auth.Step() == auth.StepAuthenticated {
		m.view = viewDashboard
	} else {
		m.view = viewLogin
		m.initLoginForm()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.view == viewDashboard {
		return m.fetchCatalog()
	}
	return textinput.Blink
}

func (m Model) debounceDelay() time.Duration {
	return time.Duration(m.app.Config.SearchDebounceMS) * time.Millisecond
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	if api.IsCanceled(err) {
		return
	}
	m.status = err.Error()
	m.statusErr = true
	if api.IsUnauthorized(err) {
		m.app.Auth.Expire()
		m.app.Cart.Reset()
		m.view = viewLogin
		m.initLoginForm()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)

	case errorMsg:
		m.setError(msg.err)
		return m, nil

	case statusMsg:
		m.setStatus(string(msg))
		return m, nil

	case loginDoneMsg:
		m.view = viewOTP
		m.initOTPForm()
		m.setStatus("One-time code sent. Check your inbox.")
		return m, textinput.Blink

	case otpVerifiedMsg:
		m.view = viewDashboard
		m.setStatus("Signed in.")
		return m, m.fetchCatalog()

	case otpResentMsg:
		m.setStatus("Code re-sent.")
		return m, nil

	case catalogMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else if msg.Applied {
			if m.cursor >= len(m.app.Catalog.Visible()) {
				m.cursor = 0
			}
			m.status = ""
		}
		return m, nil

	case historyMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else if msg.Applied {
			if m.cursor >= len(m.app.History.Visible()) {
				m.cursor = 0
			}
			m.status = ""
		}
		return m, nil

	case debounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.app.Catalog.SetQuery(m.searchInput.Value())
		return m, m.fetchCatalog()

	case upiPendingMsg:
		m.view = viewUPIConfirm
		return m, nil

	case orderCreatedMsg:
		m.view = viewDashboard
		m.initCartForm()
		m.setStatus("Sale recorded: order " + msg.order.ID)
		// reload so the view shows the authoritative post-sale stock
		return m, m.fetchCatalog()

	case orderLoadedMsg:
		m.editingOrder = msg.order
		m.view = viewOrderEdit
		m.initOrderEditForm(msg.order)
		return m, textinput.Blink

	case orderSavedMsg:
		m.editingOrder = nil
		m.view = viewHistory
		m.setStatus("Order " + msg.order.ID + " updated.")
		return m, m.fetchHistory()

	case orderCancelledMsg:
		m.editingOrder = nil
		m.view = viewHistory
		m.setStatus("Order " + msg.order.ID + " cancelled. Inventory restored.")
		return m, m.fetchHistory()

	case productSavedMsg:
		m.editingProduct = nil
		m.view = viewManage
		m.setStatus("Saved " + msg.product.Name + ".")
		return m, m.fetchCatalog()

	case productDeletedMsg:
		m.selected = map[string]bool{}
		m.setStatus("Deleted.")
		return m, m.fetchCatalog()

	case bulkUploadedMsg:
		r := msg.result
		m.setStatus(formatUploadResult(r))
		return m, tea.Batch(m.loadBatchesCmd(), m.fetchCatalog())

	case batchesLoadedMsg:
		m.batches = msg.batches
		if m.batchCursor >= len(m.batches) {
			m.batchCursor = 0
		}
		return m, nil

	case rollbackDoneMsg:
		m.setStatus("Batch " + msg.uploadID + " rolled back.")
		return m, tea.Batch(m.loadBatchesCmd(), m.fetchCatalog())

	case invoicePrintedMsg:
		m.setStatus("Invoice for order " + msg.orderID + " sent to print.")
		return m, nil
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		cmd := m.confirm.cmd
		m.confirm = nil
		return m, cmd
	case "n", "N", "esc":
		m.confirm = nil
		m.setStatus("Cancelled.")
		return m, nil
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewOTP:
		return m.updateOTP(msg)
	case viewDashboard:
		return m.updateDashboard(msg)
	case viewSizePick:
		return m.updateSizePick(msg)
	case viewCart:
		return m.updateCart(msg)
	case viewUPIConfirm:
		return m.updateUPIConfirm(msg)
	case viewHistory:
		return m.updateHistory(msg)
	case viewOrderEdit:
		return m.updateOrderEdit(msg)
	case viewManage:
		return m.updateManage(msg)
	case viewProductForm:
		return m.updateProductForm(msg)
	case viewBulk:
		return m.updateBulk(msg)
	}
	return m, nil
}

// handleNav is the shared navigation for authenticated list views.
// Returns handled=false when the key should fall through to the view.
func (m *Model) handleNav(key string) (tea.Cmd, bool) {
	switch key {
	case "1":
		m.view = viewDashboard
		m.cursor = 0
		return m.fetchCatalog(), true
	case "2":
		m.view = viewHistory
		m.cursor = 0
		return m.fetchHistory(), true
	case "3":
		m.view = viewManage
		m.cursor = 0
		return m.fetchCatalog(), true
	case "4":
		m.view = viewBulk
		m.initBulkForm()
		return m.loadBatchesCmd(), true
	case "c":
		m.view = viewCart
		m.initCartForm()
		return nil, true
	case "Q":
		return tea.Quit, true
	case "ctrl+l":
		m.app.Auth.Logout()
		m.app.Cart.Reset()
		m.view = viewLogin
		m.initLoginForm()
		m.setStatus("Signed out.")
		return textinput.Blink, true
	}
	return nil, false
}

func (m Model) View() string {
	var body string
	switch m.view {
	case viewLogin:
		body = m.renderLogin()
	case viewOTP:
		body = m.renderOTP()
	case viewDashboard:
		body = m.renderDashboard()
	case viewSizePick:
		body = m.renderSizePick()
	case viewCart:
		body = m.renderCart()
	case viewUPIConfirm:
		body = m.renderUPIConfirm()
	case viewHistory:
		body = m.renderHistory()
	case viewOrderEdit:
		body = m.renderOrderEdit()
	case viewManage:
		body = m.renderManage()
	case viewProductForm:
		body = m.renderProductForm()
	case viewBulk:
		body = m.renderBulk()
	}

	if m.confirm != nil {
		body += "\n" + warnStyle.Render("  "+m.confirm.prompt+" [y/n]")
	}
	if m.status != "" {
		if m.statusErr {
			body += "\n" + errorStyle.Render("  "+m.status)
		} else {
			body += "\n" + successStyle.Render("  "+m.status)
		}
	}
	return body + "\n"
}

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/logging"
	"github.com/elitepos/pos-terminal/internal/manage"
	"github.com/elitepos/pos-terminal/internal/models"
)

// ctx carries the application logger so the layers below can log without
// holding a logger field of their own.
func (m Model) ctx() context.Context {
	return logging.IntoContext(context.Background(), m.app.Log)
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Auth.Login(m.ctx(), email, password); err != nil {
			return errorMsg{err}
		}
		return loginDoneMsg{}
	}
}

func (m Model) verifyOTPCmd(code string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Auth.VerifyOTP(m.ctx(), code); err != nil {
			return errorMsg{err}
		}
		return otpVerifiedMsg{}
	}
}

func (m Model) resendOTPCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Auth.Resend(m.ctx()); err != nil {
			return errorMsg{err}
		}
		return otpResentMsg{}
	}
}

// fetchCatalog snapshots the catalog state and runs the load off the UI
// goroutine. Superseded fetches come back Applied=false and are dropped.
func (m Model) fetchCatalog() tea.Cmd {
	run := m.app.Catalog.Fetch(m.ctx())
	return func() tea.Msg {
		return catalogMsg(run())
	}
}

func (m Model) fetchHistory() tea.Cmd {
	run := m.app.History.Fetch(m.ctx())
	return func() tea.Msg {
		return historyMsg(run())
	}
}

func (m Model) debounceCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m Model) confirmSaleCmd() tea.Cmd {
	return func() tea.Msg {
		order, awaiting, err := m.app.Cart.Confirm(m.ctx())
		if err != nil {
			return errorMsg{err}
		}
		if awaiting {
			return upiPendingMsg{}
		}
		return orderCreatedMsg{order: order}
	}
}

func (m Model) confirmUPIPaidCmd() tea.Cmd {
	return func() tea.Msg {
		order, err := m.app.Cart.ConfirmUPIPaid(m.ctx())
		if err != nil {
			return errorMsg{err}
		}
		return orderCreatedMsg{order: order}
	}
}

func (m Model) loadOrderCmd(id string) tea.Cmd {
	return func() tea.Msg {
		order, err := m.app.History.Get(m.ctx(), id)
		if err != nil {
			return errorMsg{err}
		}
		return orderLoadedMsg{order: order}
	}
}

func (m Model) saveOrderCmd(current *models.Order, req api.UpdateOrderRequest) tea.Cmd {
	return func() tea.Msg {
		order, err := m.app.History.Update(m.ctx(), current, req)
		if err != nil {
			return errorMsg{err}
		}
		return orderSavedMsg{order: order}
	}
}

func (m Model) cancelOrderCmd(current *models.Order) tea.Cmd {
	return func() tea.Msg {
		order, err := m.app.History.Cancel(m.ctx(), current)
		if err != nil {
			return errorMsg{err}
		}
		return orderCancelledMsg{order: order}
	}
}

func (m Model) printInvoiceCmd(orderID string) tea.Cmd {
	return func() tea.Msg {
		inv, err := m.app.API.GetInvoice(m.ctx(), orderID)
		if err != nil {
			return errorMsg{err}
		}
		if err := m.app.Printer.Print(m.ctx(), inv); err != nil {
			return errorMsg{err}
		}
		return invoicePrintedMsg{orderID: orderID}
	}
}

func (m Model) addProductCmd(form manage.ProductForm) tea.Cmd {
	return func() tea.Msg {
		p, err := m.app.Manage.Add(m.ctx(), form)
		if err != nil {
			return errorMsg{err}
		}
		return productSavedMsg{product: p}
	}
}

func (m Model) updateProductCmd(id string, form manage.ProductForm) tea.Cmd {
	return func() tea.Msg {
		p, err := m.app.Manage.Update(m.ctx(), id, form)
		if err != nil {
			return errorMsg{err}
		}
		return productSavedMsg{product: p}
	}
}

func (m Model) deleteProductCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Manage.Delete(m.ctx(), id); err != nil {
			return errorMsg{err}
		}
		return productDeletedMsg{count: 1}
	}
}

func (m Model) bulkDeleteCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Manage.BulkDelete(m.ctx(), ids); err != nil {
			return errorMsg{err}
		}
		return productDeletedMsg{count: len(ids)}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.app.Bulk.Upload(m.ctx(), path)
		if err != nil {
			return errorMsg{err}
		}
		return bulkUploadedMsg{result: result}
	}
}

func (m Model) loadBatchesCmd() tea.Cmd {
	return func() tea.Msg {
		batches, err := m.app.Bulk.Batches(m.ctx())
		if err != nil {
			return errorMsg{err}
		}
		return batchesLoadedMsg{batches: batches}
	}
}

func (m Model) rollbackCmd(batch models.UploadBatch) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Bulk.Rollback(m.ctx(), batch); err != nil {
			return errorMsg{err}
		}
		return rollbackDoneMsg{uploadID: batch.UploadID}
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elitepos/pos-terminal/internal/api"
)

func (m *Model) initBulkForm() {
	m.inputs = make([]textinput.Model, 1)
	m.inputLabels = []string{"Spreadsheet path:"}
	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "/path/to/products.xlsx"
	m.focusIndex = -1
	m.batchCursor = 0
}

func (m Model) updateBulk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.anyInputFocused() {
		switch msg.String() {
		case "esc":
			m.blurInputs()
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.inputs[0].Value())
			m.blurInputs()
			if path == "" {
				m.status = "Enter a file path first"
				m.statusErr = true
				return m, nil
			}
			m.setStatus("Uploading...")
			return m, m.uploadCmd(path)
		}
		return m, m.updateInputs(msg)
	}

	if cmd, handled := m.handleNav(msg.String()); handled {
		return m, cmd
	}

	switch msg.String() {
	case "u":
		m.focusIndex = 0
		m.inputs[0].Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.batchCursor > 0 {
			m.batchCursor--
		}
	case "down", "j":
		if m.batchCursor < len(m.batches)-1 {
			m.batchCursor++
		}
	case "r":
		return m, m.loadBatchesCmd()
	case "R":
		if m.batchCursor < len(m.batches) {
			batch := m.batches[m.batchCursor]
			if batch.RolledBack {
				m.setStatus("Batch " + batch.UploadID + " is already rolled back.")
				return m, nil
			}
			m.confirm = &confirmAction{
				prompt: fmt.Sprintf("Roll back %s? %d inserted product(s) will be deleted and %d quantity change(s) reverted.",
					batch.FileName, batch.InsertedCount, batch.UpdatedCount),
				cmd: m.rollbackCmd(batch),
			}
		}
	}
	return m, nil
}

func formatUploadResult(r *api.BulkUploadResult) string {
	return fmt.Sprintf("Upload %s: %d inserted, %d updated.", r.UploadID, r.Inserted, r.Updated)
}

func (m Model) renderBulk() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Bulk Upload ") + "\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", m.inputLabels[0], m.inputs[0].View()))
	b.WriteString(helpStyle.Render("  .xlsx and .xls only; content is checked before anything is sent") + "\n\n")

	b.WriteString(selectedStyle.Render("  Upload batches") + "\n")
	if len(m.batches) == 0 {
		b.WriteString(helpStyle.Render("  No batches yet.") + "\n")
	}
	for i, batch := range m.batches {
		state := ""
		if batch.RolledBack {
			state = errorStyle.Render(" [rolled back]")
		}
		line := fmt.Sprintf("%-24s %s  +%d inserted, %d updated%s", truncate(batch.FileName, 24),
			batch.CreatedAt.Format("02 Jan 15:04"), batch.InsertedCount, batch.UpdatedCount, state)
		if i == m.batchCursor {
			b.WriteString("  " + selectedStyle.Render("> ") + line + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("  u: choose file • enter: upload • R: roll back batch • r: refresh • 1: dashboard"))
	return b.String()
}

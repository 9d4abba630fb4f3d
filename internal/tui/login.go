package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) initLoginForm() {
	m.inputs = make([]textinput.Model, 2)
	m.inputLabels = []string{"Email:", "Password:"}

	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "operator@shop.example"
	m.inputs[0].Focus()

	m.inputs[1] = textinput.New()
	m.inputs[1].Placeholder = "password"
	m.inputs[1].EchoMode = textinput.EchoPassword

	m.focusIndex = 0
}

func (m *Model) initOTPForm() {
	m.inputs = make([]textinput.Model, 1)
	m.inputLabels = []string{"Code:"}

	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "6-digit code"
	m.inputs[0].CharLimit = 6
	m.inputs[0].Focus()

	m.focusIndex = 0
}

// cycleFocus moves focus across the form inputs.
func (m *Model) cycleFocus(back bool) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focusIndex].Blur()
	if back {
		m.focusIndex--
		if m.focusIndex < 0 {
			m.focusIndex = len(m.inputs) - 1
		}
	} else {
		m.focusIndex = (m.focusIndex + 1) % len(m.inputs)
	}
	m.inputs[m.focusIndex].Focus()
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up")
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.inputs[0].Value())
		password := m.inputs[1].Value()
		m.setStatus("Signing in...")
		return m, m.loginCmd(email, password)
	}
	return m, m.updateInputs(msg)
}

func (m Model) updateOTP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		code := strings.TrimSpace(m.inputs[0].Value())
		m.setStatus("Verifying...")
		return m, m.verifyOTPCmd(code)
	case "ctrl+r":
		m.setStatus("Re-sending code...")
		return m, m.resendOTPCmd()
	case "esc":
		m.view = viewLogin
		m.initLoginForm()
		return m, nil
	}
	return m, m.updateInputs(msg)
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Elite POS / Sign In ") + "\n\n")
	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("  %s\n", m.inputLabels[i]))
		b.WriteString(fmt.Sprintf("  %s\n\n", input.View()))
	}
	b.WriteString(helpStyle.Render("  enter: sign in • tab: next field • ctrl+c: quit"))
	return boxStyle.Render(b.String())
}

func (m Model) renderOTP() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" One-Time Code ") + "\n\n")
	b.WriteString("  A 6-digit code was sent to your email.\n\n")
	for i, input := range m.inputs {
		b.WriteString(fmt.Sprintf("  %s\n", m.inputLabels[i]))
		b.WriteString(fmt.Sprintf("  %s\n\n", input.View()))
	}
	b.WriteString(helpStyle.Render("  enter: verify • ctrl+r: resend • esc: back"))
	return boxStyle.Render(b.String())
}

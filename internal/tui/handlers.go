package tui

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"invitedesk/internal/invites"
)

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.busy() {
			return m, nil
		}
		host := m.login[fieldHost].Value()
		username := m.login[fieldUsername].Value()
		password := m.login[fieldPassword].Value()
		demo := m.demo
		return m, m.run(func(ctx context.Context) (string, error) {
			if err := m.console.Configure(ctx, host, demo); err != nil {
				return "", err
			}
			return "", m.console.Login(ctx, username, password)
		})

	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField((m.focus + 1) % loginFieldCount)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusField((m.focus + loginFieldCount - 1) % loginFieldCount)

	case key.Matches(msg, m.keys.ToggleDemo):
		m.demo = !m.demo
		return m, nil
	}

	var cmd tea.Cmd
	m.login[m.focus], cmd = m.login[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(f loginField) tea.Cmd {
	m.login[m.focus].Blur()
	m.focus = f
	return m.login[f].Focus()
}

func (m Model) handleOTPKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.busy() {
			return m, nil
		}
		code := m.otp.Value()
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", m.console.SubmitOTP(ctx, code)
		})
	case key.Matches(msg, m.keys.Cancel):
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", m.console.Cancel(ctx)
		})
	}

	var cmd tea.Cmd
	m.otp, cmd = m.otp.Update(msg)
	return m, cmd
}

func (m Model) handleInvitesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKey(msg); ok {
		return m, cmd
	}
	ctrl := m.console.Invites()

	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.openPrompt(promptSearch, ctrl.Search())

	case key.Matches(msg, m.keys.CycleFilter):
		ctrl.SetFilter(nextFilter(ctrl.Filter()))
		m.invitesTable.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Create):
		return m, m.openPrompt(promptCreate, "")

	case key.Matches(msg, m.keys.Disable):
		row, ok := m.currentRow()
		if !ok || m.busy() {
			return m, nil
		}
		if !row.Disableable {
			m.setNotice("Only unused codes can be disabled", true)
			return m, nil
		}
		code := row.Code
		return m, m.run(func(ctx context.Context) (string, error) {
			if err := ctrl.Disable(ctx, code); err != nil {
				return "", err
			}
			return "Disabled " + code, nil
		})

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.currentRow(); ok {
			ctrl.Toggle(row.Code)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		ctrl.SelectAll()
		return m, nil

	case key.Matches(msg, m.keys.ClearSelect):
		ctrl.ClearSelection()
		return m, nil

	case key.Matches(msg, m.keys.ExportCSV):
		return m, m.exportFile(invites.ExportFilename(m.now()), ctrl.ExportCSV)

	case key.Matches(msg, m.keys.ExportCodes):
		return m, m.openPrompt(promptExportCodes, "")

	case key.Matches(msg, m.keys.ExportSel):
		if len(ctrl.Selected()) == 0 {
			m.setNotice("No codes selected", true)
			return m, nil
		}
		return m, m.exportFile(invites.CodesFilename(m.now()), ctrl.ExportSelection)

	case key.Matches(msg, m.keys.EnrolOTP):
		if m.busy() {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", m.console.StartOTPSetup(ctx)
		})

	case key.Matches(msg, m.keys.ShowAdmins):
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", m.console.ShowAdmins(ctx)
		})
	}

	var cmd tea.Cmd
	m.invitesTable, cmd = m.invitesTable.Update(msg)
	return m, cmd
}

func (m Model) handleAdminsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleCommonKey(msg); ok {
		return m, cmd
	}
	ctrl := m.console.Admins()

	switch {
	case key.Matches(msg, m.keys.AddAdmin):
		return m, m.openPrompt(promptAddAdmin, "")

	case key.Matches(msg, m.keys.RemoveAdmin):
		username, ok := m.currentAdmin()
		if !ok || m.busy() {
			return m, nil
		}
		confirm := m.confirmer()
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", ctrl.Remove(ctx, username, confirm)
		})

	case key.Matches(msg, m.keys.CopyPassword):
		if pw := ctrl.NewPassword(); pw != "" {
			return m, copyToClipboard(pw)
		}
		return m, nil

	case key.Matches(msg, m.keys.ShowInvites):
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", m.console.ShowInvites(ctx)
		})
	}

	var cmd tea.Cmd
	m.adminsTable, cmd = m.adminsTable.Update(msg)
	return m, cmd
}

// handleCommonKey covers the bindings shared by the authenticated screens.
func (m *Model) handleCommonKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Refresh):
		if m.busy() {
			return nil, true
		}
		return m.run(func(ctx context.Context) (string, error) {
			return "", m.console.Refresh(ctx)
		}), true
	case key.Matches(msg, m.keys.Dismiss):
		m.console.ClearError()
		m.setNotice("", false)
		return nil, true
	case key.Matches(msg, m.keys.Theme):
		m.theme = newTheme(m.console.ToggleTheme(m.ctx))
		m.applyTheme()
		return nil, true
	case key.Matches(msg, m.keys.Logout):
		return m.run(func(ctx context.Context) (string, error) {
			m.console.Logout(ctx)
			return "", nil
		}), true
	}
	return nil, false
}

func (m *Model) openPrompt(kind promptKind, value string) tea.Cmd {
	m.prompt = kind
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	switch kind {
	case promptSearch:
		m.input.Placeholder = "code or DID"
	case promptCreate:
		m.input.Placeholder = "number of codes"
	case promptExportCodes:
		m.input.Placeholder = "how many (blank for all)"
	case promptAddAdmin:
		m.input.Placeholder = "username"
	}
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.prompt
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if kind == promptSearch {
			m.console.Invites().SetSearch("")
		}
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		return m, m.submitPrompt(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if kind == promptSearch {
		m.console.Invites().SetSearch(m.input.Value())
	}
	return m, cmd
}

func (m *Model) submitPrompt(kind promptKind, value string) tea.Cmd {
	switch kind {
	case promptSearch:
		m.console.Invites().SetSearch(value)
		m.invitesTable.GotoTop()
		return nil

	case promptCreate:
		count, _ := strconv.Atoi(value)
		ctrl := m.console.Invites()
		return m.run(func(ctx context.Context) (string, error) {
			if err := ctrl.Create(ctx, count); err != nil {
				return "", err
			}
			return "Created " + strconv.Itoa(count) + " codes", nil
		})

	case promptExportCodes:
		n := 0
		if value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 1 {
				m.setNotice("Enter a positive number of codes", true)
				return nil
			}
			n = parsed
		}
		ctrl := m.console.Invites()
		return m.exportFile(invites.CodesFilename(m.now()), func(w io.Writer) error {
			return ctrl.ExportCodes(w, n)
		})

	case promptAddAdmin:
		ctrl := m.console.Admins()
		return m.run(func(ctx context.Context) (string, error) {
			if err := ctrl.Add(ctx, value); err != nil {
				return "", err
			}
			return "Added " + value, nil
		})
	}
	return nil
}

func nextFilter(current invites.Filter) invites.Filter {
	for i, f := range invites.Filters {
		if f == current {
			return invites.Filters[(i+1)%len(invites.Filters)]
		}
	}
	return invites.FilterAll
}

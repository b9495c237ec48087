package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"invitedesk/internal/invites"
	"invitedesk/internal/session"
)

func inviteColumns(width int) []table.Column {
	used := 28
	if width > 110 {
		used += width - 110
	}
	return []table.Column{
		{Title: " ", Width: 1},
		{Title: "Invite Code", Width: 26},
		{Title: "Status", Width: 9},
		{Title: "Created At", Width: 22},
		{Title: "Used By", Width: used},
		{Title: "Used At", Width: 22},
	}
}

func adminColumns(width int) []table.Column {
	name := 32
	if width > 70 {
		name += width - 70
	}
	return []table.Column{
		{Title: "Username", Width: name},
		{Title: "Created At", Width: 24},
	}
}

func (m Model) View() string {
	state := m.console.Snapshot()

	var body string
	switch m.screen {
	case session.ScreenLogin:
		body = m.loginView()
	case session.ScreenOTPSetup:
		body = m.otpSetupView(state)
	case session.ScreenOTPChallenge:
		body = m.otpChallengeView()
	case session.ScreenHome:
		body = m.invitesView()
	case session.ScreenAdmins:
		body = m.adminsView()
	}

	sections := []string{m.headerView(), body}
	if m.pending != nil {
		confirm := m.pending.prompt + "\n\n" + m.theme.Subtle.Render("y: yes   n: no")
		sections = append(sections, m.theme.Box.Render(confirm))
	} else if m.prompt != promptNone {
		sections = append(sections, m.promptView())
	}
	sections = append(sections, m.statusView(state), m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	host, demo := m.console.Connection()
	title := m.theme.Title.Render("Invite Manager")
	where := host
	if demo {
		where = "demo mode"
	}
	return title + "  " + m.theme.Subtle.Render(where) + "\n"
}

func (m Model) loginView() string {
	labels := [loginFieldCount]string{"API Host", "Username", "Password"}
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Sign in") + "\n\n")
	for i := range m.login {
		label := labels[i]
		if loginField(i) == m.focus {
			label = m.theme.Focused.Render(label)
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", label, m.login[i].View())
	}
	check := "[ ]"
	if m.demo {
		check = "[x]"
	}
	b.WriteString(check + " Demo mode " + m.theme.Subtle.Render("(ctrl+d)"))
	return m.theme.Box.Render(b.String())
}

func (m Model) otpSetupView(state session.State) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Set up two-factor authentication") + "\n\n")
	b.WriteString("Add this account to your authenticator app, then enter the 6-digit code.\n\n")
	if state.ProvisioningURI != "" {
		b.WriteString(m.theme.Subtle.Render("Setup URI") + "\n" + state.ProvisioningURI + "\n\n")
	}
	if state.QRCodeURL != "" {
		b.WriteString(m.theme.Subtle.Render("QR code") + "\n" + state.QRCodeURL + "\n\n")
	}
	b.WriteString(m.otp.View())
	return m.theme.Box.Render(b.String())
}

func (m Model) otpChallengeView() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Two-factor authentication") + "\n\n")
	b.WriteString("Enter the 6-digit code from your authenticator app.\n\n")
	b.WriteString(m.otp.View())
	return m.theme.Box.Render(b.String())
}

func (m Model) invitesView() string {
	ctrl := m.console.Invites()

	tabs := make([]string, len(invites.Filters))
	for i, f := range invites.Filters {
		label := " " + string(f) + " "
		if f == ctrl.Filter() {
			label = m.theme.Table.Selected.Render(label)
		} else {
			label = m.theme.Subtle.Render(label)
		}
		tabs[i] = label
	}
	info := fmt.Sprintf("%d shown", len(m.rows))
	if n := len(ctrl.Selected()); n > 0 {
		info += fmt.Sprintf(", %d selected", n)
	}
	if term := ctrl.Search(); term != "" {
		info += fmt.Sprintf(", search %q", term)
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Invite Codes") + "  " + strings.Join(tabs, " ") + "\n")
	b.WriteString(m.theme.Subtle.Render(info) + "\n\n")
	if len(m.rows) == 0 {
		b.WriteString(m.theme.Subtle.Render("No invite codes match.") + "\n")
	}
	b.WriteString(m.invitesTable.View())
	return b.String()
}

func (m Model) adminsView() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Administrators") + "\n\n")
	if pw := m.console.Admins().NewPassword(); pw != "" {
		notice := "New admin password (shown once): " + m.theme.Password.Render(pw) +
			"\n" + m.theme.Subtle.Render("press c to copy")
		b.WriteString(m.theme.Box.Render(notice) + "\n")
	}
	b.WriteString(m.adminsTable.View())
	return b.String()
}

func (m Model) promptView() string {
	titles := map[promptKind]string{
		promptSearch:      "Search",
		promptCreate:      "Create invite codes",
		promptExportCodes: "Export codes",
		promptAddAdmin:    "Add admin",
	}
	return m.theme.Focused.Render(titles[m.prompt]) + " " + m.input.View()
}

func (m Model) statusView(state session.State) string {
	var lines []string
	if state.Loading {
		lines = append(lines, m.spinner.View()+" Loading...")
	}
	if state.Err != "" {
		lines = append(lines, m.theme.Error.Render(state.Err))
	}
	if m.notice != "" {
		style := m.theme.Notice
		if m.noticeFailed {
			style = m.theme.Error
		}
		lines = append(lines, style.Render(m.notice))
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m Model) helpView() string {
	var bindings []key.Binding
	switch {
	case m.pending != nil:
		bindings = []key.Binding{m.keys.Yes, m.keys.No}
	case m.prompt != promptNone:
		bindings = []key.Binding{m.keys.Submit, m.keys.Cancel}
	case m.screen == session.ScreenLogin:
		bindings = []key.Binding{m.keys.Submit, m.keys.NextField, m.keys.ToggleDemo}
	case m.screen == session.ScreenOTPSetup, m.screen == session.ScreenOTPChallenge:
		bindings = []key.Binding{m.keys.Submit, m.keys.Cancel}
	case m.screen == session.ScreenHome:
		bindings = []key.Binding{
			m.keys.Search, m.keys.CycleFilter, m.keys.Create, m.keys.Disable,
			m.keys.Toggle, m.keys.ExportCSV, m.keys.ExportCodes, m.keys.ExportSel,
			m.keys.EnrolOTP, m.keys.ShowAdmins, m.keys.Refresh, m.keys.Dismiss,
			m.keys.Theme, m.keys.Logout, m.keys.Quit,
		}
	case m.screen == session.ScreenAdmins:
		bindings = []key.Binding{
			m.keys.AddAdmin, m.keys.RemoveAdmin, m.keys.CopyPassword,
			m.keys.ShowInvites, m.keys.Refresh, m.keys.Dismiss, m.keys.Theme, m.keys.Logout,
			m.keys.Quit,
		}
	}
	return "\n" + m.help.ShortHelpView(bindings)
}

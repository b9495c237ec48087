package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

// KeyMap defines the console's key bindings. Form screens only use Submit,
// Cancel, NextField, PrevField, ToggleDemo and Quit; everything else applies
// to the list screens.
type KeyMap struct {
	Submit     key.Binding
	Cancel     key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	ToggleDemo key.Binding

	Search      key.Binding
	CycleFilter key.Binding
	Create      key.Binding
	Disable     key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	ClearSelect key.Binding
	ExportCSV   key.Binding
	ExportCodes key.Binding
	ExportSel   key.Binding
	EnrolOTP    key.Binding
	ShowAdmins  key.Binding
	ShowInvites key.Binding

	AddAdmin     key.Binding
	RemoveAdmin  key.Binding
	CopyPassword key.Binding

	Refresh key.Binding
	Dismiss key.Binding
	Theme   key.Binding
	Logout  key.Binding
	Quit    key.Binding

	Yes key.Binding
	No  key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "prev field")),
	ToggleDemo: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "demo mode")),

	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	CycleFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Create:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Disable:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disable")),
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	SelectAll:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
	ClearSelect: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear selection")),
	ExportCSV:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
	ExportCodes: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export codes")),
	ExportSel:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "export selection")),
	EnrolOTP:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "set up 2FA")),
	ShowAdmins:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "admins")),
	ShowInvites: key.NewBinding(key.WithKeys("i", "esc"), key.WithHelp("i", "invites")),

	AddAdmin:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add admin")),
	RemoveAdmin:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
	CopyPassword: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy password")),

	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Theme:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
	Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),

	Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}

// tableKeys keeps table navigation off the letters used for actions.
func tableKeys() table.KeyMap {
	return table.KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up", "k")),
		LineDown:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		GotoTop:      key.NewBinding(key.WithKeys("home", "g")),
		GotoBottom:   key.NewBinding(key.WithKeys("end", "G")),
	}
}

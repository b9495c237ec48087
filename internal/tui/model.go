// Package tui is the terminal front end of the console. The Model renders
// whatever screen the session is on and turns key presses into console
// operations; all state that outlives a frame lives in *console.Console.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"invitedesk/internal/console"
	"invitedesk/internal/display"
	"invitedesk/internal/invites"
	"invitedesk/internal/session"
)

// Options configures a Model.
type Options struct {
	Console *console.Console
	// Context scopes every operation the UI starts. Defaults to Background.
	Context context.Context
	// Resolved receives a value whenever background handle resolution adds
	// entries. See NewResolvedSignal.
	Resolved <-chan struct{}
	// ExportDir is where exports are written. Defaults to the working directory.
	ExportDir string
	Now       func() time.Time
	Logger    *slog.Logger
	Keys      *KeyMap
}

type loginField int

const (
	fieldHost loginField = iota
	fieldUsername
	fieldPassword
	loginFieldCount
)

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptCreate
	promptExportCodes
	promptAddAdmin
)

// Model is the bubbletea model for the console.
type Model struct {
	console   *console.Console
	ctx       context.Context
	keys      KeyMap
	theme     Theme
	logger    *slog.Logger
	exportDir string
	now       func() time.Time

	screen session.Screen

	login [loginFieldCount]textinput.Model
	focus loginField
	demo  bool

	otp textinput.Model

	prompt promptKind
	input  textinput.Model

	rows         []invites.Row
	invitesTable table.Model
	adminsTable  table.Model
	spinner      spinner.Model
	help         help.Model

	confirms chan confirmRequest
	resolved <-chan struct{}
	pending  *confirmRequest

	notice       string
	noticeFailed bool
	width        int
	height       int
}

type actionMsg struct {
	notice string
	err    error
}

type noticeMsg struct {
	text   string
	failed bool
}

type handlesResolvedMsg struct{}

type confirmMsg struct {
	req confirmRequest
}

// NewResolvedSignal returns a channel for Options.Resolved and the callback
// to hand to console.Deps.OnHandlesResolved. Signals coalesce while the UI
// is busy.
func NewResolvedSignal() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	return ch, func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	host, demo := opts.Console.Connection()
	m := Model{
		console:   opts.Console,
		ctx:       opts.Context,
		keys:      keys,
		theme:     newTheme(opts.Console.Dark()),
		logger:    opts.Logger,
		exportDir: opts.ExportDir,
		now:       opts.Now,
		screen:    opts.Console.Snapshot().Screen,
		demo:      demo,
		otp:       newInput("123456", 6),
		input:     newInput("", 64),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		confirms:  make(chan confirmRequest),
		resolved:  opts.Resolved,
	}

	m.login[fieldHost] = newInput("https://invites.example.com/", 256)
	m.login[fieldHost].SetValue(host)
	m.login[fieldUsername] = newInput("username", 64)
	m.login[fieldPassword] = newInput("password", 128)
	m.login[fieldPassword].EchoMode = textinput.EchoPassword
	m.login[fieldPassword].EchoCharacter = '•'
	m.focus = fieldUsername

	m.invitesTable = table.New(
		table.WithColumns(inviteColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.invitesTable.KeyMap = tableKeys()
	m.adminsTable = table.New(
		table.WithColumns(adminColumns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.adminsTable.KeyMap = tableKeys()
	m.applyTheme()

	switch m.screen {
	case session.ScreenLogin:
		m.login[m.focus].Focus()
	case session.ScreenOTPSetup, session.ScreenOTPChallenge:
		m.otp.Focus()
	}
	m.syncRows()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = "› "
	return ti
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		waitForConfirm(m.confirms),
		waitForHandles(m.resolved),
	}
	if m.screen.Authenticated() {
		cmds = append(cmds, m.run(func(ctx context.Context) (string, error) {
			return "", m.console.Refresh(ctx)
		}))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.logger.DebugContext(m.ctx, "action failed", "error", msg.err)
		}
		m.setNotice(msg.notice, false)
		cmd := m.sync()
		return m, cmd

	case noticeMsg:
		m.setNotice(msg.text, msg.failed)
		return m, nil

	case handlesResolvedMsg:
		m.syncRows()
		return m, waitForHandles(m.resolved)

	case confirmMsg:
		req := msg.req
		m.pending = &req
		return m, waitForConfirm(m.confirms)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.answerPending(false)
			return m, tea.Quit
		}
		model, cmd := m.handleKey(msg)
		next := model.(Model)
		focus := next.sync()
		return next, tea.Batch(cmd, focus)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		return m.handleConfirmKey(msg)
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}
	switch m.screen {
	case session.ScreenLogin:
		return m.handleLoginKey(msg)
	case session.ScreenOTPSetup, session.ScreenOTPChallenge:
		return m.handleOTPKey(msg)
	case session.ScreenHome:
		return m.handleInvitesKey(msg)
	case session.ScreenAdmins:
		return m.handleAdminsKey(msg)
	}
	return m, nil
}

// sync follows the session onto whatever screen it is now on and refreshes
// the tables from the controllers.
func (m *Model) sync() tea.Cmd {
	state := m.console.Snapshot()
	var cmd tea.Cmd
	if state.Screen != m.screen {
		cmd = m.enter(state.Screen)
	}
	m.syncRows()
	return cmd
}

func (m *Model) enter(screen session.Screen) tea.Cmd {
	prev := m.screen
	m.screen = screen
	m.prompt = promptNone
	m.input.Blur()
	m.otp.Blur()
	for i := range m.login {
		m.login[i].Blur()
	}

	switch screen {
	case session.ScreenLogin:
		m.login[fieldPassword].Reset()
		if prev.Authenticated() {
			m.setNotice("", false)
		}
		return m.login[m.focus].Focus()
	case session.ScreenOTPSetup, session.ScreenOTPChallenge:
		m.otp.Reset()
		return m.otp.Focus()
	case session.ScreenHome, session.ScreenAdmins:
		m.login[fieldPassword].Reset()
	}
	return nil
}

func (m *Model) syncRows() {
	m.rows = m.console.Invites().View()
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		mark := " "
		if m.console.Invites().IsSelected(r.Code) {
			mark = "✓"
		}
		rows[i] = table.Row{mark, r.Code, string(r.Status), r.CreatedAt, r.UsedBy, r.UsedAt}
	}
	setRows(&m.invitesTable, rows)

	admins := m.console.Admins().Admins()
	adminRows := make([]table.Row, len(admins))
	for i, a := range admins {
		adminRows[i] = table.Row{a.Username, display.FormatDate(a.CreatedAt)}
	}
	setRows(&m.adminsTable, adminRows)
}

// setRows replaces the rows of t. A table that was empty leaves its cursor
// at -1, so it is moved onto the first row once there is one.
func setRows(t *table.Model, rows []table.Row) {
	t.SetRows(rows)
	if t.Cursor() < 0 && len(rows) > 0 {
		t.SetCursor(0)
	}
}

func (m *Model) resize() {
	height := m.height - 12
	if height < 5 {
		height = 5
	}
	m.invitesTable.SetHeight(height)
	m.invitesTable.SetColumns(inviteColumns(m.width))
	m.adminsTable.SetHeight(height)
	m.adminsTable.SetColumns(adminColumns(m.width))
	m.help.Width = m.width
}

func (m *Model) applyTheme() {
	m.invitesTable.SetStyles(m.theme.Table)
	m.adminsTable.SetStyles(m.theme.Table)
	m.spinner.Style = m.theme.Focused
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice = text
	m.noticeFailed = failed
}

// currentRow is the invite under the table cursor.
func (m Model) currentRow() (invites.Row, bool) {
	i := m.invitesTable.Cursor()
	if i < 0 || i >= len(m.rows) {
		return invites.Row{}, false
	}
	return m.rows[i], true
}

func (m Model) currentAdmin() (string, bool) {
	row := m.adminsTable.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

func (m Model) busy() bool {
	return m.console.Snapshot().Loading
}

// run executes fn off the event loop and reports back with an actionMsg.
func (m Model) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		notice, err := fn(ctx)
		return actionMsg{notice: notice, err: err}
	}
}

func waitForConfirm(ch <-chan confirmRequest) tea.Cmd {
	return func() tea.Msg {
		return confirmMsg{req: <-ch}
	}
}

func waitForHandles(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return handlesResolvedMsg{}
	}
}

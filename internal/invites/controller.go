// Package invites holds the operator's view of the invite codes: the latest
// snapshot from the server, the active filter and search, the selection,
// resolved handles for the accounts that used each code, and exports.
package invites

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	contract "invitedesk/contracts/invites"
	"invitedesk/internal/display"
	dErrors "invitedesk/pkg/domain-errors"
)

// Fallback messages shown when the server gives none.
const (
	FallbackFetch   = "Failed to fetch invites"
	FallbackCreate  = "Failed to create invites"
	FallbackDisable = "Failed to disable invite"

	MsgCountRequired = "Please enter a number of codes to create."
)

// API is the part of the invite manager API the controller uses.
type API interface {
	ListInvites(ctx context.Context) (*contract.InviteCodesResponse, error)
	CreateInvites(ctx context.Context, count int) error
	DisableInvite(ctx context.Context, code string) error
}

// Runner executes operator actions under the session's loading and error
// policy. *session.Machine satisfies it.
type Runner interface {
	Do(ctx context.Context, fallback string, fn func(ctx context.Context) error) error
	Fail(msg string)
}

// Row is one line of the invite table.
type Row struct {
	Code        string
	Status      Status
	CreatedAt   string
	UsedBy      string
	UsedAt      string
	Disableable bool
}

// Config configures a Controller.
type Config struct {
	API       API
	Runner    Runner
	Resolver  *Resolver
	Formatter display.Formatter
	Logger    *slog.Logger
}

// Controller is safe for concurrent use.
type Controller struct {
	api      API
	runner   Runner
	resolver *Resolver
	format   display.Formatter
	logger   *slog.Logger

	mu       sync.RWMutex
	codes    []contract.InviteCode
	cursor   string
	filter   Filter
	search   string
	selected map[string]struct{}
}

func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Formatter.Location == nil {
		cfg.Formatter = display.Local
	}
	return &Controller{
		api:      cfg.API,
		runner:   cfg.Runner,
		resolver: cfg.Resolver,
		format:   cfg.Formatter,
		logger:   cfg.Logger,
		filter:   FilterAll,
		selected: make(map[string]struct{}),
	}
}

// Refresh replaces the snapshot with the server's list and starts handle
// resolution for it in the background.
func (c *Controller) Refresh(ctx context.Context) error {
	var resp *contract.InviteCodesResponse
	err := c.runner.Do(ctx, FallbackFetch, func(ctx context.Context) error {
		var err error
		resp, err = c.api.ListInvites(ctx)
		return err
	})
	if err != nil {
		return err
	}

	codes := slices.Clone(resp.Codes)
	c.mu.Lock()
	c.codes = codes
	c.cursor = resp.Cursor
	c.pruneSelectionLocked()
	c.mu.Unlock()
	c.logger.DebugContext(ctx, "invite snapshot replaced", "codes", len(codes))

	if c.resolver != nil {
		dids := make([]string, 0, len(codes))
		for _, code := range codes {
			if use, ok := firstUse(code); ok {
				dids = append(dids, use.UsedBy)
			}
		}
		c.resolver.Resolve(ctx, dids)
	}
	return nil
}

// Create asks the server for count new single-use codes, then refreshes.
func (c *Controller) Create(ctx context.Context, count int) error {
	if count < 1 {
		c.runner.Fail(MsgCountRequired)
		return dErrors.New(dErrors.CodeValidation, MsgCountRequired)
	}
	err := c.runner.Do(ctx, FallbackCreate, func(ctx context.Context) error {
		return c.api.CreateInvites(ctx, count)
	})
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "invite codes created", "count", count)
	return c.Refresh(ctx)
}

// Disable disables code, then refreshes.
func (c *Controller) Disable(ctx context.Context, code string) error {
	err := c.runner.Do(ctx, FallbackDisable, func(ctx context.Context) error {
		return c.api.DisableInvite(ctx, code)
	})
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "invite code disabled", "code", code)
	return c.Refresh(ctx)
}

// SetFilter changes the status filter and clears the selection.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f == "" {
		f = FilterAll
	}
	c.filter = f
	clear(c.selected)
}

func (c *Controller) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// SetSearch sets the case-insensitive search term matched against codes and
// the accounts that used them. It clears the selection.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = strings.TrimSpace(term)
	clear(c.selected)
}

func (c *Controller) Search() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search
}

// Cursor is the pagination cursor of the last fetch. It is not followed.
func (c *Controller) Cursor() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursor
}

// Codes returns a copy of the full snapshot in server order.
func (c *Controller) Codes() []contract.InviteCode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.codes)
}

// View returns the rows passing the filter and search, in snapshot order.
func (c *Controller) View() []Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	visible := c.visibleLocked()
	rows := make([]Row, 0, len(visible))
	for _, code := range visible {
		rows = append(rows, c.row(code))
	}
	return rows
}

func (c *Controller) visibleLocked() []contract.InviteCode {
	term := strings.ToLower(c.search)
	var out []contract.InviteCode
	for _, code := range c.codes {
		if !c.filter.Matches(DeriveStatus(code)) {
			continue
		}
		if term != "" && !matches(code, term) {
			continue
		}
		out = append(out, code)
	}
	return out
}

func matches(code contract.InviteCode, term string) bool {
	if strings.Contains(strings.ToLower(code.Code), term) {
		return true
	}
	for _, use := range code.Uses {
		if strings.Contains(strings.ToLower(use.UsedBy), term) {
			return true
		}
	}
	return false
}

func (c *Controller) row(code contract.InviteCode) Row {
	status := DeriveStatus(code)
	r := Row{
		Code:        code.Code,
		Status:      status,
		CreatedAt:   c.format.FormatDate(code.CreatedAt),
		UsedBy:      display.Missing,
		UsedAt:      display.Missing,
		Disableable: status == StatusUnused,
	}
	if use, ok := firstUse(code); ok {
		r.UsedBy = c.usedBy(use.UsedBy)
		r.UsedAt = c.format.FormatDate(use.UsedAt)
	}
	return r
}

func (c *Controller) usedBy(id string) string {
	if id == "" {
		return display.Missing
	}
	if c.resolver != nil {
		if handle, ok := c.resolver.Lookup(id); ok && handle != "" {
			return handle
		}
	}
	return id
}

// Toggle flips the selection of code. Codes outside the view are ignored.
func (c *Controller) Toggle(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[code]; ok {
		delete(c.selected, code)
		return
	}
	for _, v := range c.visibleLocked() {
		if v.Code == code {
			c.selected[code] = struct{}{}
			return
		}
	}
}

// SelectAll selects every code in the view.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.visibleLocked() {
		c.selected[v.Code] = struct{}{}
	}
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.selected)
}

// Selected returns the selected codes in view order.
func (c *Controller) Selected() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, v := range c.visibleLocked() {
		if _, ok := c.selected[v.Code]; ok {
			out = append(out, v.Code)
		}
	}
	return out
}

// IsSelected reports whether code is selected.
func (c *Controller) IsSelected(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.selected[code]
	return ok
}

func (c *Controller) pruneSelectionLocked() {
	present := make(map[string]struct{}, len(c.codes))
	for _, code := range c.codes {
		present[code.Code] = struct{}{}
	}
	for code := range c.selected {
		if _, ok := present[code]; !ok {
			delete(c.selected, code)
		}
	}
}

// Package admins manages the administrator list shown on the Admins screen.
package admins

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
)

const (
	FallbackFetch  = "Failed to fetch admins"
	FallbackAdd    = "Failed to add admin"
	FallbackRemove = "Failed to remove admin"

	MsgUsernameRequired = "Username is required"
)

// API is the part of the invite manager API the controller uses.
type API interface {
	ListAdmins(ctx context.Context) (*contract.AdminsResponse, error)
	AddAdmin(ctx context.Context, username string) (*contract.AddAdminResponse, error)
	RemoveAdmin(ctx context.Context, username string) error
}

// Runner executes operator actions under the session's loading and error
// policy. *session.Machine satisfies it.
type Runner interface {
	Do(ctx context.Context, fallback string, fn func(ctx context.Context) error) error
	Fail(msg string)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// RemovePrompt is the question asked before removing username.
func RemovePrompt(username string) string {
	return fmt.Sprintf("Are you sure you want to remove %s as an admin?", username)
}

// Controller is safe for concurrent use.
type Controller struct {
	api    API
	runner Runner
	logger *slog.Logger

	mu          sync.RWMutex
	admins      []contract.Admin
	newPassword string
}

func New(api API, runner Runner, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{api: api, runner: runner, logger: logger}
}

// Refresh replaces the list with the server's.
func (c *Controller) Refresh(ctx context.Context) error {
	var resp *contract.AdminsResponse
	err := c.runner.Do(ctx, FallbackFetch, func(ctx context.Context) error {
		var err error
		resp, err = c.api.ListAdmins(ctx)
		return err
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.admins = slices.Clone(resp.Admins)
	c.mu.Unlock()
	return nil
}

// Add creates an administrator and keeps the one-time password the server
// returns until ClearTransient.
func (c *Controller) Add(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		c.runner.Fail(MsgUsernameRequired)
		return dErrors.New(dErrors.CodeValidation, MsgUsernameRequired)
	}

	c.mu.Lock()
	c.newPassword = ""
	c.mu.Unlock()

	var resp *contract.AddAdminResponse
	err := c.runner.Do(ctx, FallbackAdd, func(ctx context.Context) error {
		var err error
		resp, err = c.api.AddAdmin(ctx, username)
		return err
	})
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "admin added", "username", username)
	if resp.Password != "" {
		c.mu.Lock()
		c.newPassword = resp.Password
		c.mu.Unlock()
	}
	return c.Refresh(ctx)
}

// Remove deletes username after the operator confirms. A declined prompt is
// not an error.
func (c *Controller) Remove(ctx context.Context, username string, confirm Confirmer) error {
	ok, err := confirm.Confirm(ctx, RemovePrompt(username))
	if err != nil {
		return fmt.Errorf("confirm removal: %w", err)
	}
	if !ok {
		return nil
	}
	err = c.runner.Do(ctx, FallbackRemove, func(ctx context.Context) error {
		return c.api.RemoveAdmin(ctx, username)
	})
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "admin removed", "username", username)
	return c.Refresh(ctx)
}

// Admins returns a copy of the list in server order.
func (c *Controller) Admins() []contract.Admin {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.admins)
}

// NewPassword is the one-time password of the last added admin, if any.
func (c *Controller) NewPassword() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.newPassword
}

// ClearTransient forgets the one-time password.
func (c *Controller) ClearTransient() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newPassword = ""
}

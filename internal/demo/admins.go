package demo

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/middleware/requesttime"
)

const (
	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	passwordLength   = 16
)

func (b *Backend) ListAdmins(ctx context.Context, bearer string) (*contract.AdminsResponse, error) {
	if _, err := b.Authenticate(ctx, bearer); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	admins := make([]contract.Admin, 0, len(b.adminOrder))
	for _, name := range b.adminOrder {
		a := b.admins[name]
		admins = append(admins, contract.Admin{
			Username:  a.username,
			CreatedAt: a.createdAt.Format(timestampLayout),
		})
	}
	return &contract.AdminsResponse{Admins: admins}, nil
}

// AddAdmin creates an admin with a generated password, returned once.
func (b *Backend) AddAdmin(ctx context.Context, bearer string, req contract.AddAdminRequest) (*contract.AddAdminResponse, error) {
	actor, err := b.Authenticate(ctx, bearer)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username is required")
	}
	password, err := newPassword()
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.admins[username]; exists {
		return nil, dErrors.New(dErrors.CodeConflict, "Admin already exists")
	}
	if _, err := b.addAdminLocked(username, password, requesttime.Now(ctx).UTC()); err != nil {
		return nil, err
	}
	b.metrics.IncrementAdminsAdded()
	b.logger.InfoContext(ctx, "admin added", "username", username, "added_by", actor)
	return &contract.AddAdminResponse{
		Status:   "success",
		Message:  fmt.Sprintf("Admin %s added", username),
		Password: password,
	}, nil
}

// RemoveAdmin deletes username. Admins cannot remove themselves.
func (b *Backend) RemoveAdmin(ctx context.Context, bearer, username string) (*contract.Ack, error) {
	actor, err := b.Authenticate(ctx, bearer)
	if err != nil {
		return nil, err
	}
	if username == actor {
		return nil, dErrors.New(dErrors.CodeBadRequest, "You cannot remove yourself")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.admins[username]; !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "Admin not found")
	}
	delete(b.admins, username)
	b.adminOrder = slices.DeleteFunc(b.adminOrder, func(n string) bool { return n == username })

	b.metrics.IncrementAdminsRemoved()
	b.logger.InfoContext(ctx, "admin removed", "username", username, "removed_by", actor)
	return &contract.Ack{Status: "success", Message: fmt.Sprintf("Admin %s removed", username)}, nil
}

func (b *Backend) addAdminLocked(username, password string, createdAt time.Time) (*adminRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	rec := &adminRecord{username: username, passwordHash: hash, createdAt: createdAt}
	b.admins[username] = rec
	b.adminOrder = append(b.adminOrder, username)
	return rec, nil
}

func newPassword() (string, error) {
	buf := make([]byte, passwordLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	for i, v := range buf {
		buf[i] = passwordAlphabet[int(v)%len(passwordAlphabet)]
	}
	return string(buf), nil
}

package demo

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"strings"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/middleware/requesttime"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz234567"

// ListInvites returns every code, newest first.
func (b *Backend) ListInvites(ctx context.Context, bearer string) (*contract.InviteCodesResponse, error) {
	if _, err := b.Authenticate(ctx, bearer); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	codes := make([]contract.InviteCode, len(b.invites))
	for i, c := range b.invites {
		codes[i] = cloneInvite(c)
	}
	return &contract.InviteCodesResponse{Codes: codes}, nil
}

// CreateInvites mints req.CodeCount codes with req.UseCount uses each.
func (b *Backend) CreateInvites(ctx context.Context, bearer string, req contract.CreateInviteCodesRequest) (*contract.Ack, error) {
	username, err := b.Authenticate(ctx, bearer)
	if err != nil {
		return nil, err
	}
	if req.CodeCount < 1 || req.CodeCount > maxCodesPerRequest {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("codeCount must be between 1 and %d", maxCodesPerRequest))
	}
	if req.UseCount < 1 {
		req.UseCount = 1
	}

	createdAt := requesttime.Now(ctx).UTC().Format(timestampLayout)
	fresh := make([]contract.InviteCode, 0, req.CodeCount)
	for range req.CodeCount {
		code, err := newInviteCode()
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, contract.InviteCode{
			Code:       code,
			Available:  req.UseCount,
			ForAccount: "admin",
			CreatedBy:  username,
			CreatedAt:  createdAt,
			Uses:       []contract.InviteUse{},
		})
	}

	b.mu.Lock()
	b.invites = append(fresh, b.invites...)
	b.mu.Unlock()

	b.metrics.AddInvitesCreated(req.CodeCount)
	b.logger.InfoContext(ctx, "invite codes created", "count", req.CodeCount, "created_by", username)
	return &contract.Ack{Status: "success", Message: fmt.Sprintf("Created %d codes", req.CodeCount)}, nil
}

// DisableInvite marks code disabled. Disabling twice is not an error.
func (b *Backend) DisableInvite(ctx context.Context, bearer string, req contract.DisableInviteCodeRequest) (*contract.Ack, error) {
	username, err := b.Authenticate(ctx, bearer)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "code is required")
	}

	b.mu.Lock()
	idx := slices.IndexFunc(b.invites, func(c contract.InviteCode) bool { return c.Code == code })
	if idx < 0 {
		b.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeNotFound, "Invite code not found")
	}
	already := b.invites[idx].Disabled
	b.invites[idx].Disabled = true
	b.mu.Unlock()

	if !already {
		b.metrics.IncrementInvitesDisabled()
		b.logger.InfoContext(ctx, "invite code disabled", "code", code, "disabled_by", username)
	}
	return &contract.Ack{Status: "success", Message: "Disabled code " + code}, nil
}

// newInviteCode returns a code shaped like "demo-abcde-fghij".
func newInviteCode() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	for i, v := range buf {
		buf[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return "demo-" + string(buf[:5]) + "-" + string(buf[5:]), nil
}

func cloneInvite(c contract.InviteCode) contract.InviteCode {
	c.Uses = slices.Clone(c.Uses)
	if c.Uses == nil {
		c.Uses = []contract.InviteUse{}
	}
	return c
}

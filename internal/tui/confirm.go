package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"invitedesk/internal/admins"
)

type confirmRequest struct {
	prompt string
	reply  chan bool
}

// confirmer bridges admins.Confirmer onto the event loop: the asking
// goroutine blocks until the operator answers the modal.
func (m Model) confirmer() admins.Confirmer {
	requests := m.confirms
	return admins.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
		select {
		case requests <- req:
		case <-ctx.Done():
			return false, ctx.Err()
		}
		select {
		case ok := <-req.reply:
			return ok, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	})
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.answerPending(true)
	case key.Matches(msg, m.keys.No):
		m.answerPending(false)
	}
	return m, nil
}

func (m *Model) answerPending(ok bool) {
	if m.pending == nil {
		return
	}
	m.pending.reply <- ok
	m.pending = nil
}

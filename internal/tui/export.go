package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// exportFile writes one export to name under the export directory.
func (m Model) exportFile(name string, write func(io.Writer) error) tea.Cmd {
	path := filepath.Join(m.exportDir, name)
	logger := m.logger
	ctx := m.ctx
	return func() tea.Msg {
		if err := writeFile(path, write); err != nil {
			logger.ErrorContext(ctx, "export failed", "path", path, "error", err)
			return noticeMsg{text: "Export failed: " + err.Error(), failed: true}
		}
		logger.InfoContext(ctx, "export written", "path", path)
		return noticeMsg{text: "Exported " + path}
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export: %w", cerr)
		}
	}()
	return write(f)
}

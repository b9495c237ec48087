package tui

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// copyToClipboard writes text to the system clipboard with the OSC 52
// escape sequence, straight to /dev/tty so it bypasses the renderer. Inside
// tmux the sequence is also sent through DCS passthrough.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			return noticeMsg{text: "Clipboard unavailable"}
		}
		defer tty.Close()

		osc52 := fmt.Sprintf("\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(text)))
		if os.Getenv("TMUX") != "" || strings.HasPrefix(os.Getenv("TERM"), "tmux") {
			escaped := strings.ReplaceAll(osc52, "\x1b", "\x1b\x1b")
			_, _ = fmt.Fprintf(tty, "\x1bPtmux;%s\x1b\\", escaped)
		}
		_, _ = tty.WriteString(osc52)
		return noticeMsg{text: "Copied to clipboard"}
	}
}

package invites

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var csvHeader = []string{"Invite Code", "Status", "Created At", "Used By", "Used At"}

// ExportCSV writes the current view as CSV. The header is bare; every value
// is double-quoted with inner quotes doubled. Rows are separated by "\n"
// with no trailing newline.
func (c *Controller) ExportCSV(w io.Writer) error {
	rows := c.View()
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, r := range rows {
		lines = append(lines, quoteAll(r.Code, string(r.Status), r.CreatedAt, r.UsedBy, r.UsedAt))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func quoteAll(values ...string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// ExportFilename names a CSV export taken at t.
func ExportFilename(t time.Time) string {
	return "invites_" + t.Format("20060102_150405") + ".csv"
}

// CodesFilename names a plain-text code export taken at t.
func CodesFilename(t time.Time) string {
	return "invite_codes_" + t.Format("20060102_150405") + ".txt"
}

// ExportCodes writes the first n codes of the snapshot, one per line. n <= 0
// exports all of them.
func (c *Controller) ExportCodes(w io.Writer, n int) error {
	codes := c.Codes()
	if n > 0 && n < len(codes) {
		codes = codes[:n]
	}
	list := make([]string, len(codes))
	for i, code := range codes {
		list[i] = code.Code
	}
	return writeLines(w, list)
}

// ExportSelection writes the selected codes in view order, one per line.
func (c *Controller) ExportSelection(w io.Writer) error {
	return writeLines(w, c.Selected())
}

func writeLines(w io.Writer, lines []string) error {
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write codes: %w", err)
	}
	return nil
}

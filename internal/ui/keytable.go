package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/km/internal/sshkey"
	"github.com/rileyhilliard/km/internal/util"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-interactive Bubbles table with km's styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(string(ColorMuted))).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Cell = s.Cell.
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Background(lipgloss.Color(string(ColorMuted))).
		Bold(false)

	t.SetStyles(s)
	return t
}

// keyTableColumns is the layout for 'km list'.
var keyTableColumns = []TableColumn{
	{Title: "NAME", Width: 24},
	{Title: "TYPE", Width: 10},
	{Title: "FINGERPRINT", Width: 50},
	{Title: "COMMENT", Width: 26},
	{Title: "MODIFIED", Width: 12},
}

// RenderKeyTable renders the key listing as a formatted table.
func RenderKeyTable(records []sshkey.KeyRecord) string {
	if len(records) == 0 {
		return ""
	}

	rows := make([]table.Row, len(records))
	for i, rec := range records {
		rows[i] = table.Row{
			rec.Name(),
			keyTypeCell(rec),
			util.Truncate(rec.Fingerprint, 50),
			util.Truncate(rec.Comment, 26),
			relativeTime(rec.LastModified),
		}
	}

	return NewTable(keyTableColumns, rows).View()
}

// keyTypeCell renders the algorithm with its size when one applies.
func keyTypeCell(rec sshkey.KeyRecord) string {
	if rec.BitSize > 0 {
		return fmt.Sprintf("%s %d", rec.Type.Display(), rec.BitSize)
	}
	return rec.Type.Display()
}

// relativeTime renders a modification time the way humans scan a
// listing: recent keys in hours, old keys by date.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

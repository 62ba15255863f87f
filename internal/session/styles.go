package session

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	green   = lipgloss.Color("#10B981")
	red     = lipgloss.Color("#EF4444")
	dimGray = lipgloss.Color("#6B7280")
	accent  = lipgloss.Color("#E5A00D")
)

// styles are bound to the session's output so color is only emitted to a tty
type styles struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Error    lipgloss.Style
	Key      lipgloss.Style
	Title    lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		Active:   r.NewStyle().Foreground(green),
		Inactive: r.NewStyle().Foreground(dimGray),
		Error:    r.NewStyle().Foreground(red),
		Key:      r.NewStyle().Foreground(accent).Bold(true),
		Title:    r.NewStyle().Bold(true),
	}
}

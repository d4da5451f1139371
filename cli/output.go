package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

type printer struct {
	w io.Writer
}

func (p printer) success(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", warningStyle.Render("⚠"), fmt.Sprintf(format, args...))
}

func (p printer) fail(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", errorStyle.Render("✗"), fmt.Sprintf(format, args...))
}

func (p printer) info(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", infoStyle.Render("ℹ"), fmt.Sprintf(format, args...))
}

func (p printer) muted(format string, args ...interface{}) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) section(title string) {
	fmt.Fprintln(p.w, primaryStyle.Render(title))
}

// field prints an aligned "label value" row.
func (p printer) field(label string, value interface{}) {
	fmt.Fprintf(p.w, "  %s %v\n", labelStyle.Render(label), value)
}

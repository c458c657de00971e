package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"})

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"}).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#5C5C5C"})

	paragraphStyle = lipgloss.NewStyle().
			Margin(1, 2, 0, 2)
)

func keyword(s string) string {
	return keywordStyle.Render(s)
}

func label(s string) string {
	return labelStyle.Render(s)
}

func subtle(s string) string {
	return subtleStyle.Render(s)
}

// paragraph wraps long help text at the terminal width, capped the way the
// rest of the output is.
func paragraph(s string) string {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	return paragraphStyle.Width(width - 4).Render(s)
}

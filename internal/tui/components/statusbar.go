package components

import (
	"strings"

	"github.com/finsight/finsight/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the
// left, ledger load info on the right.
func RenderStatusBar(width int, loadInfo string, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [r]efresh  [q]uit"
	right := ""
	switch {
	case refreshing:
		right = "refreshing… "
	case loadInfo != "":
		right = "Ledger: " + loadInfo + " "
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}

	return style.Render(left + strings.Repeat(" ", pad) + right)
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func title(s string) string { return titleStyle.Render(s) }

// kv renders an aligned label/value line.
func kv(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

func status(ok bool, msg string) string {
	if ok {
		return goodStyle.Render(msg)
	}
	return warnStyle.Render(msg)
}

// panel joins lines into a bordered block.
func panel(heading string, lines ...string) string {
	body := strings.Join(lines, "\n")
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title(heading), body))
}

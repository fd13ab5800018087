package terminal

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	status  lipgloss.Style
	detail  lipgloss.Style
	self    lipgloss.Style
	remote  lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	prompt  lipgloss.Style
	nav     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		self:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		remote:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		nav:     lipgloss.NewStyle().Faint(true),
	}
}

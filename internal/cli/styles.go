package cli

import (
	"github.com/KirkDiggler/aura/internal/services/account"
	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	chipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	faintStyle   = lipgloss.NewStyle().Faint(true)

	strengthStyles = map[account.StrengthLabel]lipgloss.Style{
		account.StrengthWeak:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		account.StrengthFair:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		account.StrengthGood:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		account.StrengthStrong: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
	}
)

package main

import "github.com/charmbracelet/lipgloss"

var (
	subtle       = theme.TextMuted
	highlight    = theme.Accent
	panelBorder  = theme.Border
	panelBg      = theme.Surface
	accentPink   = theme.AccentPink
	accentCyan   = theme.AccentCyan
	accentOrange = theme.AccentOrange
	accentGreen  = theme.AccentGreen
	accentBlue   = theme.AccentBlue
	danger       = theme.Danger
	textStrong   = theme.TextStrong
	textOnAccent = theme.TextOnAccent

	// Header pills
	metaPillStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1).
			Bold(true).
			Align(lipgloss.Center)

	metaMutedPillStyle = metaPillStyle.Copy().
				Foreground(subtle).
				BorderForeground(panelBorder)

	metaViewPillStyle = metaPillStyle.Copy().
				Foreground(accentBlue)

	metaAlertPillStyle = metaPillStyle.Copy().
				Background(accentPink).
				Foreground(textOnAccent).
				BorderForeground(accentPink)

	filterBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Background(panelBg).
			Padding(0, 1)

	filterHintStyle = lipgloss.NewStyle().
			Foreground(subtle)

	// Table chrome
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(subtle).
				Bold(true)

	focusedHeaderStyle = lipgloss.NewStyle().
				Foreground(danger).
				Bold(true)

	scrollInfoStyle = lipgloss.NewStyle().
			Foreground(subtle)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(subtle).
				Italic(true)

	// Row styles per job state
	runningRowStyle = lipgloss.NewStyle().Foreground(accentGreen)
	pendingRowStyle = lipgloss.NewStyle().Foreground(accentOrange)
	normalRowStyle  = lipgloss.NewStyle().Foreground(textStrong)

	// Overview
	overviewHeadingStyle = lipgloss.NewStyle().
				Foreground(accentCyan).
				Bold(true)

	overviewTotalStyle = lipgloss.NewStyle().
				Foreground(danger).
				Bold(true)
)

// rowStyleFor picks the row color by job state: running green, pending
// orange, everything else plain.
func rowStyleFor(j Job) lipgloss.Style {
	switch {
	case j.IsRunning():
		return runningRowStyle
	case j.IsPending():
		return pendingRowStyle
	default:
		return normalRowStyle
	}
}

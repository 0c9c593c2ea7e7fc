package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/okian/pactum/internal/domain/risk"
)

// Severity palette shared by badges and counters.
var (
	colorHigh   = lipgloss.Color("#DC2626")
	colorMedium = lipgloss.Color("#D97706")
	colorLow    = lipgloss.Color("#2563EB")
	colorMuted  = lipgloss.Color("#6B7280")
	colorWarn   = lipgloss.Color("#FFC107")
)

// Styles groups the lipgloss styles used by the viewer.
type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
	badge    lipgloss.Style
}

// DefaultStyles returns the viewer styles.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Warning:  lipgloss.NewStyle().Foreground(colorWarn),
		Selected: lipgloss.NewStyle().Bold(true).Underline(true),
		Help:     lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
		badge:    lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")),
	}
}

// SeverityColor returns the palette color of a tier.
func SeverityColor(s risk.Severity) lipgloss.Color {
	switch s {
	case risk.SeverityHigh:
		return colorHigh
	case risk.SeverityMedium:
		return colorMedium
	default:
		return colorLow
	}
}

// Badge renders the Portuguese tier label on the tier color.
func (s Styles) Badge(sev risk.Severity) string {
	return s.badge.Background(SeverityColor(sev)).Render(sev.Label())
}

// Count renders a tier counter in the tier color.
func (s Styles) Count(sev risk.Severity, n int) string {
	return lipgloss.NewStyle().Foreground(SeverityColor(sev)).Bold(true).Render(sev.Label()) +
		" " + lipgloss.NewStyle().Bold(true).Render(itoa(n))
}

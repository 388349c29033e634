package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles and glyphs used by the arrangement view.
type Theme struct {
	Title    lipgloss.Style
	Track    lipgloss.Style
	Segment  lipgloss.Style
	Selected lipgloss.Style
	Gap      lipgloss.Style
	Playhead lipgloss.Style
	Help     lipgloss.Style

	Symbols Symbols
}

// Symbols are the glyphs for the timeline cells.
type Symbols struct {
	Segment  rune // ■ pattern sounding
	Selected rune // ◆ selected segment
	Gap      rune // · empty timeline
	Playhead rune // ▶ current position
}

// New returns the default theme.
func New() *Theme {
	return &Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Track:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Segment:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		Gap:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Playhead: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("242")),

		Symbols: Symbols{
			Segment:  '■',
			Selected: '◆',
			Gap:      '·',
			Playhead: '▶',
		},
	}
}

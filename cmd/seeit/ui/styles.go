// Package ui renders the interactive puzzle board. It is a pure rendering
// collaborator: all grid state lives in the puzzle state machine, and user
// gestures are forwarded as state machine operations.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/liuharry07/Connections-See-It/internal/puzzle"
)

// Connections group palette.
var (
	ColorYellow = lipgloss.Color("#F9DF6D")
	ColorGreen  = lipgloss.Color("#A0C35A")
	ColorBlue   = lipgloss.Color("#B0C4EF")
	ColorPurple = lipgloss.Color("#BA81C5")

	ColorTile   = lipgloss.Color("#EFEFE6")
	ColorInk    = lipgloss.Color("#121212")
	ColorFaint  = lipgloss.Color("#7A7A7A")
	ColorDanger = lipgloss.Color("#E53935")
)

// RowColor maps a puzzle color to its lipgloss color.
func RowColor(c puzzle.Color) lipgloss.Color {
	switch c {
	case puzzle.Yellow:
		return ColorYellow
	case puzzle.Green:
		return ColorGreen
	case puzzle.Blue:
		return ColorBlue
	case puzzle.Purple:
		return ColorPurple
	default:
		return ColorTile
	}
}

// Styles holds the board's lipgloss styles.
type Styles struct {
	Tile     lipgloss.Style
	Locked   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Title    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the board styles.
func DefaultStyles() Styles {
	tile := lipgloss.NewStyle().
		Width(12).
		Align(lipgloss.Center).
		Padding(0, 1).
		Margin(0, 1).
		Foreground(ColorInk).
		Background(ColorTile)

	return Styles{
		Tile:     tile,
		Locked:   tile, // background set per row color at render time
		Cursor:   tile.Border(lipgloss.ThickBorder()).Margin(0, 0),
		Selected: tile.Bold(true).Underline(true),
		Title:    lipgloss.NewStyle().Bold(true).Margin(1, 0, 0, 2),
		Status:   lipgloss.NewStyle().Foreground(ColorFaint).Margin(1, 0, 0, 2),
		Error:    lipgloss.NewStyle().Foreground(ColorDanger).Bold(true).Margin(1, 2),
	}
}

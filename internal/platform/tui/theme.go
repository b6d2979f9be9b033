package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sleepwalk/internal/core"
	"github.com/vovakirdan/sleepwalk/internal/level"
)

// Theme contains the configurable visual styles outside the board grid.
type Theme struct {
	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style
	Notice       lipgloss.Style
	Record       lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuHeader      lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Notice:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Italic(true),
		Record:       lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("141")).
			Padding(1, 3),
		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true),
		MenuHeader:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// wallColor picks the wall color for a level theme.
func wallColor(t level.Theme) core.Color {
	switch t {
	case level.ThemeForest:
		return core.ColorGreen
	case level.ThemeIce:
		return core.ColorBrightCyan
	case level.ThemeUnderwater:
		return core.ColorBlue
	case level.ThemeVolcano:
		return core.ColorRed
	case level.ThemeSpace:
		return core.ColorMagenta
	default:
		return core.ColorWhite
	}
}

// floorRune picks the floor glyph for a level theme.
func floorRune(t level.Theme) rune {
	switch t {
	case level.ThemeIce:
		return ':'
	case level.ThemeUnderwater:
		return ','
	case level.ThemeSpace:
		return ' '
	default:
		return '.'
	}
}

package core

import "strings"

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the board renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// ParseColor maps a lowercase color name to a palette entry.
// Door and key colors in level files use these names.
func ParseColor(name string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return ColorBrightRed, true
	case "green":
		return ColorBrightGreen, true
	case "yellow":
		return ColorBrightYellow, true
	case "blue":
		return ColorBrightBlue, true
	case "purple", "magenta":
		return ColorBrightMagenta, true
	case "cyan":
		return ColorBrightCyan, true
	case "orange":
		return ColorOrange, true
	case "white":
		return ColorBrightWhite, true
	default:
		return ColorDefault, false
	}
}

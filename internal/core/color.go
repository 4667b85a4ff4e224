package core

// Color is a foreground color for a screen cell, kept as a small enum so
// the platform layer can map it to whatever the terminal supports.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

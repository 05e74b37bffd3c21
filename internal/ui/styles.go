// Package ui renders CLI output, with ANSI 256 colors when the terminal
// supports them.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
	colorOK     = 114 // green
	colorFail   = 203 // red
)

var noColor bool

func paint(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderID returns a movie or subscription id in the muted color.
func RenderID(s string) string {
	return paint(colorMuted, s)
}

// RenderTitle returns a movie title in the accent color.
func RenderTitle(s string) string {
	return paint(colorAccent, s)
}

// RenderStatus colors a health status green when healthy and red otherwise.
func RenderStatus(status string, healthy bool) string {
	if healthy {
		return paint(colorOK, status)
	}
	return paint(colorFail, status)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

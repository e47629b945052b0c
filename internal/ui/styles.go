// Package ui holds terminal styling helpers for CLI output.
package ui

import (
	"fmt"
	"strconv"
)

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // gray
	colorOK     = 114 // green
	colorWarn   = 179 // yellow
	colorFail   = 167 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderStatus renders an HTTP status code colored by class.
func RenderStatus(code int) string {
	s := strconv.Itoa(code)
	switch {
	case code >= 500:
		return paint(colorFail, s)
	case code >= 400:
		return paint(colorWarn, s)
	default:
		return paint(colorOK, s)
	}
}

// RenderMethod renders an HTTP method padded to a fixed width so routes line up.
func RenderMethod(method string) string {
	padded := fmt.Sprintf("%-6s", method)
	switch method {
	case "GET":
		return paint(colorOK, padded)
	case "DELETE":
		return paint(colorFail, padded)
	default:
		return paint(colorAccent, padded)
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() { SetColor(false) }

// SetColor turns color output on or off globally.
func SetColor(enabled bool) { noColor = !enabled }

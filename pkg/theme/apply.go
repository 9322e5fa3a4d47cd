package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Status colours text by refresh status: "ok", "sync", "error"; anything
// else renders dimmed.
func Status(text, status string, t Theme) string {
	var color string
	switch strings.ToLower(status) {
	case "ok", "ready", "live":
		color = t.StatusOK
	case "sync", "syncing", "refreshing", "loading":
		color = t.StatusSync
	case "error", "err", "failed":
		color = t.StatusError
	default:
		color = t.Dim
	}
	return Colorize(text, color)
}

// Colorize wraps text in an ANSI foreground sequence. color may be a hex
// value (true colour) or a palette index as produced by Adapt. Empty or
// invalid colours leave text unchanged.
func Colorize(text, color string) string {
	if color == "" {
		return text
	}
	if r, g, b, ok := parseHex(color); ok {
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, text)
	}
	idx, err := strconv.Atoi(color)
	if err != nil || idx < 0 || idx > 255 {
		return text
	}
	if idx < 8 {
		return fmt.Sprintf("\x1b[%dm%s\x1b[0m", 30+idx, text)
	}
	if idx < 16 {
		return fmt.Sprintf("\x1b[%dm%s\x1b[0m", 90+idx-8, text)
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", idx, text)
}

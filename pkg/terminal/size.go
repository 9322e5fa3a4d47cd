package terminal

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// Default dimensions used when neither the descriptor nor the environment
// reports a size.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Size is the terminal size in character cells.
type Size struct {
	Cols int
	Rows int
}

// GetSize returns the size of the terminal on fd. It falls back to the
// COLUMNS and LINES environment variables and then to 80x24.
func GetSize(fd uintptr) Size {
	if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
		return Size{Cols: w, Rows: h}
	}
	return sizeFromEnv()
}

func sizeFromEnv() Size {
	return Size{
		Cols: envInt("COLUMNS", DefaultCols),
		Rows: envInt("LINES", DefaultRows),
	}
}

// envInt reads a positive integer from the named environment variable,
// returning fallback when it is unset or invalid.
func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

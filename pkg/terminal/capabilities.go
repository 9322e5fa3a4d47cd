package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities summarises what the kiosk can use on one output.
type Capabilities struct {
	Term        Terminal
	Interactive bool            // output is a terminal, not a pipe or file
	Profile     termenv.Profile // colour depth the output supports
	Size        Size
	SSH         bool
	Mux         bool // inside tmux or screen
}

// DetectCapabilities inspects out. A non-interactive output always reports
// termenv.Ascii so piped snapshots carry no escape sequences unless
// CLICOLOR_FORCE asks for them.
func DetectCapabilities(out *os.File) Capabilities {
	fd := out.Fd()
	interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	return Capabilities{
		Term:        Detect(),
		Interactive: interactive,
		Profile:     termenv.NewOutput(out).EnvColorProfile(),
		Size:        GetSize(fd),
		SSH:         isSSH(),
		Mux:         os.Getenv("TMUX") != "" || os.Getenv("STY") != "",
	}
}

// ProfileName returns a short name for p.
func ProfileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}

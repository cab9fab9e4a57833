package output

import (
	"os"

	"golang.org/x/term"
)

// ColorSupportedFor decides whether f should get colored output.
// NO_COLOR (https://no-color.org/) wins over FORCE_COLOR; otherwise f must be
// a terminal and TERM must not be dumb.
func ColorSupportedFor(f *os.File, lookupEnv func(string) (string, bool)) bool {
	if _, exists := lookupEnv("NO_COLOR"); exists {
		return false
	}
	if _, exists := lookupEnv("FORCE_COLOR"); exists {
		return true
	}
	if !IsTerminal(f) {
		return false
	}
	termName, _ := lookupEnv("TERM")
	return termName != "" && termName != "dumb"
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

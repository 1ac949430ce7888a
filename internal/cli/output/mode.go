// Package output renders CLI results for terminals, agents and scripts.
//
// Output adapts to the environment: styled text on a TTY, markdown when
// piped, and JSON when asked for.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted --output values.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// resolve turns ModeAuto into a concrete mode.
func resolve(mode Mode, tty bool) Mode {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
		return mode
	}
	if tty {
		return ModeText
	}
	return ModeMarkdown
}

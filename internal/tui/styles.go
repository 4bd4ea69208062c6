// Package tui renders multipid results for scripts and terminals.
//
// Holder sets and counters always go to stdout unstyled so that pipelines can
// parse them. Errors go to stderr and are styled with Lip Gloss only when
// stderr is a terminal that supports color.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

//nolint:gochecknoglobals // Package-level styling palette
var (
	// ColorError is red, used for the error line.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorWarning is yellow, used for caller-logic errors.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorMuted is gray, used for the suggested action.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// OutputStyles holds the styles for error output.
type OutputStyles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles returns the default styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted).Faint(true),
	}
}

// CheckNoColor downgrades Lip Gloss to plain ASCII when color is unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int on supported platforms
}

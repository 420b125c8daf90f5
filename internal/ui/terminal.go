package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	noColorMu sync.Mutex
	noColor   bool
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions:
// NO_COLOR wins, then CLICOLOR_FORCE, then CLICOLOR=0, then the TTY check.
func ShouldUseColor() bool {
	noColorMu.Lock()
	disabled := noColor
	noColorMu.Unlock()
	if disabled {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal()
}

// ShouldUseEmoji reports whether icons in toasts and tags are shown.
// OT_NO_EMOJI turns them off.
func ShouldUseEmoji() bool {
	if os.Getenv("OT_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// IsAgentMode reports whether output is consumed by a program rather than
// a person: OT_AGENT_MODE=1 or a dumb terminal.
func IsAgentMode() bool {
	if os.Getenv("OT_AGENT_MODE") == "1" {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// SetNoColor disables styling for the rest of the process, e.g. for the
// --no-color flag or the no-color config key.
func SetNoColor(disabled bool) {
	noColorMu.Lock()
	noColor = disabled
	noColorMu.Unlock()
	ApplyColorProfile()
}

// ApplyColorProfile points lipgloss at the profile ShouldUseColor allows.
func ApplyColorProfile() {
	if ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

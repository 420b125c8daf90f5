// Package ui renders work orders, forms and notifications for the terminal.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/types"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	ColorOrange = lipgloss.AdaptiveColor{
		Light: "#fa8d3e",
		Dark:  "#ff8f40",
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// CategoryStyle for section headers - bold with accent color
var CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// NumberStyle highlights the order number in headers.
var NumberStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Reverse(true)

// Status icons - consistent semantic indicators
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconSkip = "-"
	IconInfo = "ℹ"
)

// Tree characters for hierarchical display
const (
	TreeChild  = "⎿ "  // child indicator
	TreeLast   = "└─ " // last child / detail line
	TreeIndent = "  "  // 2-space indent per level
)

const (
	SeparatorLight = "──────────────────────────────────────────"
	SeparatorHeavy = "══════════════════════════════════════════"
)

// StatusStyle returns the style of a status badge.
func StatusStyle(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusPending:
		return WarnStyle.Bold(true)
	case types.StatusInProgress:
		return AccentStyle.Bold(true)
	case types.StatusPartiallyClosed:
		return lipgloss.NewStyle().Foreground(ColorOrange).Bold(true)
	case types.StatusClosed:
		return PassStyle.Bold(true)
	case types.StatusCancelled:
		return MutedStyle.Strikethrough(true)
	}
	return MutedStyle
}

// PriorityStyle returns the style of a priority tag.
func PriorityStyle(p types.Priority) lipgloss.Style {
	switch p {
	case types.PriorityUrgent:
		return FailStyle.Bold(true)
	case types.PriorityHigh:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	case types.PriorityMedium:
		return WarnStyle
	}
	return MutedStyle
}

// ToneStyle maps a checklist tag tone to a style.
func ToneStyle(t types.Tone) lipgloss.Style {
	switch t {
	case types.ToneSuccess:
		return PassStyle
	case types.ToneDanger:
		return FailStyle
	case types.ToneInfo:
		return AccentStyle
	}
	return MutedStyle
}

// RenderStatus renders the status label as a badge.
func RenderStatus(s types.Status) string {
	return StatusStyle(s).Render(s.Label())
}

// RenderPriority renders the priority label.
func RenderPriority(p types.Priority) string {
	return PriorityStyle(p).Render(p.Label())
}

// RenderTag renders a checklist answer tag.
func RenderTag(tag types.ResponseTag) string {
	return ToneStyle(tag.Tone).Render(tag.Text)
}

// RenderToast formats a notification line for stderr. Its signature
// matches the render hook of notification.Terminal.
func RenderToast(level notification.Level, message string) string {
	switch level {
	case notification.LevelSuccess:
		return RenderPassIcon() + " " + message
	case notification.LevelWarning:
		return RenderWarnIcon() + " " + WarnStyle.Render(message)
	case notification.LevelError:
		return RenderFailIcon() + " " + FailStyle.Render(message)
	}
	return RenderInfoIcon() + " " + message
}

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderCategory renders a category header in uppercase with accent color
func RenderCategory(s string) string {
	return CategoryStyle.Render(strings.ToUpper(s))
}

// RenderSeparator renders the light separator line in muted color
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}

func RenderPassIcon() string { return PassStyle.Render(IconPass) }
func RenderWarnIcon() string { return WarnStyle.Render(IconWarn) }
func RenderFailIcon() string { return FailStyle.Render(IconFail) }
func RenderSkipIcon() string { return MutedStyle.Render(IconSkip) }
func RenderInfoIcon() string { return AccentStyle.Render(IconInfo) }

package ui

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Long texts (problem and solution descriptions) are cut in the detail view
// unless --full is given.
const (
	DefaultMaxLines     = 15
	DefaultContextLines = 5
	DefaultWrapWidth    = 80
)

// TruncateLines keeps the first and last contextLines of a text longer than
// maxLines, with a marker saying how many lines were hidden.
func TruncateLines(text string, maxLines, contextLines int) string {
	lines := strings.Split(text, "\n")
	total := len(lines)
	if text == "" || total <= maxLines {
		return text
	}
	if contextLines < 1 {
		contextLines = DefaultContextLines
	}
	if maxLines < contextLines*2+3 {
		return strings.Join(lines[:maxLines], "\n") + "\n..."
	}

	hidden := total - 2*contextLines
	rule := RenderMuted(strings.Repeat("─", 40))
	var b strings.Builder
	b.WriteString(strings.Join(lines[:contextLines], "\n"))
	b.WriteString("\n" + rule + "\n")
	b.WriteString(RenderMuted("... (" + strconv.Itoa(hidden) + " lines hidden, use --full) ..."))
	b.WriteString("\n" + rule + "\n")
	b.WriteString(strings.Join(lines[total-contextLines:], "\n"))
	return b.String()
}

// WrapText wraps text at word boundaries to fit within maxWidth.
// Preserves existing line breaks.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = DefaultWrapWidth
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, maxWidth int) string {
	if utf8.RuneCountInString(line) <= maxWidth {
		return line
	}
	var b strings.Builder
	width := 0
	for _, word := range strings.Fields(line) {
		n := utf8.RuneCountInString(word)
		switch {
		case width == 0:
		case width+1+n <= maxWidth:
			b.WriteByte(' ')
			width++
		default:
			b.WriteByte('\n')
			width = 0
		}
		b.WriteString(word)
		width += n
	}
	return b.String()
}

// ShouldTruncate returns true if text exceeds the given thresholds.
// A zero threshold is not checked.
func ShouldTruncate(text string, maxLines, maxChars int) bool {
	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		return true
	}
	return maxLines > 0 && strings.Count(text, "\n")+1 > maxLines
}

// longText renders a free-text field, cut to DefaultMaxLines unless full.
func longText(s string, full bool) string {
	out := strings.TrimRight(RenderMarkdown(s), "\n")
	if IsAgentMode() || !ShouldUseColor() {
		out = WrapText(out, DefaultWrapWidth)
	}
	if !full && ShouldTruncate(out, DefaultMaxLines, 0) {
		out = TruncateLines(out, DefaultMaxLines, DefaultContextLines)
	}
	return out
}

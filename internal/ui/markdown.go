package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// maxReadableWidth caps the wrap width of descriptions on wide terminals.
const maxReadableWidth = 100

// RenderMarkdown renders free-text order fields (problem, solution) with
// glamour. Plain text is returned unchanged in agent mode, without color,
// or when rendering fails.
func RenderMarkdown(markdown string) string {
	if IsAgentMode() || !ShouldUseColor() {
		return markdown
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth()),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	// glamour pads the block with blank lines
	return strings.Trim(rendered, "\n")
}

func wrapWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return DefaultWrapWidth
	}
	return min(w, maxReadableWidth)
}

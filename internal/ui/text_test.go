package ui

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steps returns a description of n numbered lines, as technicians write
// them in the problem field.
func steps(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "paso " + strconv.Itoa(i+1)
	}
	return strings.Join(lines, "\n")
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("palabra ", n))
}

// plainAgent renders as a program would read it: agent mode, no styling.
func plainAgent(t *testing.T) {
	t.Helper()
	t.Setenv("OT_AGENT_MODE", "1")
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })
}

func TestLongTextCutUnlessFull(t *testing.T) {
	plainAgent(t)
	text := steps(20)

	out := longText(text, false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2*DefaultContextLines+3)
	assert.Equal(t, []string{"paso 1", "paso 2", "paso 3", "paso 4", "paso 5"}, lines[:DefaultContextLines])
	assert.Equal(t, "... (10 lines hidden, use --full) ...", lines[DefaultContextLines+1])
	assert.Equal(t, []string{"paso 16", "paso 17", "paso 18", "paso 19", "paso 20"}, lines[len(lines)-DefaultContextLines:])
	assert.NotContains(t, lines, "paso 10")

	assert.Equal(t, text, longText(text, true))
}

func TestLongTextKeepsShortDescriptions(t *testing.T) {
	plainAgent(t)

	text := steps(DefaultMaxLines)
	assert.Equal(t, text, longText(text, false))

	paragraphs := "Síntoma: ruido en el rodamiento.\n\nCausa: falta de grasa."
	assert.Equal(t, paragraphs, longText(paragraphs, false), "blank lines between paragraphs survive")
	assert.Empty(t, longText("", false))
}

func TestLongTextWrapsWithoutColor(t *testing.T) {
	t.Setenv("OT_AGENT_MODE", "")
	t.Setenv("TERM", "xterm-256color")
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })

	text := words(30)
	out := longText(text, false)

	lines := strings.Split(out, "\n")
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), DefaultWrapWidth, "line %q", l)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(out), "wrapping only moves line breaks")
}

func TestLongTextCutsAfterWrapping(t *testing.T) {
	plainAgent(t)

	// 200 words of 7 runes fill 20 lines of 10 words at width 80.
	out := longText(words(200), false)
	assert.Contains(t, out, "(10 lines hidden, use --full)")

	full := longText(words(200), true)
	assert.Len(t, strings.Split(full, "\n"), 20)
	assert.NotContains(t, full, "hidden")
}

func TestWrapTextDefaultWidth(t *testing.T) {
	out := WrapText(words(30), 0)
	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), DefaultWrapWidth)
	}

	// A reference longer than the width stays on its own line.
	ref := strings.Repeat("x", DefaultWrapWidth+5)
	assert.Equal(t, "ver\n"+ref, WrapText("ver "+ref, DefaultWrapWidth))
}

func TestTruncateLinesWithFewLines(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n...", TruncateLines("a\nb\nc\nd\ne", 3, DefaultContextLines))
}

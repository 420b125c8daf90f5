package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls how a long detail view is shown.
type PagerOptions struct {
	// NoPager prints directly (--no-pager).
	NoPager bool
	// Out receives the content when no pager runs; nil means stdout.
	Out io.Writer
}

func (o PagerOptions) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

// usePager is false for --no-pager, OT_NO_PAGER, a redirected stdout, or
// when the caller supplied its own writer.
func usePager(opts PagerOptions) bool {
	if opts.NoPager || opts.Out != nil || os.Getenv("OT_NO_PAGER") != "" {
		return false
	}
	return IsTerminal()
}

// pagerCommand checks OT_PAGER, then PAGER, and defaults to less.
func pagerCommand() []string {
	for _, env := range []string{"OT_PAGER", "PAGER"} {
		if p := strings.Fields(os.Getenv(env)); len(p) > 0 {
			return p
		}
	}
	return []string{"less"}
}

func fitsScreen(content string) bool {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return false
	}
	return strings.Count(content, "\n")+1 <= height-1
}

// ToPager shows content through a pager when it does not fit the terminal.
func ToPager(ctx context.Context, content string, opts PagerOptions) error {
	if !usePager(opts) || fitsScreen(content) {
		_, err := fmt.Fprint(opts.out(), content)
		return err
	}

	args := pagerCommand()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...) // #nosec G204 - pager is user-configured
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if os.Getenv("LESS") == "" {
		// -R keeps colors, -F quits when one screen suffices, -X keeps the screen
		cmd.Env = append(cmd.Env, "LESS=-RFX")
	}
	return cmd.Run()
}

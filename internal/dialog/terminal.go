package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// Terminal renders dialogs as interactive huh forms.
type Terminal struct {
	// Accessible switches huh to plain line-based prompts, for screen
	// readers and dumb terminals.
	Accessible bool
	Input      io.Reader
	Output     io.Writer
}

var _ Dialog = (*Terminal)(nil)

// NewTerminal returns a terminal dialog on the process's stdin/stdout.
func NewTerminal(accessible bool) *Terminal {
	return &Terminal{Accessible: accessible}
}

// Close is a no-op: forms leave the screen as soon as they are answered.
func (t *Terminal) Close() {}

// Send runs the form for req.
func (t *Terminal) Send(ctx context.Context, req *Request) (*Response, error) {
	resp := &Response{ID: req.ID}
	var group *huh.Group

	switch req.Kind {
	case KindEntry:
		resp.Text = req.Default
		group = huh.NewGroup(
			huh.NewInput().
				Title(req.Title).
				Description(req.Prompt).
				Value(&resp.Text),
		)
	case KindChoice:
		resp.Selected = req.Default
		group = huh.NewGroup(
			huh.NewSelect[string]().
				Title(req.Title).
				Description(req.Prompt).
				Options(huhOptions(req.Options)...).
				Value(&resp.Selected),
		)
	case KindConfirm:
		var yes bool
		group = huh.NewGroup(
			huh.NewConfirm().
				Title(req.Title).
				Description(req.Prompt).
				Affirmative("Sí").
				Negative("No").
				Value(&yes),
		)
		defer func() {
			if yes {
				resp.Selected = "yes"
			}
		}()
	case KindForm:
		values := make([]string, len(req.Fields))
		fields := make([]huh.Field, 0, len(req.Fields))
		for i, f := range req.Fields {
			values[i] = f.Default
			fields = append(fields, formField(f, &values[i]))
		}
		group = huh.NewGroup(fields...).Title(req.Title)
		defer func() {
			resp.Values = make(map[string]string, len(req.Fields))
			for i, f := range req.Fields {
				resp.Values[f.ID] = values[i]
			}
		}()
	default:
		return nil, fmt.Errorf("unsupported dialog kind %q", req.Kind)
	}

	form := huh.NewForm(group).
		WithTheme(huh.ThemeDracula()).
		WithAccessible(t.Accessible)
	if t.Input != nil {
		form = form.WithInput(t.Input)
	}
	if t.Output != nil {
		form = form.WithOutput(t.Output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			resp.Canceled = true
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

func huhOptions(options []Option) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		out = append(out, huh.NewOption(o.Label, o.ID))
	}
	return out
}

func formField(f Field, value *string) huh.Field {
	required := func(s string) error {
		if f.Required && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s es obligatorio", f.Label)
		}
		return nil
	}

	switch f.Kind {
	case FieldMultiline:
		return huh.NewText().
			Title(f.Label).
			Placeholder(f.Placeholder).
			CharLimit(5000).
			Value(value).
			Validate(required)
	case FieldSelect:
		return huh.NewSelect[string]().
			Title(f.Label).
			Options(huhOptions(f.Options)...).
			Value(value)
	case FieldNumber:
		return huh.NewInput().
			Title(f.Label).
			Placeholder(f.Placeholder).
			Value(value).
			Validate(func(s string) error {
				if err := required(s); err != nil {
					return err
				}
				if strings.TrimSpace(s) == "" {
					return nil
				}
				if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
					return fmt.Errorf("%s debe ser numérico", f.Label)
				}
				return nil
			})
	default:
		return huh.NewInput().
			Title(f.Label).
			Placeholder(f.Placeholder).
			Value(value).
			Validate(required)
	}
}

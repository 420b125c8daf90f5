// Package dialog abstracts the prompts a view shows the user: text entry,
// choice, confirmation and multi-field forms. Controllers depend on the
// Dialog interface; the terminal front end provides a huh-based one.
package dialog

import (
	"context"
	"errors"
	"fmt"
)

// ErrCanceled is returned by the helpers when the user dismisses a dialog.
var ErrCanceled = errors.New("dialog canceled")

// Kind is the type of a dialog request.
type Kind string

// Dialog kinds
const (
	KindEntry   Kind = "entry"
	KindChoice  Kind = "choice"
	KindConfirm Kind = "confirm"
	KindForm    Kind = "form"
)

// Request describes one dialog.
type Request struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options,omitempty"`
	Default string   `json:"default,omitempty"`
	Fields  []Field  `json:"fields,omitempty"` // KindForm only
}

// Option for choice dialogs and select fields
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FieldKind selects the input widget of a form field.
type FieldKind string

// Field kinds
const (
	FieldText      FieldKind = "text"
	FieldMultiline FieldKind = "multiline"
	FieldNumber    FieldKind = "number"
	FieldSelect    FieldKind = "select"
)

// Field is one input of a form dialog.
type Field struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Default     string    `json:"default,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Required    bool      `json:"required,omitempty"`
}

// Response is the user's answer.
type Response struct {
	ID       string            `json:"id"`
	Canceled bool              `json:"canceled"`
	Text     string            `json:"text,omitempty"`
	Selected string            `json:"selected,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
}

// Dialog shows requests to the user.
type Dialog interface {
	// Send shows req and blocks until the user answers or ctx ends.
	Send(ctx context.Context, req *Request) (*Response, error)
	// Close dismisses whatever dialog is still on screen.
	Close()
}

func send(ctx context.Context, d Dialog, req *Request) (*Response, error) {
	resp, err := d.Send(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s dialog %q: %w", req.Kind, req.ID, err)
	}
	if resp == nil || resp.Canceled {
		return nil, ErrCanceled
	}
	return resp, nil
}

// Entry asks for a line of text.
func Entry(ctx context.Context, d Dialog, id, title, prompt, defaultValue string) (string, error) {
	resp, err := send(ctx, d, &Request{
		ID:      id,
		Kind:    KindEntry,
		Title:   title,
		Prompt:  prompt,
		Default: defaultValue,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Choice asks the user to pick one option and returns its ID.
func Choice(ctx context.Context, d Dialog, id, title, prompt string, options []Option, defaultID string) (string, error) {
	resp, err := send(ctx, d, &Request{
		ID:      id,
		Kind:    KindChoice,
		Title:   title,
		Prompt:  prompt,
		Options: options,
		Default: defaultID,
	})
	if err != nil {
		return "", err
	}
	return resp.Selected, nil
}

// Confirm asks a yes/no question. A dismissed dialog counts as "no".
func Confirm(ctx context.Context, d Dialog, id, title, prompt string) (bool, error) {
	resp, err := send(ctx, d, &Request{
		ID:     id,
		Kind:   KindConfirm,
		Title:  title,
		Prompt: prompt,
	})
	if errors.Is(err, ErrCanceled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resp.Selected == "yes", nil
}

// Form shows a multi-field form and returns the values keyed by field ID.
func Form(ctx context.Context, d Dialog, id, title string, fields []Field) (map[string]string, error) {
	resp, err := send(ctx, d, &Request{
		ID:     id,
		Kind:   KindForm,
		Title:  title,
		Fields: fields,
	})
	if err != nil {
		return nil, err
	}
	if resp.Values == nil {
		return map[string]string{}, nil
	}
	return resp.Values, nil
}

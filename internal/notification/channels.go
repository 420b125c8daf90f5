package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Terminal writes toasts to w, one per line, formatted by render.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	render func(Level, string) string
}

// NewTerminal returns a terminal channel. A nil render prints the bare
// message.
func NewTerminal(w io.Writer, render func(Level, string) string) *Terminal {
	if render == nil {
		render = func(_ Level, msg string) string { return msg }
	}
	return &Terminal{w: w, render: render}
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) Deliver(toast Toast) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.w, t.render(toast.Level, toast.Message))
	return err
}

// Webhook posts toasts as JSON to a URL, for chat or paging integrations.
type Webhook struct {
	URL        string
	Source     string
	httpClient *http.Client
}

// NewWebhook returns a webhook channel posting to url.
func NewWebhook(url, source string) *Webhook {
	return &Webhook{
		URL:        url,
		Source:     source,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

type webhookPayload struct {
	Type    string    `json:"type"`
	Source  string    `json:"source,omitempty"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (w *Webhook) Deliver(t Toast) error {
	data, err := json.Marshal(webhookPayload{
		Type:    "toast",
		Source:  w.Source,
		Level:   t.Level,
		Message: t.Message,
		At:      t.At,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-OT-Event", "toast")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Package notification delivers toasts: short status messages shown after
// an action. Toasts go to the terminal and, when configured, to a webhook.
// Delivery is best effort; failures are logged and never reach the caller.
package notification

import (
	"sync"
	"time"
)

// Level classifies a toast.
type Level string

// Levels
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Toast is one notification.
type Toast struct {
	Level   Level         `json:"level"`
	Message string        `json:"message"`
	Delay   time.Duration `json:"-"`
	At      time.Time     `json:"at"`
}

// Notifier shows toasts.
type Notifier interface {
	Notify(level Level, message string)
	// NotifyAfter shows the toast once delay has elapsed, without blocking.
	NotifyAfter(delay time.Duration, level Level, message string)
}

// Channel is a delivery target.
type Channel interface {
	Name() string
	Deliver(t Toast) error
}

// Dispatcher fans toasts out to its channels. Delayed toasts run on timers;
// call Wait before the process exits so none are lost.
type Dispatcher struct {
	channels []Channel
	onError  func(channel string, err error)
	now      func() time.Time

	mu      sync.Mutex
	pending sync.WaitGroup
	results []DispatchResult
}

// DispatchResult records the outcome of one delivery.
type DispatchResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher over channels. onError may be nil.
func NewDispatcher(onError func(channel string, err error), channels ...Channel) *Dispatcher {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Dispatcher{
		channels: channels,
		onError:  onError,
		now:      time.Now,
	}
}

// Notify delivers a toast right away.
func (d *Dispatcher) Notify(level Level, message string) {
	d.dispatch(Toast{Level: level, Message: message, At: d.now()})
}

// NotifyAfter delivers a toast after delay.
func (d *Dispatcher) NotifyAfter(delay time.Duration, level Level, message string) {
	if delay <= 0 {
		d.Notify(level, message)
		return
	}
	d.pending.Add(1)
	time.AfterFunc(delay, func() {
		defer d.pending.Done()
		d.dispatch(Toast{Level: level, Message: message, Delay: delay, At: d.now()})
	})
}

// Wait blocks until every delayed toast has been delivered.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Results returns the delivery outcomes so far.
func (d *Dispatcher) Results() []DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DispatchResult(nil), d.results...)
}

func (d *Dispatcher) dispatch(t Toast) {
	for _, ch := range d.channels {
		result := DispatchResult{Channel: ch.Name(), Success: true}
		if err := ch.Deliver(t); err != nil {
			result.Success = false
			result.Error = err.Error()
			d.onError(ch.Name(), err)
		}
		d.mu.Lock()
		d.results = append(d.results, result)
		d.mu.Unlock()
	}
}

// Recorder is a Notifier that keeps every toast in memory. Delayed toasts
// are recorded immediately with their delay.
type Recorder struct {
	mu     sync.Mutex
	Toasts []Toast
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Notify(level Level, message string) {
	r.NotifyAfter(0, level, message)
}

func (r *Recorder) NotifyAfter(delay time.Duration, level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Toasts = append(r.Toasts, Toast{Level: level, Message: message, Delay: delay})
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Toasts))
	for i, t := range r.Toasts {
		out[i] = t.Message
	}
	return out
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Toasts) == 0 {
		return Toast{}, false
	}
	return r.Toasts[len(r.Toasts)-1], true
}

// Package dialogtest provides a scripted dialog.Dialog for tests.
package dialogtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/plantops/ot/internal/dialog"
)

// Scripted answers dialogs from a queue of responses, in order, and records
// every request it was shown.
type Scripted struct {
	mu        sync.Mutex
	responses []*dialog.Response
	Requests  []*dialog.Request
	Closed    int
}

var _ dialog.Dialog = (*Scripted)(nil)

// New returns a dialog that will answer with responses in order.
func New(responses ...*dialog.Response) *Scripted {
	return &Scripted{responses: responses}
}

// Text answers an entry dialog.
func Text(s string) *dialog.Response { return &dialog.Response{Text: s} }

// Select answers a choice dialog.
func Select(id string) *dialog.Response { return &dialog.Response{Selected: id} }

// Yes confirms.
func Yes() *dialog.Response { return &dialog.Response{Selected: "yes"} }

// No declines.
func No() *dialog.Response { return &dialog.Response{Selected: "no"} }

// Cancel dismisses the dialog.
func Cancel() *dialog.Response { return &dialog.Response{Canceled: true} }

// Values answers a form dialog.
func Values(kv map[string]string) *dialog.Response { return &dialog.Response{Values: kv} }

// Send pops the next scripted response. Running out of responses is an error.
func (s *Scripted) Send(ctx context.Context, req *dialog.Request) (*dialog.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("unexpected dialog %q", req.ID)
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	resp.ID = req.ID
	return resp, nil
}

// Close records that the controller dismissed the dialog.
func (s *Scripted) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed++
}

// Shown returns the IDs of the requests shown so far.
func (s *Scripted) Shown() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.Requests))
	for i, r := range s.Requests {
		ids[i] = r.ID
	}
	return ids
}

// Pending returns how many scripted responses were not consumed.
func (s *Scripted) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses)
}

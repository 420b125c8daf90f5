// Package checklist captures the answers of a preventive order's checklist
// and submits them in one batch.
package checklist

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/types"
)

// Field ID prefixes of the capture form.
const (
	AnswerFieldPrefix      = "cl_resp_"
	ObservationFieldPrefix = "cl_obs_"
)

// Field is the live input of one checklist item.
type Field struct {
	Item         types.ChecklistItem
	Answer       string
	Observations string
}

// Capture holds the checklist inputs currently shown for an order. A nil or
// empty capture submits nothing.
type Capture struct {
	fields []*Field
	byID   map[int64]*Field
}

// NewCapture opens the inputs for an order. Closed or cancelled orders and
// orders without a checklist get an empty capture, as their checklist is
// read-only. Saved responses prefill the inputs.
func NewCapture(o *types.WorkOrder) *Capture {
	c := &Capture{byID: make(map[int64]*Field)}
	if !o.IsOpen() || !o.HasChecklist() {
		return c
	}
	items := append([]types.ChecklistItem(nil), o.ChecklistItems...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	for _, item := range items {
		f := &Field{Item: item}
		if r, ok := o.ResponseFor(item.ID); ok {
			f.Answer = r.Answer
			f.Observations = r.Observations
		}
		c.fields = append(c.fields, f)
		c.byID[item.ID] = f
	}
	return c
}

// Len returns the number of inputs present.
func (c *Capture) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

// Fields returns the inputs in checklist order.
func (c *Capture) Fields() []Field {
	if c == nil {
		return nil
	}
	out := make([]Field, len(c.fields))
	for i, f := range c.fields {
		out[i] = *f
	}
	return out
}

// Set records the answer of one item. The answer must fit the item's kind.
func (c *Capture) Set(itemID int64, answer string) error {
	f, ok := c.byID[itemID]
	if !ok {
		return fmt.Errorf("checklist item %d is not part of this order", itemID)
	}
	answer = strings.TrimSpace(answer)
	if answer != "" {
		switch f.Item.Kind {
		case types.AnswerOkNok:
			if answer != types.AnswerOK && answer != types.AnswerNOK && answer != types.AnswerNotApplicable {
				return fmt.Errorf("item %d: answer must be ok, nok or na", itemID)
			}
		case types.AnswerValue:
			if _, err := strconv.ParseFloat(answer, 64); err != nil {
				return fmt.Errorf("item %d: answer must be numeric", itemID)
			}
		}
	}
	f.Answer = answer
	return nil
}

// SetObservations records the observations of one item. Free-text items
// have no observation input.
func (c *Capture) SetObservations(itemID int64, obs string) error {
	f, ok := c.byID[itemID]
	if !ok {
		return fmt.Errorf("checklist item %d is not part of this order", itemID)
	}
	if !f.Item.HasObservation() {
		return fmt.Errorf("item %d takes no observations", itemID)
	}
	f.Observations = obs
	return nil
}

// Responses pairs every input with its observation. Unanswered inputs are
// included with an empty answer.
func (c *Capture) Responses() []types.ChecklistResponse {
	if c.Len() == 0 {
		return nil
	}
	out := make([]types.ChecklistResponse, 0, len(c.fields))
	for _, f := range c.fields {
		out = append(out, types.ChecklistResponse{
			ItemID:       f.Item.ID,
			Answer:       f.Answer,
			Observations: f.Observations,
		})
	}
	return out
}

// Faults returns the items answered "nok" that will generate a corrective
// order when the order is closed.
func (c *Capture) Faults() []types.ChecklistItem {
	var out []types.ChecklistItem
	for _, f := range c.fields {
		if f.Answer == types.AnswerNOK && f.Item.GeneratesCorrective {
			out = append(out, f.Item)
		}
	}
	return out
}

// FormFields describes the capture as dialog fields. The widget depends on
// the item kind: ok/nok/na select, numeric input with the unit as
// placeholder, or free text without observation.
func (c *Capture) FormFields() []dialog.Field {
	var out []dialog.Field
	for _, f := range c.fields {
		label := fmt.Sprintf("%d. %s", f.Item.Order, f.Item.Description)
		if f.Item.GeneratesCorrective {
			label += " ⚡"
		}
		answer := dialog.Field{
			ID:      AnswerFieldPrefix + strconv.FormatInt(f.Item.ID, 10),
			Label:   label,
			Default: f.Answer,
		}
		switch f.Item.Kind {
		case types.AnswerOkNok:
			answer.Kind = dialog.FieldSelect
			answer.Options = []dialog.Option{
				{ID: "", Label: "--"},
				{ID: types.AnswerOK, Label: "✅ OK"},
				{ID: types.AnswerNOK, Label: "❌ NOK"},
				{ID: types.AnswerNotApplicable, Label: "N/A"},
			}
		case types.AnswerValue:
			answer.Kind = dialog.FieldNumber
			answer.Placeholder = f.Item.Unit
			if answer.Placeholder == "" {
				answer.Placeholder = "valor"
			}
		default:
			answer.Kind = dialog.FieldText
			answer.Placeholder = "Respuesta..."
		}
		out = append(out, answer)

		if f.Item.HasObservation() {
			out = append(out, dialog.Field{
				ID:          ObservationFieldPrefix + strconv.FormatInt(f.Item.ID, 10),
				Label:       "Observaciones",
				Kind:        dialog.FieldText,
				Placeholder: "Obs...",
				Default:     f.Observations,
			})
		}
	}
	return out
}

// Apply copies form values keyed by FormFields IDs into the capture.
func (c *Capture) Apply(values map[string]string) error {
	for key, v := range values {
		var prefix string
		switch {
		case strings.HasPrefix(key, AnswerFieldPrefix):
			prefix = AnswerFieldPrefix
		case strings.HasPrefix(key, ObservationFieldPrefix):
			prefix = ObservationFieldPrefix
		default:
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(key, prefix), 10, 64)
		if err != nil {
			return fmt.Errorf("bad checklist field %q", key)
		}
		if prefix == AnswerFieldPrefix {
			err = c.Set(id, v)
		} else {
			err = c.SetObservations(id, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Saver submits captures.
type Saver struct {
	API      api.Service
	Notifier notification.Notifier
	Logger   *zap.Logger
}

// Save submits the capture and reports the outcome to the user. A capture
// without inputs sends nothing.
func (s *Saver) Save(ctx context.Context, orderID int64, c *Capture) error {
	if c.Len() == 0 {
		return nil
	}
	if err := s.API.SaveChecklist(ctx, orderID, c.Responses()); err != nil {
		s.Notifier.Notify(notification.LevelError, "Error al guardar checklist")
		return err
	}
	s.Notifier.Notify(notification.LevelSuccess, "Checklist guardado")
	return nil
}

// AutoSave submits the capture without telling the user. Failures are only
// logged: the caller carries on regardless.
func (s *Saver) AutoSave(ctx context.Context, orderID int64, c *Capture) {
	if c.Len() == 0 {
		return
	}
	if err := s.API.SaveChecklist(ctx, orderID, c.Responses()); err != nil {
		s.logger().Warn("checklist auto-save failed",
			zap.Int64("order_id", orderID),
			zap.Int("fields", c.Len()),
			zap.Error(err))
	}
}

func (s *Saver) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

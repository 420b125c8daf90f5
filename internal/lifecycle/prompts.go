package lifecycle

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/validation"
)

type techPrompt struct {
	id      string
	title   string
	label   string
	missing string
	// preselect picks the user's own technician by default.
	preselect   bool
	otherLabel  string
	manualLabel string
}

// TechnicianOptions lists the active technicians by full name followed by
// the manual-entry option. def is the option matching own, if any.
func TechnicianOptions(techs []types.Technician, own, otherLabel string) (options []dialog.Option, def string) {
	for _, t := range techs {
		if !t.IsActive() {
			continue
		}
		name := t.FullName()
		options = append(options, dialog.Option{ID: name, Label: name})
		if def == "" && t.Matches(own) {
			def = name
		}
	}
	if len(options) == 0 {
		return nil, ""
	}
	if otherLabel == "" {
		otherLabel = "Otro"
	}
	return append(options, dialog.Option{ID: OtherTechnician, Label: otherLabel}), def
}

// promptTechnician asks who does the work. Without a technician list (the
// call failed or nobody is active) it falls back to a text entry.
func (c *Controller) promptTechnician(ctx context.Context, p techPrompt) (string, error) {
	own := ""
	if p.preselect {
		own = c.Identity.Technician
	}

	techs, err := c.API.ListTechnicians(ctx)
	if err != nil {
		c.log().Debug("technician list unavailable, using text entry", zap.Error(err))
		techs = nil
	}
	options, def := TechnicianOptions(techs, own, p.otherLabel)

	var name string
	if len(options) == 0 {
		name, err = dialog.Entry(ctx, c.Dialog, p.id, p.title, p.label, own)
	} else {
		name, err = dialog.Choice(ctx, c.Dialog, p.id, p.title, p.label, options, def)
		if err == nil && name == OtherTechnician {
			label := p.manualLabel
			if label == "" {
				label = "Nombre"
			}
			name, err = dialog.Entry(ctx, c.Dialog, p.id+"-manual", p.title, label, "")
		}
	}
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if err := validation.Required("tecnico", name, p.missing); err != nil {
		return "", err
	}
	return name, nil
}

// Finish form field IDs.
const (
	FieldSolution     = "solution"
	FieldDowntime     = "downtime"
	FieldObservations = "observations"
)

// FinishForm is the partial-close form filled when finishing work.
type FinishForm struct {
	Solution     string   `validate:"notblank"`
	Downtime     *float64 `validate:"required,gte=0"`
	Observations string
}

func (FinishForm) ValidationMessages() map[string]string {
	return map[string]string{
		"Solution":     "Debe indicar el problema / solución",
		"Downtime":     "Debe indicar el tiempo de parada de máquina",
		"Downtime.gte": "El tiempo de parada no puede ser negativo",
	}
}

// FinishFields describes the finish form.
func FinishFields() []dialog.Field {
	return []dialog.Field{
		{
			ID:          FieldSolution,
			Label:       "Descripción del Problema / Solución *",
			Kind:        dialog.FieldMultiline,
			Placeholder: "Describa el problema encontrado y la solución aplicada",
			Required:    true,
		},
		{
			ID:          FieldDowntime,
			Label:       "Tiempo de Parada de Máquina (horas) *",
			Kind:        dialog.FieldNumber,
			Placeholder: "Horas de máquina parada",
			Required:    true,
		},
		{
			ID:    FieldObservations,
			Label: "Observaciones",
			Kind:  dialog.FieldMultiline,
		},
	}
}

// ParseFinishForm reads and checks the finish form values.
func ParseFinishForm(values map[string]string) (FinishForm, error) {
	form := FinishForm{
		Solution:     values[FieldSolution],
		Observations: values[FieldObservations],
	}
	if raw := strings.TrimSpace(values[FieldDowntime]); raw != "" {
		h, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return form, validation.Fail("tiempoParada", "El tiempo de parada debe ser un número")
		}
		form.Downtime = &h
	}
	if err := validation.Struct(form); err != nil {
		return form, err
	}
	return form, nil
}

// Input is the update body sent before the status change.
func (f FinishForm) Input() types.OrderInput {
	solution, obs := f.Solution, f.Observations
	return types.OrderInput{
		SolutionDescription: &solution,
		DowntimeHours:       f.Downtime,
		Observations:        &obs,
	}
}

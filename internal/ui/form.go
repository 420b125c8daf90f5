package ui

import (
	"strconv"
	"strings"

	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/validation"
	"github.com/plantops/ot/internal/viewstate"
)

// Order form field IDs.
const (
	FieldType           = "tipo"
	FieldPriority       = "prioridad"
	FieldTitle          = "titulo"
	FieldProblem        = "descripcion"
	FieldTechnician     = "tecnico"
	FieldEstimatedHours = "tiempoEstimado"
	FieldScheduledDate  = "fechaProgramada"
)

// OrderFormTitle returns the dialog title for creating or editing.
func OrderFormTitle(editing bool) string {
	if editing {
		return "Editar Orden de Trabajo"
	}
	return "Nueva Orden de Trabajo"
}

// OrderFormFields describes the create/edit form prefilled with f. The type
// options come from the intervention-type catalog; the current type is kept
// even when the catalog lacks it.
func OrderFormFields(f viewstate.FormValues, catalog []types.InterventionType) []dialog.Field {
	typeOpts := make([]dialog.Option, 0, len(catalog)+1)
	seen := false
	for _, t := range catalog {
		typeOpts = append(typeOpts, dialog.Option{ID: t.Code, Label: t.Name})
		seen = seen || t.Code == f.Type
	}
	if !seen && f.Type != "" {
		typeOpts = append(typeOpts, dialog.Option{ID: f.Type, Label: f.Type})
	}

	prioOpts := make([]dialog.Option, len(types.Priorities))
	for i, p := range types.Priorities {
		prioOpts[i] = dialog.Option{ID: string(p), Label: p.Label()}
	}

	var estimated string
	if f.EstimatedHours != nil {
		estimated = strconv.FormatFloat(*f.EstimatedHours, 'f', -1, 64)
	}

	return []dialog.Field{
		{ID: FieldType, Label: "Tipo", Kind: dialog.FieldSelect, Options: typeOpts, Default: f.Type, Required: true},
		{ID: FieldPriority, Label: "Prioridad", Kind: dialog.FieldSelect, Options: prioOpts, Default: string(f.Priority), Required: true},
		{ID: FieldTitle, Label: "Título", Kind: dialog.FieldText, Default: f.Title, Required: true},
		{ID: FieldProblem, Label: "Descripción del problema", Kind: dialog.FieldMultiline, Default: f.ProblemDescription},
		{ID: FieldTechnician, Label: "Técnico asignado", Kind: dialog.FieldText, Default: f.Technician},
		{ID: FieldEstimatedHours, Label: "Tiempo estimado (h)", Kind: dialog.FieldNumber, Default: estimated},
		{ID: FieldScheduledDate, Label: "Fecha programada", Kind: dialog.FieldText, Placeholder: "AAAA-MM-DD", Default: f.ScheduledDate},
	}
}

// ApplyOrderForm returns f updated with the answered values. The asset is
// chosen with the picker and is left alone.
func ApplyOrderForm(f viewstate.FormValues, values map[string]string) (viewstate.FormValues, error) {
	get := func(id string, dst *string) {
		if v, ok := values[id]; ok {
			*dst = strings.TrimSpace(v)
		}
	}
	get(FieldType, &f.Type)
	get(FieldTitle, &f.Title)
	get(FieldProblem, &f.ProblemDescription)
	get(FieldTechnician, &f.Technician)
	get(FieldScheduledDate, &f.ScheduledDate)
	if v, ok := values[FieldPriority]; ok {
		f.Priority = types.Priority(strings.TrimSpace(v))
	}
	if v, ok := values[FieldEstimatedHours]; ok {
		v = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if v == "" {
			f.EstimatedHours = nil
		} else {
			h, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return f, validation.Fail("EstimatedHours", "El tiempo estimado debe ser un número")
			}
			f.EstimatedHours = &h
		}
	}
	return f, nil
}

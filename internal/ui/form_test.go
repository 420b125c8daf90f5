package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/validation"
	"github.com/plantops/ot/internal/viewstate"
)

func fieldByID(fields []dialog.Field, id string) dialog.Field {
	for _, f := range fields {
		if f.ID == id {
			return f
		}
	}
	return dialog.Field{}
}

func TestOrderFormFieldsNewOrderPresets(t *testing.T) {
	catalog := []types.InterventionType{
		{Code: "correctivo", Name: "Correctivo"},
		{Code: "preventivo", Name: "Preventivo"},
	}
	fields := OrderFormFields(viewstate.NewFormValues("", "", 0), catalog)

	typ := fieldByID(fields, FieldType)
	assert.Equal(t, "correctivo", typ.Default)
	assert.Len(t, typ.Options, 2)
	assert.True(t, typ.Required)

	prio := fieldByID(fields, FieldPriority)
	assert.Equal(t, "media", prio.Default)
	assert.Len(t, prio.Options, len(types.Priorities))

	assert.True(t, fieldByID(fields, FieldTitle).Required)
	assert.Empty(t, fieldByID(fields, FieldEstimatedHours).Default)
}

func TestOrderFormFieldsKeepsUnknownType(t *testing.T) {
	o := &types.WorkOrder{Type: "mejora", Priority: types.PriorityUrgent, Title: "Guardas", EstimatedHours: f64(1.5)}
	fields := OrderFormFields(viewstate.FormValuesFromOrder(o), []types.InterventionType{{Code: "correctivo", Name: "Correctivo"}})

	typ := fieldByID(fields, FieldType)
	assert.Equal(t, "mejora", typ.Default)
	assert.Equal(t, dialog.Option{ID: "mejora", Label: "mejora"}, typ.Options[len(typ.Options)-1])
	assert.Equal(t, "Guardas", fieldByID(fields, FieldTitle).Default)
	assert.Equal(t, "1.5", fieldByID(fields, FieldEstimatedHours).Default)
}

func TestApplyOrderForm(t *testing.T) {
	start := viewstate.NewFormValues("", "linea", 3)
	got, err := ApplyOrderForm(start, map[string]string{
		FieldType:           "preventivo",
		FieldPriority:       "alta",
		FieldTitle:          "  Revisión  ",
		FieldEstimatedHours: "2,5",
		FieldScheduledDate:  "2024-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "preventivo", got.Type)
	assert.Equal(t, types.PriorityHigh, got.Priority)
	assert.Equal(t, "Revisión", got.Title)
	require.NotNil(t, got.EstimatedHours)
	assert.InDelta(t, 2.5, *got.EstimatedHours, 1e-9)
	assert.Equal(t, start.Asset, got.Asset)

	got, err = ApplyOrderForm(got, map[string]string{FieldEstimatedHours: ""})
	require.NoError(t, err)
	assert.Nil(t, got.EstimatedHours)
}

func TestApplyOrderFormRejectsBadHours(t *testing.T) {
	_, err := ApplyOrderForm(viewstate.FormValues{}, map[string]string{FieldEstimatedHours: "dos"})
	require.Error(t, err)
	assert.True(t, validation.IsInvalid(err))
}

func TestOrderFormTitle(t *testing.T) {
	assert.Equal(t, "Nueva Orden de Trabajo", OrderFormTitle(false))
	assert.Equal(t, "Editar Orden de Trabajo", OrderFormTitle(true))
}

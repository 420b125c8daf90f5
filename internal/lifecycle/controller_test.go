package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/api/apitest"
	"github.com/plantops/ot/internal/checklist"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/dialog/dialogtest"
	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/session"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/viewstate"
)

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func order(id int64, status types.Status) *types.WorkOrder {
	return &types.WorkOrder{ID: id, Number: "OT-1", Status: status, Type: types.TypeCorrective}
}

type harness struct {
	api       *apitest.Fake
	dlg       *dialogtest.Scripted
	toasts    *notification.Recorder
	ctrl      *Controller
	refreshes int
}

func newHarness(o *types.WorkOrder, answers ...*dialog.Response) *harness {
	h := &harness{
		api:    apitest.New(o),
		dlg:    dialogtest.New(answers...),
		toasts: &notification.Recorder{},
	}
	h.api.Technicians = []types.Technician{
		{ID: 1, FirstName: "Ana", Surname: "Ruiz"},
		{ID: 2, FirstName: "Luis", Surname: "Gil", Active: boolPtr(false)},
		{ID: 3, FirstName: "Marta"},
	}
	h.ctrl = New(h.api, h.dlg, h.toasts).
		WithIdentity(session.Identity{Role: session.RoleResponsible, Technician: "Ana"}).
		WithRefresh(func() { h.refreshes++ })
	return h
}

func TestAdvancePendingIsStart(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Select("Ana Ruiz"))
	h.api.Session = types.WorkSessionResult{Message: "Trabajo iniciado por Ana Ruiz"}

	require.NoError(t, h.ctrl.Advance(context.Background(), order(1, types.StatusPending)))

	calls := h.api.CallsTo("StartWork")
	require.Len(t, calls, 1)
	assert.Equal(t, "Ana Ruiz", calls[0].Arg)
	assert.Equal(t, []string{"Trabajo iniciado por Ana Ruiz"}, h.toasts.Messages())
	assert.Equal(t, 1, h.refreshes)
	assert.Equal(t, 1, h.dlg.Closed)
}

func TestAdvanceInProgressIsFinish(t *testing.T) {
	h := newHarness(order(2, types.StatusInProgress), dialogtest.Values(map[string]string{
		FieldSolution: "Cambio de rodamiento",
		FieldDowntime: "1.5",
	}))

	require.NoError(t, h.ctrl.Advance(context.Background(), order(2, types.StatusInProgress)))

	assert.Equal(t, []string{"UpdateOrder", "SetStatus"}, h.api.Methods())
	assert.Equal(t, types.StatusPartiallyClosed, h.api.CallsTo("SetStatus")[0].Arg)
	assert.Equal(t, []string{FinishedMessage}, h.toasts.Messages())
}

func TestAdvanceClosedOrderHasNoAction(t *testing.T) {
	h := newHarness(order(3, types.StatusClosed))

	err := h.ctrl.Advance(context.Background(), order(3, types.StatusClosed))
	var notAllowed *NotAllowedError
	require.ErrorAs(t, err, &notAllowed)
	assert.Empty(t, h.api.Methods())
	last, _ := h.toasts.Last()
	assert.Equal(t, notification.LevelError, last.Level)
}

func TestStartPreselectsOwnTechnician(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Select("Ana Ruiz"))

	require.NoError(t, h.ctrl.Start(context.Background(), order(1, types.StatusPending)))

	req := h.dlg.Requests[0]
	assert.Equal(t, dialog.KindChoice, req.Kind)
	assert.Equal(t, "Ana Ruiz", req.Default)
	var ids []string
	for _, o := range req.Options {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"Ana Ruiz", "Marta", OtherTechnician}, ids, "inactive technicians are hidden")
}

func TestStartOnPartiallyClosedOrder(t *testing.T) {
	o := order(1, types.StatusPartiallyClosed)
	h := newHarness(o, dialogtest.Select("Ana Ruiz"))

	require.NoError(t, h.ctrl.Start(context.Background(), o))
	assert.Equal(t, "Ana Ruiz", h.api.CallsTo("StartWork")[0].Arg)
	assert.Empty(t, h.api.CallsTo("SetStatus"), "starting a session leaves the status alone")
}

func TestStartManualEntry(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Select(OtherTechnician), dialogtest.Text("  Externo SL "))

	require.NoError(t, h.ctrl.Start(context.Background(), order(1, types.StatusPending)))
	assert.Equal(t, "Externo SL", h.api.CallsTo("StartWork")[0].Arg)
	assert.Equal(t, []string{"start-technician", "start-technician-manual"}, h.dlg.Shown())
}

func TestStartRequiresTechnician(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Select(OtherTechnician), dialogtest.Text(""))

	err := h.ctrl.Start(context.Background(), order(1, types.StatusPending))
	require.Error(t, err)
	assert.Empty(t, h.api.CallsTo("StartWork"))
	assert.Equal(t, []string{"Indica quién realiza el trabajo"}, h.toasts.Messages())
	assert.Zero(t, h.refreshes)
}

func TestStartFallsBackToEntryWhenListFails(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Text("Ana"))
	h.api.Fail("ListTechnicians", errors.New("boom"))

	require.NoError(t, h.ctrl.Start(context.Background(), order(1, types.StatusPending)))
	req := h.dlg.Requests[0]
	assert.Equal(t, dialog.KindEntry, req.Kind)
	assert.Equal(t, "Ana", req.Default)
}

func TestStartServerError(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Select("Marta"))
	h.api.Fail("StartWork", &api.Error{StatusCode: http.StatusConflict, Message: "Marta ya tiene un trabajo en curso"})

	err := h.ctrl.Start(context.Background(), order(1, types.StatusPending))
	require.Error(t, err)
	assert.Equal(t, []string{"Marta ya tiene un trabajo en curso"}, h.toasts.Messages())
	assert.Zero(t, h.refreshes)
	assert.Zero(t, h.dlg.Closed)
	assert.Len(t, h.api.CallsTo("StartWork"), 1, "no retry")
}

func TestPauseReportsDuration(t *testing.T) {
	h := newHarness(order(4, types.StatusInProgress), dialogtest.Select("Ana Ruiz"))
	h.api.Session = types.WorkSessionResult{Message: "Trabajo pausado", SessionHours: floatPtr(1.25)}

	require.NoError(t, h.ctrl.Pause(context.Background(), order(4, types.StatusInProgress)))
	assert.Equal(t, []string{"Trabajo pausado. Duración: 1.25h"}, h.toasts.Messages())
	assert.Equal(t, types.StatusInProgress, h.api.Orders[4].Status)
}

func TestFinishValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"blank solution", map[string]string{FieldSolution: "  ", FieldDowntime: "1"}, "Debe indicar el problema / solución"},
		{"missing downtime", map[string]string{FieldSolution: "ok"}, "Debe indicar el tiempo de parada de máquina"},
		{"negative downtime", map[string]string{FieldSolution: "ok", FieldDowntime: "-1"}, "El tiempo de parada no puede ser negativo"},
		{"bad number", map[string]string{FieldSolution: "ok", FieldDowntime: "dos"}, "El tiempo de parada debe ser un número"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(order(2, types.StatusInProgress), dialogtest.Values(tt.values))

			err := h.ctrl.Finish(context.Background(), order(2, types.StatusInProgress))
			require.Error(t, err)
			assert.Empty(t, h.api.Methods())
			assert.Equal(t, []string{tt.want}, h.toasts.Messages())
		})
	}
}

func TestFinishZeroDowntimeIsAccepted(t *testing.T) {
	form, err := ParseFinishForm(map[string]string{FieldSolution: "ajuste", FieldDowntime: "0"})
	require.NoError(t, err)
	require.NotNil(t, form.Downtime)
	assert.Zero(t, *form.Downtime)

	form, err = ParseFinishForm(map[string]string{FieldSolution: "ajuste", FieldDowntime: "0,5"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, *form.Downtime)
}

func TestFinishSendsFormThenChecklistThenStatus(t *testing.T) {
	o := order(5, types.StatusInProgress)
	o.Type = types.TypePreventive
	o.ChecklistItems = []types.ChecklistItem{{ID: 7, Order: 1, Description: "Nivel aceite", Kind: types.AnswerOkNok}}
	h := newHarness(o, dialogtest.Values(map[string]string{
		FieldSolution:     "Revisión completa",
		FieldDowntime:     "2",
		FieldObservations: "sin incidencias",
	}))
	h.ctrl.Capture = checklist.NewCapture(o)
	require.NoError(t, h.ctrl.Capture.Set(7, types.AnswerOK))

	require.NoError(t, h.ctrl.Finish(context.Background(), o))

	assert.Equal(t, []string{"UpdateOrder", "SaveChecklist", "SetStatus"}, h.api.Methods())
	in := h.api.CallsTo("UpdateOrder")[0].Arg.(types.OrderInput)
	assert.Equal(t, "Revisión completa", *in.SolutionDescription)
	assert.Equal(t, 2.0, *in.DowntimeHours)
	assert.Equal(t, "sin incidencias", *in.Observations)
	assert.Nil(t, in.Title)
}

func TestFinishChecklistFailureDoesNotBlock(t *testing.T) {
	o := order(5, types.StatusInProgress)
	o.Type = types.TypePreventive
	o.ChecklistItems = []types.ChecklistItem{{ID: 7, Order: 1, Kind: types.AnswerText}}
	h := newHarness(o, dialogtest.Values(map[string]string{FieldSolution: "x", FieldDowntime: "0"}))
	h.api.Fail("SaveChecklist", errors.New("timeout"))
	core, logs := observer.New(zap.WarnLevel)
	h.ctrl.WithLogger(zap.New(core))
	h.ctrl.Capture = checklist.NewCapture(o)

	require.NoError(t, h.ctrl.Finish(context.Background(), o))
	assert.Equal(t, []string{"UpdateOrder", "SaveChecklist", "SetStatus"}, h.api.Methods())
	assert.Equal(t, []string{FinishedMessage}, h.toasts.Messages())
	assert.Equal(t, 1, logs.FilterMessage("checklist auto-save failed").Len())
}

func TestFinishAnnouncesFollowUpOrders(t *testing.T) {
	h := newHarness(order(6, types.StatusInProgress), dialogtest.Values(map[string]string{FieldSolution: "x", FieldDowntime: "1"}))
	h.api.Transition = types.TransitionResult{
		Message:           "Estado actualizado",
		CorrectiveOrders:  []string{"OT-0099"},
		CorrectiveMessage: "Se ha generado 1 OT correctiva",
		NewOrder:          "OT-0100",
		NewOrderMessage:   "Próxima preventiva programada",
	}

	require.NoError(t, h.ctrl.Finish(context.Background(), order(6, types.StatusInProgress)))

	require.Len(t, h.toasts.Toasts, 3)
	assert.Equal(t, notification.Toast{Level: notification.LevelSuccess, Message: FinishedMessage}, h.toasts.Toasts[0])
	assert.Equal(t, notification.Toast{
		Level:   notification.LevelWarning,
		Message: "⚠️ Se ha generado 1 OT correctiva",
		Delay:   800 * time.Millisecond,
	}, h.toasts.Toasts[1])
	assert.Equal(t, notification.Toast{
		Level:   notification.LevelInfo,
		Message: "📅 Próxima preventiva programada",
		Delay:   1600 * time.Millisecond,
	}, h.toasts.Toasts[2])
}

func TestFinishStatusFailureStopsAfterUpdate(t *testing.T) {
	h := newHarness(order(6, types.StatusInProgress), dialogtest.Values(map[string]string{FieldSolution: "x", FieldDowntime: "1"}))
	h.api.Fail("SetStatus", &api.Error{StatusCode: http.StatusBadRequest})

	require.Error(t, h.ctrl.Finish(context.Background(), order(6, types.StatusInProgress)))
	assert.Equal(t, []string{api.GenericMessage}, h.toasts.Messages())
	assert.Zero(t, h.refreshes)
}

func TestRevertNeedsConfirmation(t *testing.T) {
	h := newHarness(order(7, types.StatusPartiallyClosed), dialogtest.No())

	err := h.ctrl.Revert(context.Background(), order(7, types.StatusPartiallyClosed))
	assert.ErrorIs(t, err, dialog.ErrCanceled)
	assert.Empty(t, h.api.Methods())
	assert.Empty(t, h.toasts.Messages())
	assert.Equal(t, RevertConfirm, h.dlg.Requests[0].Prompt)
}

func TestRevert(t *testing.T) {
	h := newHarness(order(7, types.StatusPartiallyClosed), dialogtest.Yes())

	require.NoError(t, h.ctrl.Advance(context.Background(), order(7, types.StatusPartiallyClosed)))
	assert.Equal(t, types.StatusInProgress, h.api.CallsTo("SetStatus")[0].Arg)
	assert.Equal(t, []string{RevertedMessage}, h.toasts.Messages())
}

func TestCloseRights(t *testing.T) {
	t.Run("technician without right", func(t *testing.T) {
		h := newHarness(order(8, types.StatusPartiallyClosed))
		h.ctrl.WithIdentity(session.Identity{Role: session.RoleTechnician})

		err := h.ctrl.Close(context.Background(), order(8, types.StatusPartiallyClosed))
		var notAllowed *NotAllowedError
		require.ErrorAs(t, err, &notAllowed)
		assert.Empty(t, h.api.Methods())
		assert.Empty(t, h.dlg.Requests)
	})

	t.Run("technician with right", func(t *testing.T) {
		h := newHarness(order(8, types.StatusPartiallyClosed), dialogtest.Yes())
		h.ctrl.WithIdentity(session.Identity{Role: session.RoleTechnician, CanClose: true})

		require.NoError(t, h.ctrl.Close(context.Background(), order(8, types.StatusPartiallyClosed)))
		assert.Equal(t, types.StatusClosed, h.api.Orders[8].Status)
		assert.Equal(t, []string{ClosedMessage}, h.toasts.Messages())
	})

	t.Run("close only from partially closed", func(t *testing.T) {
		h := newHarness(order(8, types.StatusInProgress))
		err := h.ctrl.Close(context.Background(), order(8, types.StatusInProgress))
		require.Error(t, err)
		assert.Empty(t, h.api.Methods())
	})
}

func TestCreateMarksRecent(t *testing.T) {
	h := newHarness(order(1, types.StatusPending))
	view := viewstate.New(time.Minute)
	h.ctrl.WithView(view)

	form := viewstate.NewFormValues("", "maquina", 12)
	form.Title = "Fuga de aceite"

	res, err := h.ctrl.Create(context.Background(), form)
	require.NoError(t, err)
	assert.True(t, view.Recent.Contains(res.ID))
	assert.Equal(t, []string{"OT OT-0100 creada"}, h.toasts.Messages())
}

func TestCreateRequiresMandatoryFields(t *testing.T) {
	h := newHarness(order(1, types.StatusPending))

	_, err := h.ctrl.Create(context.Background(), viewstate.NewFormValues("", "", 0))
	require.Error(t, err)
	assert.Empty(t, h.api.Methods())
	assert.Equal(t, []string{viewstate.MissingFieldsMessage}, h.toasts.Messages())
}

func TestEdit(t *testing.T) {
	o := order(9, types.StatusPending)
	h := newHarness(o)
	form := viewstate.FormValuesFromOrder(o).WithAsset(viewstate.AssetSelection{Type: "linea", ID: 3})
	form.Title = "Nuevo título"

	require.NoError(t, h.ctrl.Edit(context.Background(), o, form))
	assert.Equal(t, "Nuevo título", h.api.Orders[9].Title)
	assert.Equal(t, []string{"Orden actualizada"}, h.toasts.Messages())
}

func TestEditRefusedOnceClosed(t *testing.T) {
	tests := []struct {
		status types.Status
		want   string
	}{
		{types.StatusClosed, "No se puede editar una orden cerrada"},
		{types.StatusCancelled, "No se puede editar una orden cancelada"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			o := order(9, tt.status)
			h := newHarness(o)
			form := viewstate.FormValuesFromOrder(o).WithAsset(viewstate.AssetSelection{Type: "linea", ID: 3})
			form.Title = "Nuevo título"

			err := h.ctrl.Edit(context.Background(), o, form)
			var notAllowed *NotAllowedError
			require.ErrorAs(t, err, &notAllowed)
			assert.Empty(t, h.api.CallsTo("UpdateOrder"))
			assert.Equal(t, []string{tt.want}, h.toasts.Messages())
		})
	}
}

func TestDelete(t *testing.T) {
	t.Run("technicians cannot delete", func(t *testing.T) {
		h := newHarness(order(10, types.StatusPending))
		h.ctrl.WithIdentity(session.Identity{Role: session.RoleTechnician, CanClose: true})

		require.Error(t, h.ctrl.Delete(context.Background(), order(10, types.StatusPending)))
		assert.Empty(t, h.api.Methods())
	})

	t.Run("confirmed", func(t *testing.T) {
		h := newHarness(order(10, types.StatusPending), dialogtest.Yes())

		require.NoError(t, h.ctrl.Delete(context.Background(), order(10, types.StatusPending)))
		assert.Equal(t, DeleteConfirm, h.dlg.Requests[0].Prompt)
		assert.NotContains(t, h.api.Orders, int64(10))
		assert.Equal(t, []string{"Orden eliminada correctamente"}, h.toasts.Messages())
	})

	t.Run("declined", func(t *testing.T) {
		h := newHarness(order(10, types.StatusPending), dialogtest.Cancel())

		assert.ErrorIs(t, h.ctrl.Delete(context.Background(), order(10, types.StatusPending)), dialog.ErrCanceled)
		assert.Empty(t, h.api.Methods())
	})
}

func TestAssign(t *testing.T) {
	h := newHarness(order(11, types.StatusPending), dialogtest.Select("Marta"))

	require.NoError(t, h.ctrl.Assign(context.Background(), order(11, types.StatusPending)))

	req := h.dlg.Requests[0]
	assert.Empty(t, req.Default, "assignment does not preselect")
	assert.Equal(t, "Otro (introducir manualmente)", req.Options[len(req.Options)-1].Label)
	assert.Equal(t, "Marta", h.api.Orders[11].AssignedTechnician)
	assert.Equal(t, types.StatusPending, h.api.Orders[11].Status)
	assert.Empty(t, h.api.CallsTo("SetStatus"))
	assert.Equal(t, []string{"OT asignada a Marta"}, h.toasts.Messages())
}

func TestAssignRequiresTechnician(t *testing.T) {
	h := newHarness(order(11, types.StatusPending), dialogtest.Select(""))

	require.Error(t, h.ctrl.Assign(context.Background(), order(11, types.StatusPending)))
	assert.Equal(t, []string{"Selecciona o introduce un técnico"}, h.toasts.Messages())
}

func TestMissingRefreshIsLogged(t *testing.T) {
	h := newHarness(order(7, types.StatusPartiallyClosed), dialogtest.Yes())
	core, logs := observer.New(zap.DebugLevel)
	h.ctrl.WithRefresh(nil).WithLogger(zap.New(core))

	require.NoError(t, h.ctrl.Revert(context.Background(), order(7, types.StatusPartiallyClosed)))
	assert.Equal(t, 1, logs.FilterMessage("refresh callback not set").Len())
	assert.Equal(t, 1, h.dlg.Closed)
}

func TestDismissedPromptIsSilent(t *testing.T) {
	h := newHarness(order(1, types.StatusPending), dialogtest.Cancel())

	err := h.ctrl.Start(context.Background(), order(1, types.StatusPending))
	assert.ErrorIs(t, err, dialog.ErrCanceled)
	assert.Empty(t, h.toasts.Messages())
}

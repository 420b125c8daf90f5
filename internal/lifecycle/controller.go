package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/checklist"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/session"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/validation"
	"github.com/plantops/ot/internal/viewstate"
)

// Default delays of the follow-up toasts shown after finishing work.
const (
	DefaultCorrectiveDelay = 800 * time.Millisecond
	DefaultNewOrderDelay   = 1600 * time.Millisecond
)

// OtherTechnician is the option that switches the technician prompt to
// manual entry.
const OtherTechnician = "__otro__"

// DeleteConfirm is asked before deleting an order.
const DeleteConfirm = "¿Estás seguro de que quieres eliminar esta orden de trabajo? Esta acción no se puede deshacer y eliminará todos los datos asociados (tiempos, consumos, etc.)."

// Controller runs lifecycle actions against the backend. It never changes
// an order locally: after a successful call it asks the view to refresh and
// closes any open dialog. A failed call is reported once through the
// notifier and the view is left as it was.
type Controller struct {
	API      api.Service
	Dialog   dialog.Dialog
	Notifier notification.Notifier
	View     *viewstate.State
	Identity session.Identity

	// Refresh redraws whatever shows the order. Nil only logs.
	Refresh func()
	// Capture holds the checklist inputs currently shown; finish saves
	// them before changing the status.
	Capture *checklist.Capture

	CorrectiveDelay time.Duration
	NewOrderDelay   time.Duration

	logger *zap.Logger
}

// New returns a controller with default toast delays.
func New(svc api.Service, dlg dialog.Dialog, n notification.Notifier) *Controller {
	return &Controller{
		API:             svc,
		Dialog:          dlg,
		Notifier:        n,
		CorrectiveDelay: DefaultCorrectiveDelay,
		NewOrderDelay:   DefaultNewOrderDelay,
		logger:          zap.NewNop(),
	}
}

// WithLogger sets the diagnostics logger.
func (c *Controller) WithLogger(l *zap.Logger) *Controller {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithIdentity sets the user the actions are offered to.
func (c *Controller) WithIdentity(id session.Identity) *Controller {
	c.Identity = id
	return c
}

// WithView sets the view state receiving recently-created ids.
func (c *Controller) WithView(v *viewstate.State) *Controller {
	c.View = v
	return c
}

// WithRefresh sets the refresh callback.
func (c *Controller) WithRefresh(fn func()) *Controller {
	c.Refresh = fn
	return c
}

func (c *Controller) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// Available returns the actions the current user may run on o.
func (c *Controller) Available(o *types.WorkOrder) []Transition {
	return Available(o.Status, c.Identity)
}

// Run performs action on o. It is the single entry point for every row of
// Table; the named methods below are shorthands.
func (c *Controller) Run(ctx context.Context, o *types.WorkOrder, action Action) error {
	t, ok := Lookup(o.Status, action)
	if !ok {
		return c.fail(&NotAllowedError{Action: action, Status: o.Status})
	}
	if t.NeedsCloseRight && !c.Identity.MayClose() {
		return c.fail(&NotAllowedError{
			Action: action,
			Status: o.Status,
			Reason: "No tienes permiso para realizar el cierre definitivo",
		})
	}
	if t.Confirm != "" {
		yes, err := dialog.Confirm(ctx, c.Dialog, "confirm-"+string(action), action.Label(), t.Confirm)
		if err != nil {
			return c.fail(err)
		}
		if !yes {
			return dialog.ErrCanceled
		}
	}

	c.log().Debug("running lifecycle action",
		zap.Int64("order_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.String("action", string(action)))

	switch action {
	case ActionStart:
		return c.start(ctx, o)
	case ActionPause:
		return c.pause(ctx, o)
	case ActionFinish:
		return c.finish(ctx, o, t)
	default:
		return c.setStatus(ctx, o, t)
	}
}

// Advance runs the primary action of the order's status.
func (c *Controller) Advance(ctx context.Context, o *types.WorkOrder) error {
	t, ok := Primary(o.Status)
	if !ok {
		return c.fail(&NotAllowedError{
			Status: o.Status,
			Reason: fmt.Sprintf("La orden está %s y no admite más acciones", strings.ToLower(o.Status.Label())),
		})
	}
	return c.Run(ctx, o, t.Action)
}

func (c *Controller) Start(ctx context.Context, o *types.WorkOrder) error {
	return c.Run(ctx, o, ActionStart)
}

func (c *Controller) Pause(ctx context.Context, o *types.WorkOrder) error {
	return c.Run(ctx, o, ActionPause)
}

func (c *Controller) Finish(ctx context.Context, o *types.WorkOrder) error {
	return c.Run(ctx, o, ActionFinish)
}

func (c *Controller) Revert(ctx context.Context, o *types.WorkOrder) error {
	return c.Run(ctx, o, ActionRevert)
}

func (c *Controller) Close(ctx context.Context, o *types.WorkOrder) error {
	return c.Run(ctx, o, ActionClose)
}

func (c *Controller) start(ctx context.Context, o *types.WorkOrder) error {
	name, err := c.promptTechnician(ctx, techPrompt{
		id:        "start-technician",
		title:     "Iniciar Trabajo",
		label:     "¿Quién inicia el trabajo?",
		missing:   "Indica quién realiza el trabajo",
		preselect: true,
	})
	if err != nil {
		return c.fail(err)
	}
	res, err := c.API.StartWork(ctx, o.ID, name)
	if err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, res.Message)
	return nil
}

func (c *Controller) pause(ctx context.Context, o *types.WorkOrder) error {
	name, err := c.promptTechnician(ctx, techPrompt{
		id:        "pause-technician",
		title:     "Pausar Trabajo",
		label:     "¿Quién pausa el trabajo?",
		missing:   "Indica quién pausa el trabajo",
		preselect: true,
	})
	if err != nil {
		return c.fail(err)
	}
	res, err := c.API.PauseWork(ctx, o.ID, name)
	if err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess,
		fmt.Sprintf("%s. Duración: %sh", res.Message, formatHours(res.SessionHours)))
	return nil
}

func (c *Controller) finish(ctx context.Context, o *types.WorkOrder, t Transition) error {
	values, err := dialog.Form(ctx, c.Dialog, "finish", "Finalizar Trabajo (Cierre Parcial)", FinishFields())
	if err != nil {
		return c.fail(err)
	}
	form, err := ParseFinishForm(values)
	if err != nil {
		return c.fail(err)
	}
	if err := c.API.UpdateOrder(ctx, o.ID, form.Input()); err != nil {
		return c.fail(err)
	}

	saver := checklist.Saver{API: c.API, Notifier: c.Notifier, Logger: c.log()}
	saver.AutoSave(ctx, o.ID, c.Capture)

	res, err := c.API.SetStatus(ctx, o.ID, t.To)
	if err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, t.Done)
	c.announceFollowUps(res)
	return nil
}

// announceFollowUps shows the orders the server generated while closing:
// correctives from failed checklist items, and the next preventive one.
func (c *Controller) announceFollowUps(res *types.TransitionResult) {
	if len(res.CorrectiveOrders) > 0 {
		c.Notifier.NotifyAfter(c.CorrectiveDelay, notification.LevelWarning, "⚠️ "+res.CorrectiveMessage)
	}
	if res.NewOrder != "" {
		c.Notifier.NotifyAfter(c.NewOrderDelay, notification.LevelInfo, "📅 "+res.NewOrderMessage)
	}
}

func (c *Controller) setStatus(ctx context.Context, o *types.WorkOrder, t Transition) error {
	res, err := c.API.SetStatus(ctx, o.ID, t.To)
	if err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, t.Done)
	c.announceFollowUps(res)
	return nil
}

// Create validates the form, creates the order and marks it as recently
// created.
func (c *Controller) Create(ctx context.Context, form viewstate.FormValues) (*types.CreateResult, error) {
	if err := validation.Struct(form); err != nil {
		return nil, c.fail(err)
	}
	res, err := c.API.CreateOrder(ctx, form.Input())
	if err != nil {
		return nil, c.fail(err)
	}
	if c.View != nil {
		c.View.Recent.Add(res.ID)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, fmt.Sprintf("OT %s creada", res.Number))
	return res, nil
}

// CheckEditable refuses orders that are closed or cancelled.
func (c *Controller) CheckEditable(o *types.WorkOrder) error {
	if o.IsOpen() {
		return nil
	}
	return c.fail(&NotAllowedError{
		Status: o.Status,
		Reason: fmt.Sprintf("No se puede editar una orden %s", strings.ToLower(o.Status.Label())),
	})
}

// Edit validates the form and saves it over o. Only open orders can be
// edited.
func (c *Controller) Edit(ctx context.Context, o *types.WorkOrder, form viewstate.FormValues) error {
	if err := c.CheckEditable(o); err != nil {
		return err
	}
	if err := validation.Struct(form); err != nil {
		return c.fail(err)
	}
	if err := c.API.UpdateOrder(ctx, o.ID, form.Input()); err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, "Orden actualizada")
	return nil
}

// Delete removes the order after confirmation. Technicians cannot delete.
func (c *Controller) Delete(ctx context.Context, o *types.WorkOrder) error {
	if !c.Identity.MayDelete() {
		return c.fail(&NotAllowedError{Status: o.Status, Reason: "No tienes permiso para eliminar órdenes"})
	}
	yes, err := dialog.Confirm(ctx, c.Dialog, "confirm-delete", "Eliminar Orden", DeleteConfirm)
	if err != nil {
		return c.fail(err)
	}
	if !yes {
		return dialog.ErrCanceled
	}
	if err := c.API.DeleteOrder(ctx, o.ID); err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, "Orden eliminada correctamente")
	return nil
}

// Assign sets the order's technician. The status is left alone.
func (c *Controller) Assign(ctx context.Context, o *types.WorkOrder) error {
	name, err := c.promptTechnician(ctx, techPrompt{
		id:          "assign-technician",
		title:       "Asignar Técnico",
		label:       "Técnico asignado",
		missing:     "Selecciona o introduce un técnico",
		otherLabel:  "Otro (introducir manualmente)",
		manualLabel: "Nombre del técnico",
	})
	if err != nil {
		return c.fail(err)
	}
	if err := c.API.UpdateOrder(ctx, o.ID, types.OrderInput{AssignedTechnician: &name}); err != nil {
		return c.fail(err)
	}
	c.succeeded()
	c.Notifier.Notify(notification.LevelSuccess, fmt.Sprintf("OT asignada a %s", name))
	return nil
}

// fail reports err to the user and returns it. Dismissed dialogs are
// returned silently.
func (c *Controller) fail(err error) error {
	if errors.Is(err, dialog.ErrCanceled) {
		return err
	}
	c.Notifier.Notify(notification.LevelError, api.UserMessage(err))
	return err
}

func (c *Controller) succeeded() {
	c.Dialog.Close()
	if c.Refresh == nil {
		c.log().Debug("refresh callback not set")
		return
	}
	c.Refresh()
}

func formatHours(h *float64) string {
	if h == nil {
		return "0"
	}
	return strconv.FormatFloat(*h, 'f', -1, 64)
}

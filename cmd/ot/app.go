package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/checklist"
	"github.com/plantops/ot/internal/config"
	"github.com/plantops/ot/internal/debug"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/ledger"
	"github.com/plantops/ot/internal/lifecycle"
	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/session"
	"github.com/plantops/ot/internal/telemetry"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/ui"
	"github.com/plantops/ot/internal/validation"
	"github.com/plantops/ot/internal/viewstate"
)

// appContext holds the collaborators of one invocation.
type appContext struct {
	api      api.Service
	dialog   dialog.Dialog
	notifier *notification.Dispatcher
	identity session.Identity
	view     *viewstate.State
	ctrl     *lifecycle.Controller
	ledger   *ledger.Service
	saver    *checklist.Saver

	// refreshed is set when an action changed the order on the server.
	refreshed bool
}

func newApp(ctx context.Context) (*appContext, error) {
	log := debug.Logger()

	token := config.GetString(config.KeyAPIToken)
	identity, err := session.Resolve(token, session.Identity{
		Role:       config.GetString(config.KeyUserRole),
		Technician: config.GetString(config.KeyUserTechnician),
		CanClose:   config.GetBool(config.KeyUserCanClose),
	})
	if err != nil {
		WarnError("ignoring token claims: %v", err)
	}
	log.Debug("session resolved",
		zap.String("role", identity.Role),
		zap.String("technician", identity.Technician),
		zap.Bool("can_close", identity.CanClose))

	svc := telemetry.WrapService(newService(config.GetString(config.KeyAPIURL), token))

	a := &appContext{
		api:      svc,
		dialog:   newDialog(),
		notifier: newNotifier(log),
		identity: identity,
		view:     viewstate.New(config.GetDuration(config.KeyRecentTTL)),
	}
	a.ctrl = lifecycle.New(svc, a.dialog, a.notifier).
		WithLogger(log).
		WithIdentity(identity).
		WithView(a.view).
		WithRefresh(func() { a.refreshed = true })
	if d := config.GetDuration(config.KeyToastCorrective); d > 0 {
		a.ctrl.CorrectiveDelay = d
	}
	if d := config.GetDuration(config.KeyToastNewOrder); d > 0 {
		a.ctrl.NewOrderDelay = d
	}
	a.ledger = &ledger.Service{API: svc, Dialog: a.dialog, Notifier: a.notifier}
	a.saver = &checklist.Saver{API: svc, Notifier: a.notifier, Logger: log}
	return a, nil
}

// newNotifier delivers toasts to the terminal, and to the configured
// webhook when there is one. JSON mode keeps stderr free of toasts.
func newNotifier(log *zap.Logger) *notification.Dispatcher {
	var channels []notification.Channel
	if !jsonOutput {
		var term notification.Channel = notification.NewTerminal(toastOut, ui.RenderToast)
		if quietFlag {
			term = errorsOnly{term}
		}
		channels = append(channels, term)
	}
	if url := config.GetString(config.KeyNotifyWebhook); url != "" {
		channels = append(channels, notification.NewWebhook(url, "ot"))
	}
	onError := func(channel string, err error) {
		log.Warn("notification delivery failed", zap.String("channel", channel), zap.Error(err))
	}
	return notification.NewDispatcher(onError, channels...)
}

// errorsOnly drops success and info toasts (--quiet).
type errorsOnly struct {
	notification.Channel
}

func (c errorsOnly) Deliver(t notification.Toast) error {
	if t.Level == notification.LevelSuccess || t.Level == notification.LevelInfo {
		return nil
	}
	return c.Channel.Deliver(t)
}

// close waits for delayed toasts before the process exits.
func (a *appContext) close() {
	a.notifier.Wait()
	a.dialog.Close()
}

// loadOrder fetches an order for a command. Failures are reported.
func (a *appContext) loadOrder(ctx context.Context, arg string) (*types.WorkOrder, error) {
	id, err := parseOrderID(arg)
	if err != nil {
		return nil, err
	}
	o, err := a.api.GetOrder(ctx, id)
	if err != nil {
		return nil, a.report(err)
	}
	return o, nil
}

// loadTypes fills the intervention-type cache. A failure leaves the
// built-in fallbacks in place.
func (a *appContext) loadTypes(ctx context.Context) {
	catalog, err := a.api.ListInterventionTypes(ctx)
	if err != nil {
		debug.Logger().Warn("intervention types unavailable", zap.Error(err))
		return
	}
	a.view.Init(catalog)
}

// report shows err as an error toast and marks it as shown.
func (a *appContext) report(err error) error {
	var shown *reportedError
	if err == nil || errors.Is(err, dialog.ErrCanceled) || errors.As(err, &shown) {
		return err
	}
	a.notifier.Notify(notification.LevelError, api.UserMessage(err))
	return reported(err)
}

func parseOrderID(arg string) (int64, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(arg), "#")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Fail("id", "Identificador de OT no válido: "+strconv.Quote(arg))
	}
	return id, nil
}

package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/validation"
)

// Service adds and removes consumption and external-cost lines. Every
// successful change re-fetches the order so the caller can redraw it.
type Service struct {
	API      api.Service
	Dialog   dialog.Dialog
	Notifier notification.Notifier
}

// CostForm is the raw input of the add-external-cost form.
type CostForm struct {
	Provider    string
	Description string
	Amount      string
}

func (s *Service) fail(err error) error {
	s.Notifier.Notify(notification.LevelError, api.UserMessage(err))
	return err
}

func (s *Service) refetch(ctx context.Context, id int64) (*types.WorkOrder, error) {
	o, err := s.API.GetOrder(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return o, nil
}

// AddConsumption records quantity units of a spare part. partID is zero
// when nothing was picked from the suggestions.
func (s *Service) AddConsumption(ctx context.Context, orderID, partID int64, quantity float64) (*types.WorkOrder, error) {
	if partID <= 0 {
		return nil, s.fail(validation.Fail("recambioId", "Selecciona un recambio de la lista"))
	}
	if quantity <= 0 {
		return nil, s.fail(validation.Fail("cantidad", "Indica la cantidad"))
	}
	in := types.ConsumptionInput{SparePartID: partID, Quantity: quantity}
	if err := validation.Struct(in); err != nil {
		return nil, s.fail(err)
	}

	if err := s.API.AddConsumption(ctx, orderID, in); err != nil {
		return nil, s.fail(err)
	}
	s.Notifier.Notify(notification.LevelSuccess, "Consumo añadido correctamente")
	return s.refetch(ctx, orderID)
}

// RemoveConsumption deletes a consumption line after confirmation. A
// declined confirmation returns the order unchanged and makes no call.
func (s *Service) RemoveConsumption(ctx context.Context, o *types.WorkOrder, consumptionID int64) (*types.WorkOrder, error) {
	if !o.IsOpen() {
		return nil, s.fail(validation.Fail("estado", "No se pueden modificar los consumos de una OT cerrada"))
	}
	ok, err := dialog.Confirm(ctx, s.Dialog, "delete-consumption", "Eliminar consumo", "¿Eliminar este consumo?")
	if err != nil {
		return nil, s.fail(err)
	}
	if !ok {
		return o, nil
	}

	if err := s.API.DeleteConsumption(ctx, o.ID, consumptionID); err != nil {
		return nil, s.fail(err)
	}
	s.Notifier.Notify(notification.LevelSuccess, "Consumo eliminado")
	return s.refetch(ctx, o.ID)
}

// ParseAmount reads a cost amount. Blank or non-numeric input is rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, validation.Fail("coste", "Debe indicar el coste")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, validation.Fail("coste", "Debe indicar el coste")
	}
	return d, nil
}

// AddExternalCost appends an external cost line.
func (s *Service) AddExternalCost(ctx context.Context, orderID int64, form CostForm) (*types.WorkOrder, error) {
	amount, err := ParseAmount(form.Amount)
	if err != nil {
		return nil, s.fail(err)
	}
	in := types.ExternalCostInput{
		Provider:    form.Provider,
		Description: form.Description,
		Amount:      amount.InexactFloat64(),
	}
	if _, err := s.API.AddExternalCost(ctx, orderID, in); err != nil {
		return nil, s.fail(err)
	}
	s.Notifier.Notify(notification.LevelSuccess, "Coste externo añadido")
	return s.refetch(ctx, orderID)
}

// RemoveExternalCost deletes the cost at index after confirmation.
func (s *Service) RemoveExternalCost(ctx context.Context, o *types.WorkOrder, index int) (*types.WorkOrder, error) {
	if !o.IsOpen() {
		return nil, s.fail(validation.Fail("estado", "No se pueden modificar los costes de una OT cerrada"))
	}
	if index < 0 || index >= len(ExternalCosts(o)) {
		return nil, s.fail(validation.Fail("idx", "Coste externo no encontrado"))
	}
	ok, err := dialog.Confirm(ctx, s.Dialog, "delete-external-cost", "Eliminar coste", "¿Eliminar este coste externo?")
	if err != nil {
		return nil, s.fail(err)
	}
	if !ok {
		return o, nil
	}

	if _, err := s.API.DeleteExternalCost(ctx, o.ID, index); err != nil {
		return nil, s.fail(err)
	}
	s.Notifier.Notify(notification.LevelSuccess, "Coste eliminado")
	return s.refetch(ctx, o.ID)
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plantops/ot/internal/types"
)

// Service is the full set of backend calls used by the client. *Client
// implements it; telemetry and tests wrap or fake it.
type Service interface {
	GetOrder(ctx context.Context, id int64) (*types.WorkOrder, error)
	CreateOrder(ctx context.Context, in types.OrderInput) (*types.CreateResult, error)
	UpdateOrder(ctx context.Context, id int64, in types.OrderInput) error
	DeleteOrder(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status types.Status) (*types.TransitionResult, error)
	StartWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error)
	PauseWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error)

	AddConsumption(ctx context.Context, id int64, in types.ConsumptionInput) error
	DeleteConsumption(ctx context.Context, id, consumptionID int64) error
	AddExternalCost(ctx context.Context, id int64, in types.ExternalCostInput) (*types.ExternalCostResult, error)
	DeleteExternalCost(ctx context.Context, id int64, index int) (*types.ExternalCostResult, error)

	SaveChecklist(ctx context.Context, id int64, responses []types.ChecklistResponse) error
	GetChecklist(ctx context.Context, id int64) ([]types.ChecklistEntry, error)

	ListTechnicians(ctx context.Context) ([]types.Technician, error)
	ListSpareParts(ctx context.Context) ([]types.SparePart, error)
	ListInterventionTypes(ctx context.Context) ([]types.InterventionType, error)
	GetAssetTree(ctx context.Context) ([]types.AssetNode, error)
	ListAssets(ctx context.Context) ([]types.Asset, error)
}

var _ Service = (*Client)(nil)

func orderPath(id int64) string {
	return fmt.Sprintf("/api/orden/%d", id)
}

// GetOrder retrieves a single work order by ID.
func (c *Client) GetOrder(ctx context.Context, id int64) (*types.WorkOrder, error) {
	var order types.WorkOrder
	if err := c.do(ctx, http.MethodGet, orderPath(id), nil, &order); err != nil {
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return &order, nil
}

// CreateOrder creates a work order and returns its id and number.
func (c *Client) CreateOrder(ctx context.Context, in types.OrderInput) (*types.CreateResult, error) {
	var result types.CreateResult
	if err := c.do(ctx, http.MethodPost, "/api/orden", in, &result); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &result, nil
}

// UpdateOrder sends a partial update; nil fields of in are left untouched.
func (c *Client) UpdateOrder(ctx context.Context, id int64, in types.OrderInput) error {
	if err := c.do(ctx, http.MethodPut, orderPath(id), in, nil); err != nil {
		return fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return nil
}

// DeleteOrder deletes a work order and everything attached to it.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, orderPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	return nil
}

// SetStatus asks the backend to move the order to status.
func (c *Client) SetStatus(ctx context.Context, id int64, status types.Status) (*types.TransitionResult, error) {
	body := map[string]types.Status{"estado": status}
	var result types.TransitionResult
	if err := c.do(ctx, http.MethodPut, orderPath(id)+"/estado", body, &result); err != nil {
		return nil, fmt.Errorf("failed to change status of order %d: %w", id, err)
	}
	return &result, nil
}

// StartWork opens a time entry for technician.
func (c *Client) StartWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error) {
	return c.workSession(ctx, id, "iniciar", technician)
}

// PauseWork closes the technician's open time entry.
func (c *Client) PauseWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error) {
	return c.workSession(ctx, id, "pausar", technician)
}

func (c *Client) workSession(ctx context.Context, id int64, action, technician string) (*types.WorkSessionResult, error) {
	body := map[string]string{"tecnico": technician}
	var result types.WorkSessionResult
	if err := c.do(ctx, http.MethodPost, orderPath(id)+"/"+action, body, &result); err != nil {
		return nil, fmt.Errorf("failed to %s work on order %d: %w", action, id, err)
	}
	return &result, nil
}

// AddConsumption records a spare part consumed by the order.
func (c *Client) AddConsumption(ctx context.Context, id int64, in types.ConsumptionInput) error {
	if err := c.do(ctx, http.MethodPost, orderPath(id)+"/consumo", in, nil); err != nil {
		return fmt.Errorf("failed to add consumption to order %d: %w", id, err)
	}
	return nil
}

// DeleteConsumption removes a consumption line.
func (c *Client) DeleteConsumption(ctx context.Context, id, consumptionID int64) error {
	path := fmt.Sprintf("%s/consumo/%d", orderPath(id), consumptionID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete consumption %d: %w", consumptionID, err)
	}
	return nil
}

// AddExternalCost appends an external cost line.
func (c *Client) AddExternalCost(ctx context.Context, id int64, in types.ExternalCostInput) (*types.ExternalCostResult, error) {
	var result types.ExternalCostResult
	if err := c.do(ctx, http.MethodPost, orderPath(id)+"/coste-externo", in, &result); err != nil {
		return nil, fmt.Errorf("failed to add external cost to order %d: %w", id, err)
	}
	return &result, nil
}

// DeleteExternalCost removes the external cost at index (position in the
// structured list).
func (c *Client) DeleteExternalCost(ctx context.Context, id int64, index int) (*types.ExternalCostResult, error) {
	path := fmt.Sprintf("%s/coste-externo/%d", orderPath(id), index)
	var result types.ExternalCostResult
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to delete external cost %d: %w", index, err)
	}
	return &result, nil
}

// SaveChecklist replaces all checklist responses of the order.
func (c *Client) SaveChecklist(ctx context.Context, id int64, responses []types.ChecklistResponse) error {
	if responses == nil {
		responses = []types.ChecklistResponse{}
	}
	if err := c.do(ctx, http.MethodPost, orderPath(id)+"/checklist", responses, nil); err != nil {
		return fmt.Errorf("failed to save checklist of order %d: %w", id, err)
	}
	return nil
}

// GetChecklist returns the checklist items of the order merged with their
// saved responses.
func (c *Client) GetChecklist(ctx context.Context, id int64) ([]types.ChecklistEntry, error) {
	var entries []types.ChecklistEntry
	if err := c.do(ctx, http.MethodGet, orderPath(id)+"/checklist", nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch checklist of order %d: %w", id, err)
	}
	return entries, nil
}

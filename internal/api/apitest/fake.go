// Package apitest provides an in-memory api.Service for controller tests.
package apitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/types"
)

// Fake records every call and answers from its fields. Set Errors[method]
// to make a call fail; methods are keyed by name, e.g. "SetStatus".
type Fake struct {
	mu sync.Mutex

	Orders       map[int64]*types.WorkOrder
	Technicians  []types.Technician
	SpareParts   []types.SparePart
	Types        []types.InterventionType
	AssetTree    []types.AssetNode
	Assets       []types.Asset
	Checklist    []types.ChecklistEntry
	Transition   types.TransitionResult
	Session      types.WorkSessionResult
	NextID       int64
	Errors       map[string]error
	Calls        []Call
	SavedAnswers [][]types.ChecklistResponse
}

// Call is one recorded invocation.
type Call struct {
	Method string
	ID     int64
	Arg    any
}

var _ api.Service = (*Fake)(nil)

// New returns a Fake holding the given orders.
func New(orders ...*types.WorkOrder) *Fake {
	f := &Fake{
		Orders: make(map[int64]*types.WorkOrder),
		Errors: make(map[string]error),
		NextID: 100,
	}
	for _, o := range orders {
		f.Orders[o.ID] = o
	}
	return f
}

// Fail makes method return err.
func (f *Fake) Fail(method string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[method] = err
	return f
}

// Methods returns the recorded method names in call order.
func (f *Fake) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Method
	}
	return out
}

// CallsTo returns the recorded calls of one method.
func (f *Fake) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) record(method string, id int64, arg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Method: method, ID: id, Arg: arg})
	return f.Errors[method]
}

func (f *Fake) order(id int64) (*types.WorkOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.Orders[id]
	if !ok {
		return nil, &api.Error{StatusCode: 404, Message: fmt.Sprintf("OT %d no encontrada", id)}
	}
	return o, nil
}

func (f *Fake) GetOrder(ctx context.Context, id int64) (*types.WorkOrder, error) {
	if err := f.record("GetOrder", id, nil); err != nil {
		return nil, err
	}
	o, err := f.order(id)
	if err != nil {
		return nil, err
	}
	cp := *o
	return &cp, nil
}

func (f *Fake) CreateOrder(ctx context.Context, in types.OrderInput) (*types.CreateResult, error) {
	if err := f.record("CreateOrder", 0, in); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.NextID
	f.NextID++
	number := fmt.Sprintf("OT-%04d", id)
	o := &types.WorkOrder{ID: id, Number: number, Status: types.StatusPending}
	if in.Title != nil {
		o.Title = *in.Title
	}
	if in.Type != nil {
		o.Type = *in.Type
	}
	f.Orders[id] = o
	return &types.CreateResult{ID: id, Number: number, Message: "OT creada"}, nil
}

func (f *Fake) UpdateOrder(ctx context.Context, id int64, in types.OrderInput) error {
	if err := f.record("UpdateOrder", id, in); err != nil {
		return err
	}
	o, err := f.order(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.AssignedTechnician != nil {
		o.AssignedTechnician = *in.AssignedTechnician
	}
	if in.SolutionDescription != nil {
		o.SolutionDescription = *in.SolutionDescription
	}
	if in.DowntimeHours != nil {
		v := *in.DowntimeHours
		o.DowntimeHours = &v
	}
	if in.Title != nil {
		o.Title = *in.Title
	}
	return nil
}

func (f *Fake) DeleteOrder(ctx context.Context, id int64) error {
	if err := f.record("DeleteOrder", id, nil); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Orders, id)
	return nil
}

func (f *Fake) SetStatus(ctx context.Context, id int64, status types.Status) (*types.TransitionResult, error) {
	if err := f.record("SetStatus", id, status); err != nil {
		return nil, err
	}
	o, err := f.order(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o.Status = status
	res := f.Transition
	if res.Message == "" {
		res.Message = "Estado actualizado"
	}
	return &res, nil
}

func (f *Fake) StartWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error) {
	if err := f.record("StartWork", id, technician); err != nil {
		return nil, err
	}
	o, err := f.order(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o.Status = types.StatusInProgress
	res := f.Session
	return &res, nil
}

func (f *Fake) PauseWork(ctx context.Context, id int64, technician string) (*types.WorkSessionResult, error) {
	if err := f.record("PauseWork", id, technician); err != nil {
		return nil, err
	}
	res := f.Session
	return &res, nil
}

func (f *Fake) AddConsumption(ctx context.Context, id int64, in types.ConsumptionInput) error {
	return f.record("AddConsumption", id, in)
}

func (f *Fake) DeleteConsumption(ctx context.Context, id, consumptionID int64) error {
	return f.record("DeleteConsumption", id, consumptionID)
}

func (f *Fake) AddExternalCost(ctx context.Context, id int64, in types.ExternalCostInput) (*types.ExternalCostResult, error) {
	if err := f.record("AddExternalCost", id, in); err != nil {
		return nil, err
	}
	return &types.ExternalCostResult{Message: "Coste añadido"}, nil
}

func (f *Fake) DeleteExternalCost(ctx context.Context, id int64, index int) (*types.ExternalCostResult, error) {
	if err := f.record("DeleteExternalCost", id, index); err != nil {
		return nil, err
	}
	return &types.ExternalCostResult{Message: "Coste eliminado"}, nil
}

func (f *Fake) SaveChecklist(ctx context.Context, id int64, responses []types.ChecklistResponse) error {
	if err := f.record("SaveChecklist", id, responses); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SavedAnswers = append(f.SavedAnswers, responses)
	return nil
}

func (f *Fake) GetChecklist(ctx context.Context, id int64) ([]types.ChecklistEntry, error) {
	if err := f.record("GetChecklist", id, nil); err != nil {
		return nil, err
	}
	return f.Checklist, nil
}

func (f *Fake) ListTechnicians(ctx context.Context) ([]types.Technician, error) {
	if err := f.record("ListTechnicians", 0, nil); err != nil {
		return nil, err
	}
	return f.Technicians, nil
}

func (f *Fake) ListSpareParts(ctx context.Context) ([]types.SparePart, error) {
	if err := f.record("ListSpareParts", 0, nil); err != nil {
		return nil, err
	}
	return f.SpareParts, nil
}

func (f *Fake) ListInterventionTypes(ctx context.Context) ([]types.InterventionType, error) {
	if err := f.record("ListInterventionTypes", 0, nil); err != nil {
		return nil, err
	}
	return f.Types, nil
}

func (f *Fake) GetAssetTree(ctx context.Context) ([]types.AssetNode, error) {
	if err := f.record("GetAssetTree", 0, nil); err != nil {
		return nil, err
	}
	return f.AssetTree, nil
}

func (f *Fake) ListAssets(ctx context.Context) ([]types.Asset, error) {
	if err := f.record("ListAssets", 0, nil); err != nil {
		return nil, err
	}
	return f.Assets, nil
}

package viewstate

import (
	"errors"
	"strings"

	"github.com/plantops/ot/internal/types"
)

// Presets of the "new order" form.
const (
	DefaultOrderType     = types.TypeCorrective
	DefaultPriority      = types.PriorityMedium
	DefaultEquipmentType = "maquina"
)

// ErrNoPickInProgress is returned when an asset pick is completed without
// having been started.
var ErrNoPickInProgress = errors.New("no asset selection in progress")

// AssetSelection is the equipment chosen in the order form.
type AssetSelection struct {
	Type string `validate:"required"`
	ID   int64  `validate:"required,gt=0"`
	Path string
	Icon string
}

// IsZero reports whether no asset has been chosen.
func (a AssetSelection) IsZero() bool {
	return a.ID == 0
}

// Display is the text shown in the asset field: icon then path.
func (a AssetSelection) Display() string {
	if a.IsZero() {
		return ""
	}
	return strings.TrimSpace(a.Icon + " " + a.Path)
}

// FormValues is the state of the create/edit order form. It is a value
// type: the picker hands back modified copies and never mutates one in place.
type FormValues struct {
	Type               string         `validate:"required"`
	Priority           types.Priority `validate:"required,priority"`
	Asset              AssetSelection
	Title              string `validate:"required"`
	ProblemDescription string
	Technician         string
	EstimatedHours     *float64 `validate:"omitempty,gte=0"`
	ScheduledDate      string   `validate:"omitempty,datetime=2006-01-02"`
}

// NewFormValues returns the presets for a new order. equipmentType and
// equipmentID may be empty to leave the asset unselected.
func NewFormValues(orderType, equipmentType string, equipmentID int64) FormValues {
	if orderType == "" {
		orderType = DefaultOrderType
	}
	if equipmentType == "" {
		equipmentType = DefaultEquipmentType
	}
	return FormValues{
		Type:     orderType,
		Priority: DefaultPriority,
		Asset:    AssetSelection{Type: equipmentType, ID: equipmentID},
	}
}

// FormValuesFromOrder fills the form with the values of an existing order.
func FormValuesFromOrder(o *types.WorkOrder) FormValues {
	f := FormValues{
		Type:               o.Type,
		Priority:           o.Priority,
		Title:              o.Title,
		ProblemDescription: o.ProblemDescription,
		Technician:         o.AssignedTechnician,
		EstimatedHours:     o.EstimatedHours,
		Asset: AssetSelection{
			Type: o.EquipmentType,
			Path: o.EquipmentPath,
			Icon: AssetIcon(o.EquipmentType),
		},
	}
	if f.Type == "" {
		f.Type = DefaultOrderType
	}
	if f.Priority == "" {
		f.Priority = DefaultPriority
	}
	if o.EquipmentID != nil {
		f.Asset.ID = *o.EquipmentID
	}
	if o.ScheduledAt != nil {
		f.ScheduledDate = o.ScheduledAt.Format("2006-01-02")
	}
	return f
}

// MissingFieldsMessage is shown when a mandatory form field is empty.
const MissingFieldsMessage = "Completa los campos obligatorios"

// ValidationMessages maps every mandatory field to the same notice; the
// form highlights the fields itself.
func (f FormValues) ValidationMessages() map[string]string {
	return map[string]string{
		"Type":              MissingFieldsMessage,
		"Priority.required": MissingFieldsMessage,
		"Title":             MissingFieldsMessage,
		"Asset.Type":        MissingFieldsMessage,
		"Asset.ID":          MissingFieldsMessage,
	}
}

// ResolveAsset completes the asset display fields from the flat asset list.
// The selection is returned unchanged when no entry matches.
func (f FormValues) ResolveAsset(assets []types.Asset) FormValues {
	if f.Asset.IsZero() {
		return f
	}
	for _, a := range assets {
		if a.Type == f.Asset.Type && a.ID == f.Asset.ID {
			f.Asset.Path = a.Path
			f.Asset.Icon = a.Icon
			if f.Asset.Icon == "" {
				f.Asset.Icon = AssetIcon(a.Type)
			}
			return f
		}
	}
	return f
}

// WithAsset returns a copy of f with sel applied.
func (f FormValues) WithAsset(sel AssetSelection) FormValues {
	f.Asset = sel
	return f
}

// Input converts the form into a create/update body.
func (f FormValues) Input() types.OrderInput {
	in := types.OrderInput{
		Type:               strPtr(f.Type),
		Priority:           &f.Priority,
		Title:              strPtr(f.Title),
		ProblemDescription: strPtr(f.ProblemDescription),
		AssignedTechnician: strPtr(f.Technician),
		EstimatedHours:     f.EstimatedHours,
	}
	if f.Asset.Type != "" {
		in.EquipmentType = strPtr(f.Asset.Type)
	}
	if !f.Asset.IsZero() {
		id := f.Asset.ID
		in.EquipmentID = &id
	}
	if f.ScheduledDate != "" {
		in.ScheduledDate = strPtr(f.ScheduledDate)
	}
	return in
}

func strPtr(s string) *string {
	return &s
}

// BeginAssetPick snapshots the current form before the picker opens.
// Starting a new pick discards any earlier snapshot.
func (s *State) BeginAssetPick(current FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := current
	s.snapshot = &snap
}

// CompleteAssetPick returns the snapshot with sel applied and ends the pick.
func (s *State) CompleteAssetPick(sel AssetSelection) (FormValues, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return FormValues{}, ErrNoPickInProgress
	}
	f := s.snapshot.WithAsset(sel)
	s.snapshot = nil
	return f, nil
}

// CancelAssetPick returns the snapshot unchanged and ends the pick. The
// boolean is false when no pick was in progress.
func (s *State) CancelAssetPick() (FormValues, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return FormValues{}, false
	}
	f := *s.snapshot
	s.snapshot = nil
	return f, true
}

// PickInProgress reports whether BeginAssetPick is awaiting completion.
func (s *State) PickInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Package types defines the work-order data structures exchanged with the
// maintenance backend.
package types

import (
	"strings"
)

// WorkOrder is a maintenance work order (OT) as returned by GET /api/orden/{id}.
// The backend owns every field; the client never persists it.
type WorkOrder struct {
	ID                  int64      `json:"id"`
	Number              string     `json:"numero"`
	Type                string     `json:"tipo"`
	Priority            Priority   `json:"prioridad"`
	Status              Status     `json:"estado"`
	Title               string     `json:"titulo"`
	ProblemDescription  string     `json:"descripcionProblema,omitempty"`
	SolutionDescription string     `json:"descripcionSolucion,omitempty"`
	Observations        string     `json:"observaciones,omitempty"`
	CreatedAt           *Timestamp `json:"fechaCreacion,omitempty"`
	ScheduledAt         *Timestamp `json:"fechaProgramada,omitempty"`
	StartedAt           *Timestamp `json:"fechaInicio,omitempty"`
	EndedAt             *Timestamp `json:"fechaFin,omitempty"`

	// Equipment reference: any level of the asset hierarchy.
	EquipmentType string `json:"equipoTipo,omitempty"`
	EquipmentID   *int64 `json:"equipoId,omitempty"`
	EquipmentName string `json:"equipoNombre,omitempty"`
	EquipmentCode string `json:"equipoCodigo,omitempty"`
	EquipmentPath string `json:"equipoRuta,omitempty"`
	MachineName   string `json:"maquinaNombre,omitempty"` // legacy records

	AssignedTechnician string   `json:"tecnicoAsignado,omitempty"`
	EstimatedHours     *float64 `json:"tiempoEstimado,omitempty"`
	RepairHours        *float64 `json:"tiempoReal,omitempty"`
	DowntimeHours      *float64 `json:"tiempoParada,omitempty"`

	// External costs. ExternalCostsJSON holds the structured list; the flat
	// Legacy* fields are only populated on records that predate it.
	ExternalCostsJSON         string   `json:"costesExternosJson,omitempty"`
	LegacyExternalCost        *float64 `json:"costeTallerExterno,omitempty"`
	LegacyExternalProvider    string   `json:"proveedorExterno,omitempty"`
	LegacyExternalDescription string   `json:"descripcionTallerExterno,omitempty"`

	// Preventive routine
	RoutineName        string              `json:"gamaNombre,omitempty"`
	RoutineTasks       []RoutineTask       `json:"gamaTareas,omitempty"`
	ChecklistItems     []ChecklistItem     `json:"checklistItems,omitempty"`
	ChecklistResponses []ChecklistResponse `json:"respuestasChecklist,omitempty"`

	Consumption []ConsumptionLine `json:"consumos,omitempty"`
	TimeEntries []TimeEntry       `json:"registrosTiempo,omitempty"`
}

// IsOpen reports whether the order still accepts work (not closed or cancelled).
func (o *WorkOrder) IsOpen() bool {
	return !o.Status.IsTerminal()
}

// IsPreventive reports whether the order was generated from a maintenance routine.
func (o *WorkOrder) IsPreventive() bool {
	return o.Type == TypePreventive
}

// HasChecklist reports whether the order carries checklist items to answer.
// Only preventive orders carry a checklist.
func (o *WorkOrder) HasChecklist() bool {
	return o.IsPreventive() && len(o.ChecklistItems) > 0
}

// ResponseFor returns the saved response for a checklist item, if any.
func (o *WorkOrder) ResponseFor(itemID int64) (ChecklistResponse, bool) {
	for _, r := range o.ChecklistResponses {
		if r.ItemID == itemID {
			return r, true
		}
	}
	return ChecklistResponse{}, false
}

// EquipmentLabel returns the best available equipment name.
func (o *WorkOrder) EquipmentLabel() string {
	if o.EquipmentName != "" {
		return o.EquipmentName
	}
	return o.MachineName
}

// TotalHours sums the recorded time entries.
func (o *WorkOrder) TotalHours() float64 {
	var total float64
	for _, e := range o.TimeEntries {
		total += e.DurationHours
	}
	return total
}

// Intervention type codes known to the client. Other codes come from the
// intervention-type catalog.
const (
	TypeCorrective = "correctivo"
	TypePreventive = "preventivo"
)

// Priority is the urgency of a work order.
type Priority string

// Priority constants
const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
	PriorityUrgent Priority = "urgente"
)

// Priorities lists priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label returns the display label for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Baja"
	case PriorityMedium:
		return "Media"
	case PriorityHigh:
		return "Alta"
	case PriorityUrgent:
		return "Urgente"
	}
	return string(p)
}

// TimeEntry is one work session recorded against an order.
type TimeEntry struct {
	ID            int64      `json:"id"`
	Technician    string     `json:"tecnico"`
	Start         *Timestamp `json:"inicio,omitempty"`
	End           *Timestamp `json:"fin,omitempty"`
	InProgress    bool       `json:"enCurso"`
	DurationHours float64    `json:"duracionHoras"`
}

// ConsumptionLine is a spare part consumed by an order.
// UnitPrice is nil when the part had no price at consumption time.
type ConsumptionLine struct {
	ID            int64    `json:"id"`
	SparePartID   int64    `json:"recambioId"`
	SparePartName string   `json:"recambioNombre"`
	Quantity      float64  `json:"cantidad"`
	UnitPrice     *float64 `json:"precioUnitario"`
}

// ExternalCost is a third-party cost line (workshop, contractor).
type ExternalCost struct {
	Provider    string  `json:"proveedor"`
	Description string  `json:"descripcion"`
	Amount      float64 `json:"coste"`
}

// RoutineTask is an operation listed by the maintenance routine of a
// preventive order.
type RoutineTask struct {
	ID               int64  `json:"id"`
	Description      string `json:"descripcion"`
	Order            int    `json:"orden"`
	EstimatedMinutes *int   `json:"duracionEstimada,omitempty"`
	Tools            string `json:"herramientas,omitempty"`
	Instructions     string `json:"instrucciones,omitempty"`
}

// Technician is an entry of GET /api/tecnicos.
type Technician struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombre"`
	Surname   string `json:"apellidos,omitempty"`
	Specialty string `json:"especialidad,omitempty"`
	Kind      string `json:"tipo_tecnico,omitempty"`
	Active    *bool  `json:"activo,omitempty"`
}

// FullName returns "first surname" without trailing blanks.
func (t Technician) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.Surname)
}

// IsActive treats a missing flag as active.
func (t Technician) IsActive() bool {
	return t.Active == nil || *t.Active
}

// Matches reports whether name refers to this technician, either by full
// name or by first name alone.
func (t Technician) Matches(name string) bool {
	if name == "" {
		return false
	}
	return name == t.FullName() || name == t.FirstName
}

// SparePart is an entry of GET /api/recambios.
type SparePart struct {
	ID          int64    `json:"id"`
	Code        string   `json:"codigo"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion,omitempty"`
	Category    string   `json:"categoria,omitempty"`
	Stock       float64  `json:"stockActual"`
	MinStock    float64  `json:"stockMinimo,omitempty"`
	UnitPrice   *float64 `json:"precioUnitario,omitempty"`
	Unit        string   `json:"unidadMedida,omitempty"`
	LowStock    bool     `json:"stockBajo,omitempty"`
}

// Label is the text shown for a suggestion: "CODE - Name".
func (p SparePart) Label() string {
	if p.Code == "" {
		return p.Name
	}
	return p.Code + " - " + p.Name
}

// InterventionType is an entry of the intervention-type catalog.
type InterventionType struct {
	ID          int64  `json:"id"`
	Code        string `json:"codigo"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Icon        string `json:"icono"`
	Color       string `json:"color"`
	Active      bool   `json:"activo"`
	Order       int    `json:"orden"`
}

// Defaults for codes missing from the intervention-type catalog.
const (
	DefaultTypeIcon  = "fa-wrench"
	DefaultTypeColor = "#666"
)

// Asset is an entry of the flat asset list (GET /api/equipos-lista).
type Asset struct {
	ID    int64  `json:"id"`
	Type  string `json:"tipo"`
	Name  string `json:"nombre"`
	Code  string `json:"codigo"`
	Path  string `json:"ruta"`
	Level int    `json:"nivel"`
	Icon  string `json:"icono"`
}

// AssetNode is a node of the asset hierarchy (GET /getActivosTree).
// ID has the form "<type>-<id>", e.g. "zona-3".
type AssetNode struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Children []AssetNode `json:"children,omitempty"`
}

// OrderInput is the body of create and update calls. Nil fields are omitted,
// which makes the same type usable for partial updates.
type OrderInput struct {
	Type                *string   `json:"tipo,omitempty"`
	Priority            *Priority `json:"prioridad,omitempty"`
	EquipmentType       *string   `json:"equipoTipo,omitempty"`
	EquipmentID         *int64    `json:"equipoId,omitempty"`
	Title               *string   `json:"titulo,omitempty"`
	ProblemDescription  *string   `json:"descripcionProblema,omitempty"`
	AssignedTechnician  *string   `json:"tecnicoAsignado,omitempty"`
	EstimatedHours      *float64  `json:"tiempoEstimado,omitempty"`
	ScheduledDate       *string   `json:"fechaProgramada,omitempty"` // YYYY-MM-DD
	SolutionDescription *string   `json:"descripcionSolucion,omitempty"`
	DowntimeHours       *float64  `json:"tiempoParada,omitempty"`
	Observations        *string   `json:"observaciones,omitempty"`
}

// CreateResult is the response of POST /api/orden.
type CreateResult struct {
	ID      int64  `json:"id"`
	Number  string `json:"numero"`
	Message string `json:"mensaje,omitempty"`
}

// TransitionResult is the response of PUT /api/orden/{id}/estado.
// The corrective and new-order fields are only present when the server
// generated follow-up orders while processing the transition.
type TransitionResult struct {
	Message           string   `json:"mensaje"`
	CorrectiveOrders  []string `json:"otsCorrectivas,omitempty"`
	CorrectiveMessage string   `json:"mensajeCorrectivos,omitempty"`
	NewOrder          string   `json:"nuevaOT,omitempty"`
	NewOrderMessage   string   `json:"mensajeOT,omitempty"`
}

// WorkSessionResult is the response of the start and pause endpoints.
type WorkSessionResult struct {
	Message      string   `json:"mensaje"`
	EntryID      int64    `json:"registroId,omitempty"`
	SessionHours *float64 `json:"duracionSesion,omitempty"`
	TotalHours   *float64 `json:"tiempoTotalOT,omitempty"`
}

// ExternalCostResult is the response of the external-cost endpoints.
type ExternalCostResult struct {
	Message string         `json:"mensaje"`
	Total   float64        `json:"total"`
	Costs   []ExternalCost `json:"costes"`
}

// ConsumptionInput is the body of POST /api/orden/{id}/consumo.
type ConsumptionInput struct {
	SparePartID int64   `json:"recambioId" validate:"required,gt=0"`
	Quantity    float64 `json:"cantidad" validate:"required,gt=0"`
}

// ExternalCostInput is the body of POST /api/orden/{id}/coste-externo.
type ExternalCostInput struct {
	Provider    string  `json:"proveedor"`
	Description string  `json:"descripcion"`
	Amount      float64 `json:"coste"`
}

// Message is the generic {"mensaje": ...} acknowledgement.
type Message struct {
	Message string `json:"mensaje"`
}

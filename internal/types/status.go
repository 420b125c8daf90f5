package types

// Status represents the lifecycle state of a work order.
// Transitions are owned by the backend; the client only reads the value
// and asks for the next one.
type Status string

// Status constants
const (
	StatusPending         Status = "pendiente"
	StatusInProgress      Status = "en_curso"
	StatusPartiallyClosed Status = "cerrado_parcial" // fieldwork done, awaiting sign-off
	StatusClosed          Status = "cerrada"
	StatusCancelled       Status = "cancelada"
)

// StatusFlow is the progress sequence shown in the detail view.
// Cancelled orders are not part of it.
var StatusFlow = []Status{
	StatusPending,
	StatusInProgress,
	StatusPartiallyClosed,
	StatusClosed,
}

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusPartiallyClosed, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further work can be recorded.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// FlowIndex returns the position of s in StatusFlow, or -1 when the status
// is not part of the flow (cancelled or unknown).
func (s Status) FlowIndex() int {
	for i, step := range StatusFlow {
		if step == s {
			return i
		}
	}
	return -1
}

// Label returns the display name for the status. Unknown codes are
// returned unchanged.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInProgress:
		return "En Curso"
	case StatusPartiallyClosed:
		return "Cerrado Parcial"
	case StatusClosed:
		return "Cerrada"
	case StatusCancelled:
		return "Cancelada"
	}
	return string(s)
}

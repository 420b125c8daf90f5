// Package lifecycle drives a work order through its states. Every action
// the user can take on an order is a row of one transition table; a single
// dispatch function looks the row up and runs it.
package lifecycle

import (
	"fmt"

	"github.com/plantops/ot/internal/session"
	"github.com/plantops/ot/internal/types"
)

// Action is a user-triggered lifecycle operation.
type Action string

// Actions
const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionFinish Action = "finish"
	ActionRevert Action = "revert"
	ActionClose  Action = "close"
)

// Label returns the button text of the action.
func (a Action) Label() string {
	switch a {
	case ActionStart:
		return "Iniciar Trabajo"
	case ActionPause:
		return "Pausar"
	case ActionFinish:
		return "Finalizar Trabajo"
	case ActionRevert:
		return "Revertir a En Curso"
	case ActionClose:
		return "Cierre Definitivo"
	}
	return string(a)
}

// Transition is one row of the table.
type Transition struct {
	From   types.Status
	Action Action
	// To is the resulting status; empty when the action leaves it unchanged.
	To      types.Status
	Primary bool
	// Confirm is the question asked before running; empty means none.
	Confirm string
	// NeedsCloseRight restricts the row to users allowed to close orders.
	NeedsCloseRight bool
	// Done is the success toast. Start and pause show the server's text.
	Done string
}

// Confirmation prompts.
const (
	RevertConfirm = `¿Seguro que deseas revertir la orden a "En Curso"? Esto eliminará la fecha de fin de la orden.`
	CloseConfirm  = "¿Realizar el Cierre Definitivo de esta Orden de Trabajo?"
)

// Success messages.
const (
	FinishedMessage = "Trabajo finalizado. Pendiente de cierre definitivo por el responsable."
	RevertedMessage = "Orden revertida a En Curso"
	ClosedMessage   = "Cierre definitivo realizado correctamente"
)

// Table lists every permitted transition. Rows of the same status are in
// display order; at most one per status is primary.
var Table = []Transition{
	{From: types.StatusPending, Action: ActionStart, To: types.StatusInProgress, Primary: true},
	{From: types.StatusPending, Action: ActionPause},

	{From: types.StatusInProgress, Action: ActionFinish, To: types.StatusPartiallyClosed, Primary: true, Done: FinishedMessage},
	{From: types.StatusInProgress, Action: ActionStart},
	{From: types.StatusInProgress, Action: ActionPause},

	{From: types.StatusPartiallyClosed, Action: ActionRevert, To: types.StatusInProgress, Primary: true, Confirm: RevertConfirm, Done: RevertedMessage},
	{From: types.StatusPartiallyClosed, Action: ActionClose, To: types.StatusClosed, Confirm: CloseConfirm, NeedsCloseRight: true, Done: ClosedMessage},
	{From: types.StatusPartiallyClosed, Action: ActionStart},
	{From: types.StatusPartiallyClosed, Action: ActionPause},
}

// Lookup returns the row for action in status.
func Lookup(status types.Status, action Action) (Transition, bool) {
	for _, t := range Table {
		if t.From == status && t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// Primary returns the main action of status. Closed, cancelled and unknown
// statuses have none.
func Primary(status types.Status) (Transition, bool) {
	for _, t := range Table {
		if t.From == status && t.Primary {
			return t, true
		}
	}
	return Transition{}, false
}

// Available returns the rows the user may run in status, primary first.
func Available(status types.Status, who session.Identity) []Transition {
	var out []Transition
	for _, t := range Table {
		if t.From != status {
			continue
		}
		if t.NeedsCloseRight && !who.MayClose() {
			continue
		}
		if t.Primary {
			out = append([]Transition{t}, out...)
		} else {
			out = append(out, t)
		}
	}
	return out
}

// NotAllowedError is returned when an action has no row for the order's
// status, or the user lacks the right to run it.
type NotAllowedError struct {
	Action Action
	Status types.Status
	Reason string
}

func (e *NotAllowedError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("No se puede %s una orden en estado %s", e.Action.verb(), e.Status.Label())
}

// UserFacing marks the message as safe to show.
func (e *NotAllowedError) UserFacing() bool { return true }

func (a Action) verb() string {
	switch a {
	case ActionStart:
		return "iniciar"
	case ActionPause:
		return "pausar"
	case ActionFinish:
		return "finalizar"
	case ActionRevert:
		return "revertir"
	case ActionClose:
		return "cerrar"
	}
	return string(a)
}

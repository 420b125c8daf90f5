package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/ot/internal/session"
	"github.com/plantops/ot/internal/types"
)

func TestOnePrimaryActionPerOpenStatus(t *testing.T) {
	for _, status := range []types.Status{types.StatusPending, types.StatusInProgress, types.StatusPartiallyClosed} {
		count := 0
		for _, row := range Table {
			if row.From == status && row.Primary {
				count++
			}
		}
		assert.Equal(t, 1, count, "status %s", status)
	}
}

func TestPrimary(t *testing.T) {
	tests := []struct {
		status types.Status
		want   Action
		ok     bool
	}{
		{types.StatusPending, ActionStart, true},
		{types.StatusInProgress, ActionFinish, true},
		{types.StatusPartiallyClosed, ActionRevert, true},
		{types.StatusClosed, "", false},
		{types.StatusCancelled, "", false},
		{types.Status("archivada"), "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			row, ok := Primary(tt.status)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, row.Action)
		})
	}
}

func TestTransitionTargets(t *testing.T) {
	row, ok := Lookup(types.StatusInProgress, ActionFinish)
	require.True(t, ok)
	assert.Equal(t, types.StatusPartiallyClosed, row.To)

	row, ok = Lookup(types.StatusPartiallyClosed, ActionClose)
	require.True(t, ok)
	assert.Equal(t, types.StatusClosed, row.To)
	assert.True(t, row.NeedsCloseRight)
	assert.NotEmpty(t, row.Confirm)

	row, ok = Lookup(types.StatusInProgress, ActionPause)
	require.True(t, ok)
	assert.Empty(t, row.To)

	row, ok = Lookup(types.StatusPartiallyClosed, ActionStart)
	require.True(t, ok)
	assert.Empty(t, row.To)
	assert.False(t, row.Primary)

	_, ok = Lookup(types.StatusClosed, ActionRevert)
	assert.False(t, ok)
}

func actions(rows []Transition) []Action {
	out := make([]Action, len(rows))
	for i, r := range rows {
		out[i] = r.Action
	}
	return out
}

func TestAvailable(t *testing.T) {
	tech := session.Identity{Role: session.RoleTechnician}
	boss := session.Identity{Role: session.RoleResponsible}

	assert.Equal(t, []Action{ActionStart, ActionPause}, actions(Available(types.StatusPending, tech)))
	assert.Equal(t, []Action{ActionFinish, ActionStart, ActionPause}, actions(Available(types.StatusInProgress, tech)))
	assert.Equal(t, []Action{ActionRevert, ActionStart, ActionPause}, actions(Available(types.StatusPartiallyClosed, tech)))
	assert.Equal(t, []Action{ActionRevert, ActionClose, ActionStart, ActionPause}, actions(Available(types.StatusPartiallyClosed, boss)))

	tech.CanClose = true
	assert.Contains(t, actions(Available(types.StatusPartiallyClosed, tech)), ActionClose)

	assert.Empty(t, Available(types.StatusClosed, boss))
	assert.Empty(t, Available(types.StatusCancelled, boss))
}

func TestNotAllowedErrorMessage(t *testing.T) {
	err := &NotAllowedError{Action: ActionRevert, Status: types.StatusClosed}
	assert.Equal(t, "No se puede revertir una orden en estado Cerrada", err.Error())
	assert.True(t, err.UserFacing())
}

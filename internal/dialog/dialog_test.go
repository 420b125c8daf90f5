package dialog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/dialog/dialogtest"
)

func TestEntry(t *testing.T) {
	d := dialogtest.New(dialogtest.Text("Ana"), dialogtest.Cancel())
	ctx := context.Background()

	got, err := dialog.Entry(ctx, d, "tech", "Técnico", "Nombre", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)

	_, err = dialog.Entry(ctx, d, "tech", "Técnico", "Nombre", "")
	assert.ErrorIs(t, err, dialog.ErrCanceled)
}

func TestConfirmTreatsCancelAsNo(t *testing.T) {
	d := dialogtest.New(dialogtest.Yes(), dialogtest.No(), dialogtest.Cancel())
	ctx := context.Background()

	for _, want := range []bool{true, false, false} {
		ok, err := dialog.Confirm(ctx, d, "close", "Cerrar", "¿Seguro?")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
	assert.Equal(t, dialog.KindConfirm, d.Requests[0].Kind)
}

func TestChoiceCarriesOptions(t *testing.T) {
	d := dialogtest.New(dialogtest.Select("b"))
	opts := []dialog.Option{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}

	got, err := dialog.Choice(context.Background(), d, "pick", "Elegir", "", opts, "a")
	require.NoError(t, err)
	assert.Equal(t, "b", got)
	assert.Equal(t, opts, d.Requests[0].Options)
	assert.Equal(t, "a", d.Requests[0].Default)
}

func TestFormValues(t *testing.T) {
	d := dialogtest.New(dialogtest.Values(map[string]string{"x": "1"}), dialogtest.Values(nil))
	ctx := context.Background()

	got, err := dialog.Form(ctx, d, "f", "Form", []dialog.Field{{ID: "x", Label: "X"}})
	require.NoError(t, err)
	assert.Equal(t, "1", got["x"])

	got, err = dialog.Form(ctx, d, "f", "Form", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSendErrorIsWrapped(t *testing.T) {
	d := dialogtest.New()
	_, err := dialog.Entry(context.Background(), d, "missing", "", "", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, dialog.ErrCanceled))
	assert.Contains(t, err.Error(), "missing")
}

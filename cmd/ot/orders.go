package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plantops/ot/internal/debug"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/ui"
	"github.com/plantops/ot/internal/validation"
	"github.com/plantops/ot/internal/viewstate"
)

var newCmd = &cobra.Command{
	Use:     "new",
	Aliases: []string{"create"},
	GroupID: "orders",
	Short:   "Create a work order",
	Long: `Create a work order. The equipment is picked from the asset tree
(or given with --equipment as "<level>-<id>", e.g. maquina-12) and the rest
is filled in a form.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		orderType, _ := cmd.Flags().GetString("type")
		title, _ := cmd.Flags().GetString("title")
		node, _ := cmd.Flags().GetString("equipment")
		show, _ := cmd.Flags().GetBool("show")

		app.loadTypes(ctx)
		f := viewstate.NewFormValues(orderType, "", 0)
		f.Title = title

		f, err := chooseAsset(ctx, f, node)
		if err != nil {
			return err
		}
		f, err = fillOrderForm(ctx, f, false)
		if err != nil {
			return err
		}
		res, err := app.ctrl.Create(ctx, f)
		if err != nil {
			return reported(err)
		}
		if jsonOutput {
			outputJSON(res)
			return nil
		}
		if show {
			o, err := app.loadOrder(ctx, fmt.Sprint(res.ID))
			if err != nil {
				return err
			}
			return printDetail(ctx, o, false, true)
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	GroupID: "orders",
	Short:   "Edit a work order",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		node, _ := cmd.Flags().GetString("equipment")
		pick, _ := cmd.Flags().GetBool("pick-equipment")

		app.loadTypes(ctx)
		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		if err := app.ctrl.CheckEditable(o); err != nil {
			return reported(err)
		}
		f := viewstate.FormValuesFromOrder(o)
		if assets, err := app.api.ListAssets(ctx); err != nil {
			debug.Logger().Warn("asset list unavailable", zap.Error(err))
		} else {
			f = f.ResolveAsset(assets)
		}
		if pick || node != "" {
			if f, err = chooseAsset(ctx, f, node); err != nil {
				return err
			}
		}
		if f, err = fillOrderForm(ctx, f, true); err != nil {
			return err
		}
		if err := app.ctrl.Edit(ctx, o, f); err != nil {
			return reported(err)
		}
		return printRefreshed(ctx, o.ID)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	GroupID: "orders",
	Short:   "Delete a work order",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		if err := app.ctrl.Delete(ctx, o); err != nil {
			return reported(err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"id": o.ID, "deleted": true})
		}
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:     "assign <id>",
	GroupID: "orders",
	Short:   "Assign a technician to a work order",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		if err := app.ctrl.Assign(ctx, o); err != nil {
			return reported(err)
		}
		return printRefreshed(ctx, o.ID)
	},
}

// chooseAsset runs the equipment picker over f. Dismissing the picker
// keeps the form as it was before it opened.
func chooseAsset(ctx context.Context, f viewstate.FormValues, nodeID string) (viewstate.FormValues, error) {
	tree, err := app.api.GetAssetTree(ctx)
	if err != nil {
		return f, app.report(err)
	}
	app.view.BeginAssetPick(f)
	if nodeID == "" {
		nodeID, err = pickAssetNode(ctx, tree, f.Asset)
		if errors.Is(err, dialog.ErrCanceled) {
			prev, _ := app.view.CancelAssetPick()
			return prev, nil
		}
		if err != nil {
			app.view.CancelAssetPick()
			return f, app.report(err)
		}
	}
	sel, err := viewstate.SelectNode(tree, nodeID)
	if err != nil {
		app.view.CancelAssetPick()
		return f, app.report(validation.Fail("equipo", "Equipo no encontrado: "+nodeID))
	}
	return app.view.CompleteAssetPick(sel)
}

func pickAssetNode(ctx context.Context, tree []types.AssetNode, current viewstate.AssetSelection) (string, error) {
	entries := viewstate.FlattenTree(tree)
	if len(entries) == 0 {
		return "", validation.Fail("equipo", "No hay equipos disponibles")
	}
	options := make([]dialog.Option, len(entries))
	for i, e := range entries {
		kind, _, _ := viewstate.ParseAssetNodeID(e.Node.ID)
		label := strings.TrimSpace(viewstate.AssetIcon(kind) + " " + e.Node.Text)
		options[i] = dialog.Option{ID: e.Node.ID, Label: strings.Repeat("  ", e.Depth) + label}
	}
	var def string
	if !current.IsZero() {
		def = fmt.Sprintf("%s-%d", current.Type, current.ID)
	}
	return dialog.Choice(ctx, app.dialog, "asset-picker", "Seleccionar equipo", current.Display(), options, def)
}

func fillOrderForm(ctx context.Context, f viewstate.FormValues, editing bool) (viewstate.FormValues, error) {
	values, err := dialog.Form(ctx, app.dialog, "order-form", ui.OrderFormTitle(editing), ui.OrderFormFields(f, app.view.Types()))
	if err != nil {
		return f, app.report(err)
	}
	f, err = ui.ApplyOrderForm(f, values)
	if err != nil {
		return f, app.report(err)
	}
	return f, nil
}

// printRefreshed re-reads an order changed by a command and prints it as
// JSON. Text mode relies on the toasts.
func printRefreshed(ctx context.Context, id int64) error {
	if !jsonOutput || !app.refreshed {
		return nil
	}
	o, err := app.api.GetOrder(ctx, id)
	if err != nil {
		return app.report(err)
	}
	outputJSON(o)
	return nil
}

func init() {
	newCmd.Flags().StringP("type", "t", "", "Intervention type code (default correctivo)")
	newCmd.Flags().String("title", "", "Prefill the title")
	newCmd.Flags().String("equipment", "", `Equipment node id, e.g. "maquina-12" (skips the picker)`)
	newCmd.Flags().Bool("show", false, "Show the order once created")

	editCmd.Flags().String("equipment", "", `Change the equipment to this node id`)
	editCmd.Flags().Bool("pick-equipment", false, "Pick a different equipment from the asset tree")

	rootCmd.AddCommand(newCmd, editCmd, deleteCmd, assignCmd)
}

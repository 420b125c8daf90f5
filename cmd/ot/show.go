package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/plantops/ot/internal/export"
	"github.com/plantops/ot/internal/notification"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"view"},
	GroupID: "orders",
	Short:   "Show a work order",
	Long: `Show the full detail of a work order: header and progress, equipment,
dates, preventive routine and checklist, time entries, solution with its
KPIs, external costs, consumption and the actions available to you.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		full, _ := cmd.Flags().GetBool("full")
		noPager, _ := cmd.Flags().GetBool("no-pager")

		o, err := fetchForDetail(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(o)
			return nil
		}
		return printDetail(ctx, o, full, noPager)
	},
}

// fetchForDetail loads the order and the type catalog in parallel.
func fetchForDetail(ctx context.Context, arg string) (*types.WorkOrder, error) {
	var o *types.WorkOrder
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.loadTypes(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		o, err = app.loadOrder(gctx, arg)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}

func printDetail(ctx context.Context, o *types.WorkOrder, full, noPager bool) error {
	out := ui.Detail(o, ui.DetailOptions{
		TypeInfo:  app.view.TypeInfo(o.Type),
		Actions:   app.ctrl.Available(o),
		CanDelete: app.identity.MayDelete(),
		Recent:    app.view.Recent.Contains(o.ID),
		Full:      full,
	})
	opts := ui.PagerOptions{NoPager: noPager}
	if stdout != os.Stdout {
		opts.Out = stdout
	}
	return ui.ToPager(ctx, out+"\n", opts)
}

var exportCmd = &cobra.Command{
	Use:     "export <id>",
	GroupID: "orders",
	Short:   "Export the ledger of a work order to an .xlsx workbook",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := app.loadOrder(rootCtx, args[0])
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = export.DefaultFileName(o)
		}
		if err := export.WriteFile(path, o); err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"id": o.ID, "number": o.Number, "path": path})
			return nil
		}
		app.notifier.Notify(notification.LevelSuccess, "Exportado a "+path)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("full", false, "Show long descriptions without truncation")
	showCmd.Flags().Bool("no-pager", false, "Print directly instead of through a pager")
	exportCmd.Flags().StringP("out", "o", "", "Output file (default <number>.xlsx)")

	rootCmd.AddCommand(showCmd, exportCmd)
}

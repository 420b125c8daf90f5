package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/plantops/ot/internal/checklist"
	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/lifecycle"
	"github.com/plantops/ot/internal/types"
)

// actionCommand builds the command running one lifecycle step on an order.
func actionCommand(use, short string, run func(*lifecycle.Controller, context.Context, *types.WorkOrder) error) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <id>",
		GroupID: "lifecycle",
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := rootCtx
			o, err := app.loadOrder(ctx, args[0])
			if err != nil {
				return err
			}
			if err := run(app.ctrl, ctx, o); err != nil {
				return reported(err)
			}
			return printRefreshed(ctx, o.ID)
		},
	}
}

var (
	startCmd  = actionCommand("start", "Start (or resume) work on an order", (*lifecycle.Controller).Start)
	pauseCmd  = actionCommand("pause", "Pause the running work session", (*lifecycle.Controller).Pause)
	revertCmd = actionCommand("revert", "Revert a partially closed order to in progress", (*lifecycle.Controller).Revert)
	closeCmd  = actionCommand("close", "Definitive close of a partially closed order", (*lifecycle.Controller).Close)
	nextCmd   = actionCommand("advance", "Run the primary action offered for the order's status", (*lifecycle.Controller).Advance)
)

var finishCmd = &cobra.Command{
	Use:     "finish <id>",
	GroupID: "lifecycle",
	Short:   "Finish work: record the solution and partially close the order",
	Long: `Finish work on an in-progress order. The solution form asks for the
solution, the machine downtime and optional observations. With --checklist
the preventive checklist is filled first and saved before the status changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		fill, _ := cmd.Flags().GetBool("checklist")

		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		if fill && o.HasChecklist() {
			c := checklist.NewCapture(o)
			if err := fillChecklist(ctx, c); err != nil {
				return err
			}
			app.ctrl.Capture = c
		}
		if err := app.ctrl.Finish(ctx, o); err != nil {
			return reported(err)
		}
		return printRefreshed(ctx, o.ID)
	},
}

// fillChecklist asks for every checklist answer in one form.
func fillChecklist(ctx context.Context, c *checklist.Capture) error {
	fields := c.FormFields()
	if len(fields) == 0 {
		return nil
	}
	values, err := dialog.Form(ctx, app.dialog, "checklist", "Checklist", fields)
	if err != nil {
		return app.report(err)
	}
	return c.Apply(values)
}

func init() {
	nextCmd.Aliases = []string{"next"}
	finishCmd.Flags().Bool("checklist", false, "Fill the preventive checklist before finishing")

	rootCmd.AddCommand(startCmd, pauseCmd, finishCmd, revertCmd, closeCmd, nextCmd)
}

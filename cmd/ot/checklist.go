package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/plantops/ot/internal/checklist"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/ui"
)

var checklistCmd = &cobra.Command{
	Use:     "checklist",
	GroupID: "orders",
	Short:   "Show or fill the checklist of a preventive order",
}

var checklistShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the checklist with the saved answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseOrderID(args[0])
		if err != nil {
			return err
		}
		entries, err := app.api.GetChecklist(rootCtx, id)
		if err != nil {
			return app.report(err)
		}
		if jsonOutput {
			outputJSON(entries)
			return nil
		}
		if len(entries) == 0 {
			fmt.Fprintln(stdout, ui.RenderMuted("Sin checklist"))
			return nil
		}
		t := table.New().Headers("#", "Verificación", "Respuesta", "Observaciones")
		for _, e := range entries {
			answer, obs := "", ""
			if e.Answer != nil {
				answer = ui.RenderTag(types.TagForAnswer(*e.Answer))
			}
			if e.Observations != nil {
				obs = *e.Observations
			}
			desc := e.Description
			if e.GeneratesCorrective {
				desc += " ⚡"
			}
			t.Row(strconv.Itoa(e.Order), desc, answer, obs)
		}
		fmt.Fprintln(stdout, t.Render())
		return nil
	},
}

var checklistSaveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Fill and save the checklist",
	Long: `Fill the checklist in a form and save it. Answers can also be given
with --set <item-id>=<answer> (ok, nok, na, a number or text), in which case
no form is shown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		sets, _ := cmd.Flags().GetStringArray("set")

		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		c := checklist.NewCapture(o)
		if len(sets) > 0 {
			err = applySets(c, sets)
		} else {
			err = fillChecklist(ctx, c)
		}
		if err != nil {
			return err
		}
		if err := app.saver.Save(ctx, o.ID, c); err != nil {
			return reported(err)
		}
		if faults := c.Faults(); len(faults) > 0 && !jsonOutput {
			fmt.Fprintf(stdout, "%s %d NOK que generarán correctivo al finalizar\n", ui.RenderWarnIcon(), len(faults))
		}
		if jsonOutput {
			outputJSON(c.Responses())
		}
		return nil
	},
}

func applySets(c *checklist.Capture, sets []string) error {
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected <item-id>=<answer>", s)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid checklist item id %q", key)
		}
		if err := c.Set(id, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	checklistSaveCmd.Flags().StringArray("set", nil, "Answer an item without the form: <item-id>=<answer> (repeatable)")
	checklistCmd.AddCommand(checklistShowCmd, checklistSaveCmd)
	rootCmd.AddCommand(checklistCmd)
}

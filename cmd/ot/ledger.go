package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plantops/ot/internal/dialog"
	"github.com/plantops/ot/internal/ledger"
	"github.com/plantops/ot/internal/types"
	"github.com/plantops/ot/internal/validation"
)

var consumoCmd = &cobra.Command{
	Use:     "consumo",
	Aliases: []string{"consumption"},
	GroupID: "ledger",
	Short:   "Add or remove spare-part consumption",
}

var consumoAddCmd = &cobra.Command{
	Use:   "add <id> <search> <quantity>",
	Short: "Record consumption of a spare part",
	Long: `Record consumption of a spare part. The part is searched by code or
name; when several parts match you pick one from the suggestions. Use
--part to give the part id directly.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		partID, _ := cmd.Flags().GetInt64("part")

		orderID, err := parseOrderID(args[0])
		if err != nil {
			return err
		}
		query, rawQty := "", args[len(args)-1]
		if len(args) == 3 {
			query = args[1]
		}
		qty, err := parseQuantity(rawQty)
		if err != nil {
			return app.report(err)
		}
		if partID == 0 {
			if partID, err = searchPart(ctx, query); err != nil {
				return err
			}
		}
		o, err := app.ledger.AddConsumption(ctx, orderID, partID, qty)
		if err != nil {
			return reported(err)
		}
		return printLedger(o)
	},
}

var consumoRmCmd = &cobra.Command{
	Use:   "rm <id> <consumption-id>",
	Short: "Remove a consumption line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		lineID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("id de consumo no válido %q", args[1])
		}
		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		o, err = app.ledger.RemoveConsumption(ctx, o, lineID)
		if err != nil {
			return reported(err)
		}
		return printLedger(o)
	},
}

var costeCmd = &cobra.Command{
	Use:     "coste",
	Aliases: []string{"cost"},
	GroupID: "ledger",
	Short:   "Add or remove external costs",
}

var costeAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add an external cost (workshop, crane, contractor...)",
	Long: `Add an external cost line. Without --amount the provider, description
and amount are asked in a form.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		orderID, err := parseOrderID(args[0])
		if err != nil {
			return err
		}
		form := ledger.CostForm{}
		form.Provider, _ = cmd.Flags().GetString("provider")
		form.Description, _ = cmd.Flags().GetString("description")
		form.Amount, _ = cmd.Flags().GetString("amount")
		if !cmd.Flags().Changed("amount") {
			if form, err = askCost(ctx, form); err != nil {
				return err
			}
		}
		o, err := app.ledger.AddExternalCost(ctx, orderID, form)
		if err != nil {
			return reported(err)
		}
		return printLedger(o)
	},
}

var costeRmCmd = &cobra.Command{
	Use:   "rm <id> <index>",
	Short: "Remove an external cost by its # in 'ot show'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := rootCtx
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("número de coste no válido %q", args[1])
		}
		o, err := app.loadOrder(ctx, args[0])
		if err != nil {
			return err
		}
		o, err = app.ledger.RemoveExternalCost(ctx, o, n-1)
		if err != nil {
			return reported(err)
		}
		return printLedger(o)
	},
}

func parseQuantity(raw string) (float64, error) {
	q, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0, validation.Fail("cantidad", "Indica la cantidad")
	}
	return q, nil
}

// searchPart resolves query to a spare part id: a single suggestion is
// taken as is, several are offered in a choice.
func searchPart(ctx context.Context, query string) (int64, error) {
	parts, err := app.api.ListSpareParts(ctx)
	if err != nil {
		return 0, app.report(err)
	}
	ta := ledger.NewTypeahead(parts)
	ta.SetQuery(query)
	if err := pickSuggestion(ctx, ta, query); err != nil {
		return 0, app.report(err)
	}
	p, ok := ta.Selected()
	if !ok {
		return 0, app.report(validation.Fail("recambioId", "Selecciona un recambio de la lista"))
	}
	return p.ID, nil
}

// pickSuggestion selects one of ta's current results. No results leaves
// nothing selected.
func pickSuggestion(ctx context.Context, ta *ledger.Typeahead, query string) error {
	results := ta.Results()
	switch len(results) {
	case 0:
		return nil
	case 1:
		ta.Select(results[0].ID)
		return nil
	}

	options := make([]dialog.Option, len(results))
	for i, p := range results {
		options[i] = dialog.Option{ID: strconv.FormatInt(p.ID, 10), Label: partLabel(p)}
	}
	picked, err := dialog.Choice(ctx, app.dialog, "spare-part", "Recambio", query, options, "")
	if err != nil {
		return err
	}
	if id, err := strconv.ParseInt(picked, 10, 64); err == nil {
		ta.Select(id)
	}
	return nil
}

// partLabel is "CODE - Name (stock 4 ud)".
func partLabel(p types.SparePart) string {
	label := p.Label()
	stock := strconv.FormatFloat(p.Stock, 'f', -1, 64)
	if p.Unit != "" {
		stock += " " + p.Unit
	}
	if p.LowStock {
		return fmt.Sprintf("%s (stock %s, bajo)", label, stock)
	}
	return fmt.Sprintf("%s (stock %s)", label, stock)
}

func askCost(ctx context.Context, form ledger.CostForm) (ledger.CostForm, error) {
	values, err := dialog.Form(ctx, app.dialog, "external-cost", "Añadir coste externo", []dialog.Field{
		{ID: "proveedor", Label: "Proveedor", Kind: dialog.FieldText, Default: form.Provider},
		{ID: "descripcion", Label: "Descripción", Kind: dialog.FieldText, Default: form.Description},
		{ID: "coste", Label: "Coste (€)", Kind: dialog.FieldNumber, Default: form.Amount, Required: true},
	})
	if err != nil {
		return form, app.report(err)
	}
	form.Provider = strings.TrimSpace(values["proveedor"])
	form.Description = strings.TrimSpace(values["descripcion"])
	form.Amount = strings.TrimSpace(values["coste"])
	return form, nil
}

// printLedger prints the re-fetched order in JSON mode.
func printLedger(o *types.WorkOrder) error {
	if jsonOutput && o != nil {
		outputJSON(o)
	}
	return nil
}

func init() {
	consumoAddCmd.Flags().Int64("part", 0, "Spare part id (skips the search)")
	consumoCmd.AddCommand(consumoAddCmd, consumoRmCmd)

	costeAddCmd.Flags().String("provider", "", "Provider name")
	costeAddCmd.Flags().String("description", "", "What was done")
	costeAddCmd.Flags().String("amount", "", "Amount in euros")
	costeCmd.AddCommand(costeAddCmd, costeRmCmd)

	rootCmd.AddCommand(consumoCmd, costeCmd)
}

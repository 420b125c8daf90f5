package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/plantops/ot/internal/api"
	"github.com/plantops/ot/internal/config"
	"github.com/plantops/ot/internal/debug"
	"github.com/plantops/ot/internal/dialog"
)

var (
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
	apiURLFlag  string
	tokenFlag   string

	rootCtx    context.Context
	rootCancel context.CancelFunc

	// stdout receives command output; tests swap it for a buffer.
	stdout io.Writer = os.Stdout
	// toastOut receives terminal notifications.
	toastOut io.Writer = os.Stderr

	// newService and newDialog build the backend and the prompt layer.
	newService = defaultService
	newDialog  = func() dialog.Dialog { return dialog.NewTerminal(os.Getenv("ACCESSIBLE") != "") }

	// app is built lazily by commands that talk to the backend.
	app *appContext
)

// offlineCommands and their subcommands never touch the backend.
var offlineCommands = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
	"config":     true,
}

var rootCmd = &cobra.Command{
	Use:   "ot",
	Short: "ot - work orders for plant maintenance",
	Long: `Manage maintenance work orders (OT) from the terminal: show an order,
move it through its lifecycle, record spare-part consumption and external
costs, fill the preventive checklist and export the ledger to a workbook.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupSignalContext()
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if err := bindConfigFlags(cmd); err != nil {
			return err
		}
		applyVerbosityFlags()
		applyOutputFlags()
		if !needsBackend(cmd) {
			return nil
		}
		if err := initTelemetry(rootCtx); err != nil {
			WarnError("telemetry disabled: %v", err)
		}
		var err error
		app, err = newApp(rootCtx)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (default from config api.url)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Bearer token (default from config api.token)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "orders", Title: "Work Orders:"},
		&cobra.Group{ID: "lifecycle", Title: "Lifecycle:"},
		&cobra.Group{ID: "ledger", Title: "Consumption & Costs:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)
}

func main() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		os.Exit(handleCommandError(err))
	}
}

func defaultService(url, token string) api.Service {
	return api.NewClient(url, token).
		WithTimeout(config.GetDuration(config.KeyAPITimeout)).
		WithLogger(debug.Logger())
}

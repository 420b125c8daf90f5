package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/plantops/ot/internal/config"
	"github.com/plantops/ot/internal/debug"
	"github.com/plantops/ot/internal/telemetry"
	"github.com/plantops/ot/internal/ui"
)

// shutdownTimeout bounds the final telemetry flush.
const shutdownTimeout = 5 * time.Second

// setupSignalContext gives commands a context cancelled on Ctrl+C or SIGTERM.
func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// bindConfigFlags lets explicitly set persistent flags override the
// configuration, then reads the effective values back into the globals.
func bindConfigFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	for key, name := range map[string]string{
		config.KeyJSON:     "json",
		config.KeyNoColor:  "no-color",
		config.KeyAPIURL:   "api-url",
		config.KeyAPIToken: "token",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := config.BindFlag(key, f); err != nil {
				return err
			}
		}
	}
	jsonOutput = config.GetBool(config.KeyJSON)
	noColorFlag = config.GetBool(config.KeyNoColor)
	return nil
}

// applyVerbosityFlags propagates --verbose and --quiet to the debug package
// so all subsequent log output respects them.
func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

func applyOutputFlags() {
	ui.SetNoColor(noColorFlag)
}

func initTelemetry(ctx context.Context) error {
	s := telemetry.SettingsFromEnv(
		config.GetBool(config.KeyOtelEnabled),
		config.GetString(config.KeyOtelEndpoint),
	)
	return telemetry.Init(ctx, s, "ot", Version)
}

// needsBackend is false for the root command and for commands under
// offlineCommands. rootCmd's initializer calls it, so it must not name
// rootCmd.
func needsBackend(cmd *cobra.Command) bool {
	for c := cmd; c.HasParent(); c = c.Parent() {
		if offlineCommands[c.Name()] {
			return false
		}
	}
	return cmd.HasParent()
}

// shutdown waits for pending notifications and flushes telemetry. It runs
// after every command, including failed ones, and is safe to call twice.
func shutdown() {
	if app != nil {
		app.close()
		app = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	telemetry.Shutdown(ctx)
	debug.Sync()
	if rootCancel != nil {
		rootCancel()
		rootCancel = nil
	}
}

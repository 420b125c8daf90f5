package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/plantops/ot/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "setup",
	Short:   "Show or change client settings",
	Long: `Settings are read from flags, OT_* environment variables, a .env file
and ot.yaml (./.ot/ot.yaml, then ~/.config/ot/ot.yaml).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings (secrets masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			outputJSON(map[string]interface{}{
				"file":     config.ConfigFileUsed(),
				"settings": config.AllSettings(),
			})
			return nil
		}
		if path := config.ConfigFileUsed(); path != "" {
			fmt.Fprintf(stdout, "# %s\n", path)
		}
		return config.Dump(stdout)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsKnownKey(key) {
			return unknownKey(key)
		}
		if jsonOutput {
			outputJSON(map[string]string{"key": key, "value": config.GetString(key)})
			return nil
		}
		fmt.Fprintln(stdout, config.GetString(key))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a setting to ot.yaml",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !config.IsKnownKey(key) {
			return unknownKey(key)
		}
		path, err := config.SetYamlConfig(key, value)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]string{"key": key, "value": value, "file": path})
			return nil
		}
		fmt.Fprintf(stdout, "Set %s = %s in %s\n", key, value, path)
		fmt.Fprintf(stdout, "(%s overrides it when set)\n", config.EnvName(key))
		return nil
	},
}

func unknownKey(key string) error {
	keys := make([]string, 0)
	for k := range flattenKeys(config.AllSettings(), "") {
		if config.IsKnownKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown config key %q (known: %v)", key, keys)
}

func flattenKeys(m map[string]any, prefix string) map[string]bool {
	out := map[string]bool{}
	for k, v := range m {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			for ck := range flattenKeys(child, full) {
				out[ck] = true
			}
			continue
		}
		out[full] = true
	}
	return out
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

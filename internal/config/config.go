// Package config loads client settings from, in priority order: command
// line flags (bound by the caller), OT_* environment variables, a .env file,
// an ot.yaml config file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "OT"

// ConfigName is the config file base name, searched as ot.yaml.
const ConfigName = "ot"

// Keys
const (
	KeyAPIURL          = "api.url"
	KeyAPIToken        = "api.token"
	KeyAPITimeout      = "api.timeout"
	KeyUserRole        = "user.role"
	KeyUserTechnician  = "user.technician"
	KeyUserCanClose    = "user.can-close"
	KeyJSON            = "json"
	KeyNoColor         = "no-color"
	KeyToastCorrective = "toast.delay-corrective"
	KeyToastNewOrder   = "toast.delay-new-order"
	KeyRecentTTL       = "recent.ttl"
	KeyNotifyWebhook   = "notify.webhook"
	KeyOtelEnabled     = "otel.enabled"
	KeyOtelEndpoint    = "otel.endpoint"
)

var defaults = map[string]any{
	KeyAPIURL:          "http://localhost:5000",
	KeyAPIToken:        "",
	KeyAPITimeout:      30 * time.Second,
	KeyUserRole:        "",
	KeyUserTechnician:  "",
	KeyUserCanClose:    false,
	KeyJSON:            false,
	KeyNoColor:         false,
	KeyToastCorrective: 800 * time.Millisecond,
	KeyToastNewOrder:   1600 * time.Millisecond,
	KeyRecentTTL:       30 * time.Second,
	KeyNotifyWebhook:   "",
	KeyOtelEnabled:     false,
	KeyOtelEndpoint:    "",
}

var v *viper.Viper

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envReplacer.Replace(key))
}

// Initialize builds the configuration. It is safe to call again; each call
// starts from scratch.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(ConfigName)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if path := os.Getenv("OT_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// searchPaths lists the config directories, nearest first: ./.ot, then the
// user config dir.
func searchPaths() []string {
	paths := []string{filepath.Join(".", "."+ConfigName)}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, ConfigName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigName))
	}
	return paths
}

// BindFlag makes a command line flag override key when it was set.
func BindFlag(key string, flag *pflag.Flag) error {
	if v == nil || flag == nil {
		return nil
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}
	return nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// IsKnownKey reports whether key is a setting the client reads.
func IsKnownKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value for this process only.
func Set(key string, value any) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns the effective settings as a nested map.
func AllSettings() map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v.AllSettings()
}

// ResetForTesting drops the loaded configuration.
func ResetForTesting() {
	v = nil
}

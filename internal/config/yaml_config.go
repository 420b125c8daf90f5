package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// secretKeys are masked by Dump.
var secretKeys = map[string]bool{
	KeyAPIToken: true,
}

// SetYamlConfig writes key into the nearest ot.yaml, creating ./.ot/ot.yaml
// when none exists. Comments and unrelated keys are kept.
func SetYamlConfig(key, value string) (string, error) {
	if !IsKnownKey(key) {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	configPath, err := findConfigYaml()
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(configPath) //nolint:gosec // configPath is from findConfigYaml
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	newContent := updateYamlKey(string(content), key, value)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(newContent), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	return configPath, nil
}

// findConfigYaml returns the loaded config file, or the project location
// ./.ot/ot.yaml when nothing was loaded.
func findConfigYaml() (string, error) {
	if used := ConfigFileUsed(); used != "" {
		return used, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, "."+ConfigName, ConfigName+".yaml"), nil
}

// updateYamlKey sets key in yaml content. Dotted keys are written flat
// ("api.url: x"), which viper reads as nested. An existing line for the key,
// commented out or not, is replaced in place; otherwise the key is appended.
func updateYamlKey(content, key, value string) string {
	newLine := fmt.Sprintf("%s: %s", key, formatYamlValue(value))
	keyPattern := regexp.MustCompile(`^(\s*)(#\s*)?` + regexp.QuoteMeta(key) + `\s*:`)

	found := false
	var result []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if m := keyPattern.FindStringSubmatch(line); m != nil && !found {
			result = append(result, m[1]+newLine)
			found = true
			continue
		}
		result = append(result, line)
	}

	if !found {
		if len(result) > 0 && result[len(result)-1] != "" {
			result = append(result, "")
		}
		result = append(result, newLine)
	}
	return strings.Join(result, "\n")
}

// formatYamlValue leaves booleans, numbers and durations bare and quotes
// any other string.
func formatYamlValue(value string) string {
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return lower
	}
	if isNumeric(value) || isDuration(value) {
		return value
	}
	return fmt.Sprintf("%q", value)
}

func isNumeric(s string) bool {
	if s == "" || s == "-" || s == "." {
		return false
	}
	dots := 0
	for i, c := range s {
		switch {
		case c == '-' && i == 0:
		case c == '.':
			dots++
		case c < '0' || c > '9':
			return false
		}
	}
	return dots <= 1
}

func isDuration(s string) bool {
	for _, suffix := range []string{"ms", "s", "m", "h"} {
		if num, ok := strings.CutSuffix(s, suffix); ok && isNumeric(num) {
			return true
		}
	}
	return false
}

// Dump writes the effective settings as YAML with secrets masked.
func Dump(w io.Writer) error {
	settings := AllSettings()
	for key := range secretKeys {
		maskKey(settings, strings.Split(key, "."))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return enc.Close()
}

func maskKey(m map[string]any, path []string) {
	if len(path) == 1 {
		if s, ok := m[path[0]].(string); ok && s != "" {
			m[path[0]] = "********"
		}
		return
	}
	if child, ok := m[path[0]].(map[string]any); ok {
		maskKey(child, path[1:])
	}
}

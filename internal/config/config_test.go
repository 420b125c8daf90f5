package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	err := Initialize()
	if err != nil {
		t.Fatalf("Initialize() returned error: %v", err)
	}

	if v == nil {
		t.Fatal("viper instance is nil after Initialize()")
	}
}

func TestDefaults(t *testing.T) {
	require.NoError(t, Initialize())

	tests := []struct {
		key      string
		expected interface{}
		getter   func(string) interface{}
	}{
		{KeyJSON, false, func(k string) interface{} { return GetBool(k) }},
		{KeyAPIURL, "http://localhost:5000", func(k string) interface{} { return GetString(k) }},
		{KeyAPIToken, "", func(k string) interface{} { return GetString(k) }},
		{KeyAPITimeout, 30 * time.Second, func(k string) interface{} { return GetDuration(k) }},
		{KeyToastCorrective, 800 * time.Millisecond, func(k string) interface{} { return GetDuration(k) }},
		{KeyToastNewOrder, 1600 * time.Millisecond, func(k string) interface{} { return GetDuration(k) }},
		{KeyRecentTTL, 30 * time.Second, func(k string) interface{} { return GetDuration(k) }},
		{KeyUserCanClose, false, func(k string) interface{} { return GetBool(k) }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := tt.getter(tt.key)
			if got != tt.expected {
				t.Errorf("GetXXX(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestEnvironmentBinding(t *testing.T) {
	tests := []struct {
		envVar   string
		key      string
		value    string
		expected interface{}
		getter   func(string) interface{}
	}{
		{"OT_JSON", KeyJSON, "true", true, func(k string) interface{} { return GetBool(k) }},
		{"OT_API_URL", KeyAPIURL, "https://mant.example.com", "https://mant.example.com", func(k string) interface{} { return GetString(k) }},
		{"OT_API_TIMEOUT", KeyAPITimeout, "5s", 5 * time.Second, func(k string) interface{} { return GetDuration(k) }},
		{"OT_USER_CAN_CLOSE", KeyUserCanClose, "true", true, func(k string) interface{} { return GetBool(k) }},
		{"OT_TOAST_DELAY_CORRECTIVE", KeyToastCorrective, "1s", time.Second, func(k string) interface{} { return GetDuration(k) }},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			assert.Equal(t, tt.envVar, EnvName(tt.key))
			t.Setenv(tt.envVar, tt.value)

			require.NoError(t, Initialize())
			got := tt.getter(tt.key)
			if got != tt.expected {
				t.Errorf("GetXXX(%q) with %s=%s = %v, want %v", tt.key, tt.envVar, tt.value, got, tt.expected)
			}
		})
	}
}

func writeProjectConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, ".ot")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ot.yaml"), []byte(content), 0o600))
	t.Chdir(tmpDir)
	return tmpDir
}

func TestConfigFile(t *testing.T) {
	writeProjectConfig(t, `
json: true
api:
  url: https://planta.example.com
  timeout: 10s
user.technician: Ana Ruiz
`)

	require.NoError(t, Initialize())

	assert.True(t, GetBool(KeyJSON))
	assert.Equal(t, "https://planta.example.com", GetString(KeyAPIURL))
	assert.Equal(t, 10*time.Second, GetDuration(KeyAPITimeout))
	assert.Equal(t, "Ana Ruiz", GetString(KeyUserTechnician))
	assert.Contains(t, ConfigFileUsed(), filepath.Join(".ot", "ot.yaml"))
}

func TestConfigPrecedence(t *testing.T) {
	writeProjectConfig(t, "json: false\n")

	require.NoError(t, Initialize())
	assert.False(t, GetBool(KeyJSON), "from config file")

	t.Setenv("OT_JSON", "true")
	require.NoError(t, Initialize())
	assert.True(t, GetBool(KeyJSON), "env should override config")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("json", false, "")
	require.NoError(t, flags.Parse([]string{"--json=false"}))
	require.NoError(t, BindFlag(KeyJSON, flags.Lookup("json")))
	assert.False(t, GetBool(KeyJSON), "flag should override env")
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OT_USER_ROLE=responsable\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("OT_USER_ROLE") })

	require.NoError(t, Initialize())
	assert.Equal(t, "responsable", GetString(KeyUserRole))
}

func TestExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recent:\n  ttl: 1m\n"), 0o600))
	t.Setenv("OT_CONFIG", path)

	require.NoError(t, Initialize())
	assert.Equal(t, time.Minute, GetDuration(KeyRecentTTL))
}

func TestBrokenConfigFile(t *testing.T) {
	writeProjectConfig(t, "api: [unclosed\n")

	assert.Error(t, Initialize())
}

func TestSetAndGet(t *testing.T) {
	require.NoError(t, Initialize())

	Set("test-key", "test-value")
	assert.Equal(t, "test-value", GetString("test-key"))

	Set("test-int", 42)
	assert.Equal(t, 42, GetInt("test-int"))
}

func TestGettersBeforeInitialize(t *testing.T) {
	ResetForTesting()
	t.Cleanup(func() { _ = Initialize() })

	assert.Empty(t, GetString(KeyAPIURL))
	assert.False(t, GetBool(KeyJSON))
	assert.Zero(t, GetDuration(KeyAPITimeout))
	assert.Empty(t, AllSettings())
	assert.Empty(t, ConfigFileUsed())
}

func TestDumpMasksToken(t *testing.T) {
	t.Setenv("OT_API_TOKEN", "secret-token")
	require.NoError(t, Initialize())

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf))
	assert.NotContains(t, buf.String(), "secret-token")
	assert.Contains(t, buf.String(), "********")
	assert.Contains(t, buf.String(), "localhost:5000")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "textstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
host: 127.0.0.1
port: 9000
db_url: sqlite:///tmp/from-file.db
log_level: DEBUG
log_format: json
api_keys:
  - key1
  - key2
concurrency: 2
history:
  enabled: false
  retention_seconds: 86400
reporting:
  log_time_interval_seconds: 30
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Host)
	assert.Equal(t, "127.0.0.1", *cfg.Host)
	require.NotNil(t, cfg.Port)
	assert.Equal(t, 9000, *cfg.Port)
	require.NotNil(t, cfg.History)
	require.NotNil(t, cfg.History.Enabled)
	assert.False(t, *cfg.History.Enabled)
	assert.Nil(t, cfg.History.SweepIntervalSeconds, "unset nested values stay nil")
	assert.Nil(t, cfg.DataDir)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/textstat.yaml")
	assert.Error(t, err)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfigFile(t, "host: [not: closed")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestFileConfig_Options(t *testing.T) {
	path := writeConfigFile(t, `
port: 9000
log_format: json
history:
  enabled: false
`)

	fileCfg, err := LoadFile(path)
	require.NoError(t, err)

	cfg := NewAppConfig().Apply(fileCfg.Options()...)

	assert.Equal(t, 9000, cfg.Port())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.False(t, cfg.History().Enabled())

	// Fields the file does not name keep their defaults.
	assert.Equal(t, DefaultHost, cfg.Host())
	assert.Equal(t, NewHistoryConfig().Retention(), cfg.History().Retention())
}

func TestFileConfig_PartialNestedOverride(t *testing.T) {
	path := writeConfigFile(t, `
operations:
  retention_seconds: 120
`)

	fileCfg, err := LoadFile(path)
	require.NoError(t, err)

	cfg := NewAppConfig().Apply(fileCfg.Options()...)

	assert.Equal(t, float64(120), cfg.Operations().Retention().Seconds())
	assert.Equal(t, NewOperationsConfig().SweepInterval(), cfg.Operations().SweepInterval())
}

func TestLoadConfigWithFile_FileWinsOverEnv(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PORT", "9001")
	t.Setenv("LOG_LEVEL", "ERROR")

	path := writeConfigFile(t, "port: 9002\n")

	cfg, err := LoadConfigWithFile("", path)
	require.NoError(t, err)

	assert.Equal(t, 9002, cfg.Port(), "file value should win over environment")
	assert.Equal(t, "ERROR", cfg.LogLevel(), "environment still applies where the file is silent")
}

func TestLoadConfigWithFile_NoFile(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PORT", "9001")

	cfg, err := LoadConfigWithFile("", "")
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Port())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.False(t, cfg.Automation.Headless)
	assert.True(t, cfg.Automation.KeepOpen)
	assert.Equal(t, 30, cfg.Automation.HoldSeconds)
	assert.Equal(t, 30*time.Second, cfg.Automation.NavigationTimeout)

	assert.Equal(t, time.Second, cfg.Batch.InterJobDelay)
	assert.Equal(t, 24*time.Hour, cfg.Batch.MaxTaskAge)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
automation:
  headless: true
  hold_seconds: 10
batch:
  inter_job_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Automation.Headless)
	assert.Equal(t, 10, cfg.Automation.HoldSeconds)
	assert.Equal(t, 2*time.Second, cfg.Batch.InterJobDelay)

	// Values absent from the file keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 300*time.Second, cfg.Batch.TaskTimeout)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("AUTOMATION_HEADLESS", "true")
	t.Setenv("AUTOMATION_HOLD_SECONDS", "5")
	t.Setenv("BATCH_INTER_JOB_DELAY", "3s")
	t.Setenv("REDIS_ENABLED", "1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Automation.Headless)
	assert.Equal(t, 5, cfg.Automation.HoldSeconds)
	assert.Equal(t, 3*time.Second, cfg.Batch.InterJobDelay)
	assert.True(t, cfg.Redis.Enabled)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_RESUME_PATH", "/data/resume.pdf")

	assert.Equal(t, "/data/resume.pdf", expandEnvVars("${TEST_RESUME_PATH}"))
	assert.Equal(t, "/data/resume.pdf", expandEnvVars("$TEST_RESUME_PATH"))

	// Unset variables are left untouched
	assert.Equal(t, "${UNSET_VAR_XYZ}", expandEnvVars("${UNSET_VAR_XYZ}"))
}

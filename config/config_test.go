package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Thresholds{WarningPercent: 15, CriticalPercent: 30}, cfg.ThresholdsFor(SamePlatform))
	assert.Equal(t, Thresholds{WarningPercent: 25, CriticalPercent: 50}, cfg.ThresholdsFor(CrossPlatform))
	assert.Equal(t, "Load profile", cfg.Description("load_profile"))
	assert.Empty(t, cfg.IgnoredColumns)
	assert.Equal(t, []string{"calls"}, cfg.Mapping("oracle", "postgres")["Executions"])
	assert.Nil(t, cfg.Mapping("oracle", "oracle"))
}

func TestThresholdsMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
thresholds:
  same_platform:
    warning_percent: 5
  cross_platform: {}
`))
	require.NoError(t, err)

	assert.Equal(t, Thresholds{WarningPercent: 5, CriticalPercent: 30}, cfg.ThresholdsFor(SamePlatform))
	assert.Equal(t, DefaultThresholds, cfg.ThresholdsFor(CrossPlatform))
	assert.Equal(t, DefaultThresholds, cfg.ThresholdsFor("no_such_kind"))
}

func TestDescriptionFallsBackToID(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "wait_events", cfg.Description("wait_events"))

	var nilCfg *Config
	assert.Equal(t, "wait_events", nilCfg.Description("wait_events"))
	assert.Equal(t, DefaultThresholds, nilCfg.ThresholdsFor(SamePlatform))
	assert.False(t, nilCfg.Ignored("Waits"))
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.yaml")
	err := os.WriteFile(path, []byte(`
thresholds:
  same_platform:
    warning_percent: 10
    critical_percent: 20
table_descriptions:
  wait_events: "Waits"
ignored_columns: ["Executions", "%Total"]
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Thresholds{WarningPercent: 10, CriticalPercent: 20}, cfg.ThresholdsFor(SamePlatform))
	assert.Equal(t, Thresholds{WarningPercent: 25, CriticalPercent: 50}, cfg.ThresholdsFor(CrossPlatform))
	assert.Equal(t, "Waits", cfg.Description("wait_events"))
	assert.Equal(t, "Load profile", cfg.Description("load_profile"))
	assert.True(t, cfg.Ignored("Executions"))
	assert.False(t, cfg.Ignored("Elapsed Time"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds: [1, 2"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

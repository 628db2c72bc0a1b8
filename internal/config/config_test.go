package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("UIPARITY_LEGACY_BASE_URL", "http://legacy.example.com")
	t.Setenv("UIPARITY_MODERN_BASE_URL", "http://modern.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, []string{"/"}, cfg.Targets.Paths)
	assert.Equal(t, 0.9, cfg.Comparison.FuzzyThreshold)
	assert.Equal(t, 0.8, cfg.Comparison.SemanticThreshold)
	assert.Equal(t, 0.8, cfg.Comparison.TextSimilarityThreshold)
	assert.Equal(t, 2, cfg.Comparison.FieldCountTolerance)
	assert.Equal(t, 500.0, cfg.Comparison.PerformanceToleranceMS)
	assert.Equal(t, 5, cfg.Comparison.IframeElementTolerance)
	assert.Equal(t, 5, cfg.Comparison.MaxTestFailures)
	assert.True(t, cfg.Checks.Basic)
	assert.True(t, cfg.Checks.SemanticFields)
	assert.Equal(t, 10, cfg.Limits.MaxImages)
	assert.Equal(t, 50, cfg.Limits.MaxRoles)
	assert.Equal(t, 5, cfg.Limits.MaxTableRows)
	assert.Equal(t, 2000, cfg.Limits.BodySnapshotLen)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1440, cfg.Browser.ViewportWidth)
	assert.Equal(t, "reports", cfg.Report.Dir)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "config/mappings.yaml", cfg.Mappings.Path)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadMissingTargets(t *testing.T) {
	t.Setenv("UIPARITY_LEGACY_BASE_URL", "")
	t.Setenv("UIPARITY_MODERN_BASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UIPARITY_COMPARE_PATHS", "/,/login,/checkout")
	t.Setenv("UIPARITY_FUZZY_THRESHOLD", "0.85")
	t.Setenv("UIPARITY_CHECK_IFRAMES", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/login", "/checkout"}, cfg.Targets.Paths)
	assert.Equal(t, 0.85, cfg.Comparison.FuzzyThreshold)
	assert.False(t, cfg.Checks.Iframes)
}

func TestValidateThresholdBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UIPARITY_FUZZY_THRESHOLD", "1.5")

	_, err := Load()
	assert.ErrorContains(t, err, "FUZZY_THRESHOLD")
}

func TestValidateNegativeTolerance(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UIPARITY_FIELD_COUNT_TOLERANCE", "-1")

	_, err := Load()
	assert.ErrorContains(t, err, "FIELD_COUNT_TOLERANCE")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", d.DSN())
}

func TestGetLogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	assert.Equal(t, zapcore.WarnLevel, cfg.GetLogLevel())

	cfg.LogLevel = "nonsense"
	assert.Equal(t, zapcore.InfoLevel, cfg.GetLogLevel())
}

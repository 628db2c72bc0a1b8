package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// Config holds all application configuration
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	Targets    TargetsConfig
	Comparison ComparisonConfig
	Checks     ChecksConfig
	Limits     LimitsConfig
	Highlight  HighlightConfig
	Browser    BrowserConfig
	Report     ReportConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Mappings   MappingsConfig

	// IgnoreSelectors are removed from both pages before any collection
	// so known-noisy regions never reach the comparators.
	IgnoreSelectors []string `envconfig:"IGNORE_SELECTORS"`
}

// TargetsConfig names the two environments under comparison
type TargetsConfig struct {
	LegacyBaseURL string   `envconfig:"LEGACY_BASE_URL" required:"true"`
	ModernBaseURL string   `envconfig:"MODERN_BASE_URL" required:"true"`
	Paths         []string `envconfig:"COMPARE_PATHS" default:"/"`
}

// ComparisonConfig holds thresholds and tolerances for the comparators
type ComparisonConfig struct {
	FuzzyThreshold          float64 `envconfig:"FUZZY_THRESHOLD" default:"0.9"`
	SemanticThreshold       float64 `envconfig:"SEMANTIC_THRESHOLD" default:"0.8"`
	TextSimilarityThreshold float64 `envconfig:"TEXT_SIMILARITY_THRESHOLD" default:"0.8"`
	FieldCountTolerance     int     `envconfig:"FIELD_COUNT_TOLERANCE" default:"2"`
	PerformanceToleranceMS  float64 `envconfig:"PERFORMANCE_TOLERANCE_MS" default:"500"`
	IframeElementTolerance  int     `envconfig:"IFRAME_ELEMENT_TOLERANCE" default:"5"`
	MaxTestFailures         int     `envconfig:"MAX_TEST_FAILURES" default:"5"`
	NavigationRPS           float64 `envconfig:"NAVIGATION_RPS" default:"2"`
}

// ChecksConfig toggles comparison categories. Disabled checks are
// counted as skipped rather than silently dropped.
type ChecksConfig struct {
	Basic          bool `envconfig:"CHECK_BASIC" default:"true"`
	Extended       bool `envconfig:"CHECK_EXTENDED" default:"true"`
	ModernFeatures bool `envconfig:"CHECK_MODERN_FEATURES" default:"true"`
	PageStructure  bool `envconfig:"CHECK_PAGE_STRUCTURE" default:"true"`
	Iframes        bool `envconfig:"CHECK_IFRAMES" default:"true"`
	SemanticFields bool `envconfig:"CHECK_SEMANTIC_FIELDS" default:"true"`
}

// LimitsConfig caps collection sizes so large pages stay cheap to diff
type LimitsConfig struct {
	MaxImages       int `envconfig:"MAX_IMAGES" default:"10"`
	MaxRoles        int `envconfig:"MAX_ROLES" default:"50"`
	MaxTableRows    int `envconfig:"MAX_TABLE_ROWS" default:"5"`
	BodySnapshotLen int `envconfig:"BODY_SNAPSHOT_LEN" default:"2000"`
}

// HighlightConfig controls visual highlighting of compared regions
type HighlightConfig struct {
	Enabled    bool     `envconfig:"HIGHLIGHT_ENABLED" default:"false"`
	DurationMS int      `envconfig:"HIGHLIGHT_DURATION_MS" default:"600"`
	Selectors  []string `envconfig:"HIGHLIGHT_SELECTORS"`
}

// BrowserConfig holds browser launch and page options
type BrowserConfig struct {
	Headless          bool          `envconfig:"BROWSER_HEADLESS" default:"true"`
	NavigationTimeout time.Duration `envconfig:"NAVIGATION_TIMEOUT" default:"30s"`
	ViewportWidth     int           `envconfig:"VIEWPORT_WIDTH" default:"1440"`
	ViewportHeight    int           `envconfig:"VIEWPORT_HEIGHT" default:"900"`
}

// ReportConfig controls report output
type ReportConfig struct {
	Dir    string `envconfig:"REPORT_DIR" default:"reports"`
	Upload bool   `envconfig:"REPORT_UPLOAD" default:"false"`
}

// ServerConfig holds report server settings
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Enabled         bool          `envconfig:"DB_ENABLED" default:"false"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"uiparity"`
	Password        string        `envconfig:"DB_PASSWORD" default:""`
	Name            string        `envconfig:"DB_NAME" default:"uiparity"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// StorageConfig holds object storage (MinIO/S3) settings
type StorageConfig struct {
	Endpoint  string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"STORAGE_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"STORAGE_SECRET_KEY" default:""`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"uiparity-reports"`
	UseSSL    bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	Region    string `envconfig:"STORAGE_REGION" default:"us-east-1"`
}

// MappingsConfig points at the semantic field mapping file
type MappingsConfig struct {
	Path string `envconfig:"MAPPINGS_PATH" default:"config/mappings.yaml"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("UIPARITY", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Targets.LegacyBaseURL == "" {
		return fmt.Errorf("LEGACY_BASE_URL is required")
	}
	if c.Targets.ModernBaseURL == "" {
		return fmt.Errorf("MODERN_BASE_URL is required")
	}
	if len(c.Targets.Paths) == 0 {
		return fmt.Errorf("at least one comparison path is required")
	}
	if c.Comparison.FuzzyThreshold <= 0 || c.Comparison.FuzzyThreshold > 1 {
		return fmt.Errorf("FUZZY_THRESHOLD must be in (0, 1], got %v", c.Comparison.FuzzyThreshold)
	}
	if c.Comparison.SemanticThreshold <= 0 || c.Comparison.SemanticThreshold > 1 {
		return fmt.Errorf("SEMANTIC_THRESHOLD must be in (0, 1], got %v", c.Comparison.SemanticThreshold)
	}
	if c.Comparison.TextSimilarityThreshold <= 0 || c.Comparison.TextSimilarityThreshold > 1 {
		return fmt.Errorf("TEXT_SIMILARITY_THRESHOLD must be in (0, 1], got %v", c.Comparison.TextSimilarityThreshold)
	}
	if c.Comparison.FieldCountTolerance < 0 {
		return fmt.Errorf("FIELD_COUNT_TOLERANCE must not be negative")
	}
	if c.Comparison.MaxTestFailures < 0 {
		return fmt.Errorf("MAX_TEST_FAILURES must not be negative")
	}
	if c.Comparison.NavigationRPS <= 0 {
		return fmt.Errorf("NAVIGATION_RPS must be positive")
	}
	return nil
}

// IsDevelopment returns true in development environments
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// GetLogLevel parses the configured log level, defaulting to info
func (c *Config) GetLogLevel() zapcore.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ServerAddr returns the host:port for the report server
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

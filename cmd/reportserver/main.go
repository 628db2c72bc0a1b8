// Command reportserver serves generated comparison reports and
// Prometheus metrics over HTTP.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/observability"
	"github.com/uiparity/uiparity/internal/report"
	"github.com/uiparity/uiparity/internal/repository/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	metrics := observability.NewMetrics()
	generator := report.NewGenerator(cfg.Report.Dir, log)

	var runs report.RunLister
	if cfg.Database.Enabled {
		db, err := postgres.New(cfg.Database)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		runs = postgres.NewRunRepository(db.DB)
	}

	server := report.NewServer(cfg, generator, runs, metrics, log)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.GetLogLevel())
	if cfg.Debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapCfg.Build()
}

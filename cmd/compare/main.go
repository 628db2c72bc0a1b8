// Command compare drives both environments through every configured
// path and reports field-by-field equivalence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uiparity/uiparity/internal/comparator"
	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
	"github.com/uiparity/uiparity/internal/engine"
	"github.com/uiparity/uiparity/internal/observability"
	"github.com/uiparity/uiparity/internal/report"
	"github.com/uiparity/uiparity/internal/repository/postgres"
	"github.com/uiparity/uiparity/internal/semantic"
	"github.com/uiparity/uiparity/internal/storage"
)

func main() {
	envFile := flag.String("env-file", ".env", "environment file to load")
	mappingsPath := flag.String("mappings", "", "override the mappings file path")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "loading %s: %v\n", *envFile, err)
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

	if err := run(cfg, log, *mappingsPath); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeThreshold {
			color.Red("FAILED: %s", domainErr.Message)
			os.Exit(1)
		}
		log.Fatal("run failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, mappingsOverride string) error {
	ctx := context.Background()

	mappingsPath := cfg.Mappings.Path
	if mappingsOverride != "" {
		mappingsPath = mappingsOverride
	}
	var fields *semantic.FieldComparator
	mappings, err := config.LoadMappings(mappingsPath)
	if err != nil {
		log.Warn("no field mappings loaded, semantic checks will be skipped",
			zap.String("path", mappingsPath),
			zap.Error(err))
	} else {
		fields = semantic.New(mappings, semantic.Options{
			TextSimilarityThreshold: cfg.Comparison.TextSimilarityThreshold,
			FieldCountTolerance:     cfg.Comparison.FieldCountTolerance,
		}, log)
	}

	metrics := observability.NewMetrics()
	cmp := comparator.New(comparator.Options{
		FuzzyThreshold:         cfg.Comparison.FuzzyThreshold,
		SemanticThreshold:      cfg.Comparison.SemanticThreshold,
		PerformanceToleranceMS: cfg.Comparison.PerformanceToleranceMS,
	}, log)
	eng := engine.New(cfg, cmp, fields, metrics, log)

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("starting playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Browser.Headless),
	})
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	defer browser.Close()

	legacy, err := newPage(browser, cfg)
	if err != nil {
		return fmt.Errorf("opening legacy page: %w", err)
	}
	modern, err := newPage(browser, cfg)
	if err != nil {
		return fmt.Errorf("opening modern page: %w", err)
	}

	orch := engine.NewOrchestrator(cfg, eng, legacy, modern, metrics, log)

	bar := progressbar.NewOptions(len(cfg.Targets.Paths),
		progressbar.OptionSetDescription("comparing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)

	var paths []report.PathReport
	var total domain.Tally
	for _, path := range cfg.Targets.Paths {
		run, rc, err := orch.RunPath(ctx, path)
		bar.Add(1)
		if err != nil {
			return fmt.Errorf("comparing %s: %w", path, err)
		}
		total.Add(rc.Tally)
		paths = append(paths, report.PathReport{Run: run, Outcomes: rc.Outcomes})
	}
	fmt.Fprintln(os.Stderr)

	gen := report.NewGenerator(cfg.Report.Dir, log)
	runReport := gen.Build(cfg.Targets.LegacyBaseURL, cfg.Targets.ModernBaseURL, paths, cfg.Comparison.MaxTestFailures)
	reportPath, err := gen.Write(runReport)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	printSummary(runReport, reportPath)

	if cfg.Report.Upload {
		if err := uploadReport(ctx, cfg, reportPath, log); err != nil {
			log.Warn("report upload failed", zap.Error(err))
		}
	}
	if cfg.Database.Enabled {
		if err := persistRuns(ctx, cfg, paths, log); err != nil {
			log.Warn("persisting runs failed", zap.Error(err))
		}
	}

	return orch.AssertSuccess(total)
}

func newPage(browser playwright.Browser, cfg *config.Config) (driver.Driver, error) {
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.Browser.ViewportWidth,
			Height: cfg.Browser.ViewportHeight,
		},
	})
	if err != nil {
		return nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		return nil, err
	}
	page.SetDefaultTimeout(float64(cfg.Browser.NavigationTimeout.Milliseconds()))
	return driver.NewPageDriver(page), nil
}

func printSummary(r *report.RunReport, reportPath string) {
	fmt.Println()
	if r.Success {
		color.Green("PASS  %d passed, %d failed, %d skipped, %d errors",
			r.Tally.Passed, r.Tally.Failed, r.Tally.Skipped, r.Tally.Errors)
	} else {
		color.Red("FAIL  %d passed, %d failed, %d skipped, %d errors",
			r.Tally.Passed, r.Tally.Failed, r.Tally.Skipped, r.Tally.Errors)
		for _, outcome := range r.FailedOutcomes() {
			color.Yellow("  %-24s %s", outcome.Name, outcome.Message)
		}
	}
	fmt.Printf("report: %s\n", reportPath)
}

func uploadReport(ctx context.Context, cfg *config.Config, reportPath string, log *zap.Logger) error {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return err
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return err
	}
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return err
	}
	uri, err := client.UploadReport(ctx, filepath.Base(reportPath), data)
	if err != nil {
		return err
	}
	log.Info("report uploaded", zap.String("uri", uri))
	return nil
}

func persistRuns(ctx context.Context, cfg *config.Config, paths []report.PathReport, log *zap.Logger) error {
	db, err := postgres.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewRunRepository(db.DB)
	for _, p := range paths {
		if err := repo.Create(ctx, p.Run, p.Outcomes); err != nil {
			return err
		}
	}
	log.Info("runs persisted", zap.Int("count", len(paths)))
	return nil
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

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
	"github.com/uiparity/uiparity/internal/observability"
)

// Orchestrator prepares page pairs and runs the engine over each
// configured path, enforcing the failure gate at the end.
type Orchestrator struct {
	cfg     *config.Config
	engine  *Engine
	legacy  driver.Driver
	modern  driver.Driver
	limiter *rate.Limiter
	metrics *observability.Metrics
	log     *zap.Logger

	// highlighted tracks selectors already highlighted during the
	// current run so repeated setup never re-flashes them.
	highlighted map[string]struct{}
}

// NewOrchestrator creates an orchestrator over a pair of drivers
func NewOrchestrator(cfg *config.Config, eng *Engine, legacy, modern driver.Driver, metrics *observability.Metrics, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		cfg:         cfg,
		engine:      eng,
		legacy:      legacy,
		modern:      modern,
		limiter:     rate.NewLimiter(rate.Limit(cfg.Comparison.NavigationRPS), 1),
		metrics:     metrics,
		log:         log,
		highlighted: make(map[string]struct{}),
	}
}

// SetupPages navigates both environments to the path and prepares the
// documents for collection.
func (o *Orchestrator) SetupPages(ctx context.Context, path string) error {
	if err := o.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for navigation slot: %w", err)
	}

	legacyURL := joinURL(o.cfg.Targets.LegacyBaseURL, path)
	modernURL := joinURL(o.cfg.Targets.ModernBaseURL, path)

	for _, target := range []struct {
		name string
		d    driver.Driver
		url  string
	}{
		{"legacy", o.legacy, legacyURL},
		{"modern", o.modern, modernURL},
	} {
		if err := target.d.Navigate(target.url); err != nil {
			return domain.NavigationError(target.url, err)
		}
		if err := target.d.WaitReady(o.cfg.Browser.NavigationTimeout); err != nil {
			return domain.NavigationError(target.url, err)
		}
		o.log.Debug("page ready",
			zap.String("environment", target.name),
			zap.String("url", target.url))
	}

	o.applyHighlighting()
	o.removeIgnored()
	return nil
}

// applyHighlighting outlines configured selectors once per run
func (o *Orchestrator) applyHighlighting() {
	if !o.cfg.Highlight.Enabled {
		return
	}
	for _, selector := range o.cfg.Highlight.Selectors {
		if _, done := o.highlighted[selector]; done {
			continue
		}
		o.highlighted[selector] = struct{}{}
		script := fmt.Sprintf(`(() => {
			document.querySelectorAll(%s).forEach(el => {
				el.style.outline = '2px solid #e91e63';
				setTimeout(() => { el.style.outline = ''; }, %d);
			});
		})()`, jsString(selector), o.cfg.Highlight.DurationMS)
		for _, d := range []driver.Driver{o.legacy, o.modern} {
			if _, err := d.Evaluate(script); err != nil {
				o.log.Warn("highlighting failed",
					zap.String("selector", selector),
					zap.Error(err))
			}
		}
	}
}

// removeIgnored strips configured selectors from both documents before
// any collection runs.
func (o *Orchestrator) removeIgnored() {
	if len(o.cfg.IgnoreSelectors) == 0 {
		return
	}
	quoted := make([]string, len(o.cfg.IgnoreSelectors))
	for i, sel := range o.cfg.IgnoreSelectors {
		quoted[i] = jsString(sel)
	}
	script := fmt.Sprintf(`(() => {
		[%s].forEach(sel => {
			document.querySelectorAll(sel).forEach(el => el.remove());
		});
	})()`, strings.Join(quoted, ", "))
	for _, d := range []driver.Driver{o.legacy, o.modern} {
		if _, err := d.Evaluate(script); err != nil {
			o.log.Warn("removing ignored selectors failed", zap.Error(err))
		}
	}
}

// RunPath sets up both pages for a path, runs every category, and
// finalizes the run record.
func (o *Orchestrator) RunPath(ctx context.Context, path string) (*domain.Run, *RunContext, error) {
	o.highlighted = make(map[string]struct{})

	run := domain.NewRun(path,
		joinURL(o.cfg.Targets.LegacyBaseURL, path),
		joinURL(o.cfg.Targets.ModernBaseURL, path))

	if err := o.SetupPages(ctx, path); err != nil {
		return nil, nil, err
	}

	rc := &RunContext{}
	o.engine.RunAll(rc, o.legacy, o.modern)
	run.Complete(rc.Tally, o.cfg.Comparison.MaxTestFailures)

	if o.metrics != nil {
		status := domain.StatusPassed
		if !run.Success {
			status = domain.StatusFailed
		}
		o.metrics.RunsTotal.WithLabelValues(status).Inc()
	}

	o.log.Info("path run complete",
		zap.String("path", path),
		zap.Int("passed", rc.Tally.Passed),
		zap.Int("failed", rc.Tally.Failed),
		zap.Int("skipped", rc.Tally.Skipped),
		zap.Int("errors", rc.Tally.Errors),
		zap.Bool("success", run.Success))
	return run, rc, nil
}

// AssertSuccess enforces the failure gate over an accumulated tally
func (o *Orchestrator) AssertSuccess(tally domain.Tally) error {
	if tally.Failed <= o.cfg.Comparison.MaxTestFailures {
		return nil
	}
	return domain.ThresholdExceededError(tally.Failed, o.cfg.Comparison.MaxTestFailures)
}

// joinURL joins a base URL and a path without doubling slashes
func joinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// jsString renders a Go string as a JavaScript string literal
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

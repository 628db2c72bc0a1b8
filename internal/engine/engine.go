// Package engine drives the comparison categories against a pair of
// environments and accumulates the run tally.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/uiparity/uiparity/internal/collectors"
	"github.com/uiparity/uiparity/internal/comparator"
	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
	"github.com/uiparity/uiparity/internal/observability"
	"github.com/uiparity/uiparity/internal/semantic"
)

// RunContext accumulates the outcomes of one path run
type RunContext struct {
	Tally    domain.Tally
	Outcomes []domain.CategoryOutcome
}

// Engine runs the comparison categories. The semantic field comparator
// and metrics are optional.
type Engine struct {
	cfg     *config.Config
	cmp     *comparator.Comparator
	fields  *semantic.FieldComparator
	metrics *observability.Metrics
	log     *zap.Logger
}

// New creates an engine. fields and metrics may be nil.
func New(cfg *config.Config, cmp *comparator.Comparator, fields *semantic.FieldComparator, metrics *observability.Metrics, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, cmp: cmp, fields: fields, metrics: metrics, log: log}
}

// RunAll executes every comparison category
func (e *Engine) RunAll(rc *RunContext, legacy, modern driver.Driver) {
	e.RunBasic(rc, legacy, modern)
	e.RunExtended(rc, legacy, modern)
	e.RunModernFeatures(rc, legacy, modern)
	e.RunPageStructure(rc, legacy, modern)
	e.RunIframes(rc, legacy, modern)
	e.RunSemanticFields(rc, legacy, modern)
}

// collectAndCompare gathers one check's data from both environments and
// records the verdict. Collection failures count as errors, not
// comparison failures.
func collectAndCompare[T any](
	e *Engine,
	rc *RunContext,
	name string,
	legacy, modern driver.Driver,
	collect func(driver.Driver) (T, error),
	compare func(legacy, modern T) domain.ComparisonResult,
) bool {
	start := time.Now()

	legacyData, err := collect(legacy)
	if err != nil {
		e.recordError(rc, name, start, err)
		return false
	}
	modernData, err := collect(modern)
	if err != nil {
		e.recordError(rc, name, start, err)
		return false
	}

	result := compare(legacyData, modernData)
	elapsed := time.Since(start)

	if result.Success {
		rc.Tally.Passed++
		rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
			Name:       name,
			Status:     domain.StatusPassed,
			Message:    result.Message,
			Similarity: result.Similarity,
			Duration:   elapsed,
		})
		e.observe(name, domain.StatusPassed, elapsed)
		return true
	}

	rc.Tally.Failed++
	e.log.Warn("comparison failed",
		zap.String("check", name),
		zap.String("message", result.Message))
	rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
		Name:       name,
		Status:     domain.StatusFailed,
		Message:    result.Message,
		Similarity: result.Similarity,
		Duration:   elapsed,
	})
	e.observe(name, domain.StatusFailed, elapsed)
	return false
}

func (e *Engine) recordError(rc *RunContext, name string, start time.Time, err error) {
	rc.Tally.Errors++
	e.log.Error("collection failed",
		zap.String("check", name),
		zap.Error(err))
	rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
		Name:     name,
		Status:   domain.StatusError,
		Message:  err.Error(),
		Duration: time.Since(start),
	})
	e.observe(name, domain.StatusError, time.Since(start))
}

func (e *Engine) recordSkip(rc *RunContext, category string) {
	rc.Tally.Skipped++
	rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
		Name:    category,
		Status:  domain.StatusSkipped,
		Message: "check disabled",
	})
	e.log.Debug("category skipped", zap.String("category", category))
}

func (e *Engine) observe(name, status string, elapsed time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.ComparisonsTotal.WithLabelValues(name, status).Inc()
	e.metrics.ComparisonDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// RunBasic compares the page's primary text content
func (e *Engine) RunBasic(rc *RunContext, legacy, modern driver.Driver) {
	if !e.cfg.Checks.Basic {
		e.recordSkip(rc, "basic")
		return
	}
	collectAndCompare(e, rc, "page_title", legacy, modern, collectors.PageTitle,
		func(l, m string) domain.ComparisonResult {
			return e.cmp.CompareText(l, m, comparator.CompareExact)
		})
	collectAndCompare(e, rc, "primary_h1", legacy, modern, collectors.PrimaryH1,
		func(l, m string) domain.ComparisonResult {
			return e.cmp.CompareText(l, m, comparator.CompareExact)
		})
	collectAndCompare(e, rc, "headings", legacy, modern, collectors.HeadingTexts,
		func(l, m []string) domain.ComparisonResult {
			return e.cmp.CompareLists(l, m, comparator.CompareExact, comparator.ListOptions{})
		})
	collectAndCompare(e, rc, "nav_links", legacy, modern, collectors.NavLinkTexts,
		func(l, m []string) domain.ComparisonResult {
			return e.cmp.CompareLists(l, m, comparator.CompareExact, comparator.ListOptions{AllowPartial: true})
		})
	collectAndCompare(e, rc, "buttons", legacy, modern, collectors.ButtonTexts,
		func(l, m []string) domain.ComparisonResult {
			return e.cmp.CompareLists(l, m, comparator.CompareExact, comparator.ListOptions{})
		})
	collectAndCompare(e, rc, "body_text", legacy, modern, collectors.BodySnapshot(e.cfg.Limits.BodySnapshotLen),
		func(l, m string) domain.ComparisonResult {
			return e.cmp.CompareText(l, m, comparator.CompareFuzzy)
		})
}

// RunExtended compares links, forms, tables, and metadata
func (e *Engine) RunExtended(rc *RunContext, legacy, modern driver.Driver) {
	if !e.cfg.Checks.Extended {
		e.recordSkip(rc, "extended")
		return
	}
	collectAndCompare(e, rc, "links_map", legacy, modern, collectors.LinksMap,
		func(l, m []domain.Link) domain.ComparisonResult {
			return e.cmp.CompareLinks(l, m, false)
		})
	collectAndCompare(e, rc, "form_structure", legacy, modern, collectors.FormSummary,
		e.cmp.CompareFormStructure)
	collectAndCompare(e, rc, "table_structure", legacy, modern, collectors.TablePreview(e.cfg.Limits.MaxTableRows),
		e.cmp.CompareTableStructure)
	collectAndCompare(e, rc, "meta", legacy, modern, collectors.Meta,
		e.cmp.CompareMetaStructure)
}

// RunModernFeatures compares accessibility, interaction widgets, and
// rendering details.
func (e *Engine) RunModernFeatures(rc *RunContext, legacy, modern driver.Driver) {
	if !e.cfg.Checks.ModernFeatures {
		e.recordSkip(rc, "modern_features")
		return
	}
	collectAndCompare(e, rc, "accessibility", legacy, modern, collectors.Accessibility,
		e.cmp.CompareAccessibility)
	collectAndCompare(e, rc, "breadcrumbs", legacy, modern, collectors.Breadcrumbs,
		func(l, m []string) domain.ComparisonResult {
			return e.cmp.CompareLists(l, m, comparator.CompareExact, comparator.ListOptions{})
		})
	collectAndCompare(e, rc, "tabs", legacy, modern, collectors.Tabs, e.cmp.CompareTabs)
	collectAndCompare(e, rc, "accordions", legacy, modern, collectors.Accordions, e.cmp.CompareAccordions)
	collectAndCompare(e, rc, "pagination", legacy, modern, collectors.Pagination, e.cmp.ComparePagination)
	collectAndCompare(e, rc, "widgets", legacy, modern, collectors.Widgets, e.cmp.CompareWidgets)
	collectAndCompare(e, rc, "landmarks", legacy, modern, collectors.Landmarks,
		func(l, m map[string]bool) domain.ComparisonResult {
			return e.cmp.CompareBooleanMap("landmarks", l, m)
		})
	collectAndCompare(e, rc, "i18n", legacy, modern, collectors.I18N, e.cmp.CompareI18N)
	collectAndCompare(e, rc, "performance", legacy, modern, collectors.Performance, e.cmp.ComparePerformance)
	collectAndCompare(e, rc, "images", legacy, modern, collectors.ImagesPreview(e.cfg.Limits.MaxImages),
		e.cmp.CompareImagesPreview)
	collectAndCompare(e, rc, "interactive_roles", legacy, modern, collectors.InteractiveRoles(e.cfg.Limits.MaxRoles),
		e.cmp.CompareInteractiveRoles)
}

// RunPageStructure compares overall page architecture
func (e *Engine) RunPageStructure(rc *RunContext, legacy, modern driver.Driver) {
	if !e.cfg.Checks.PageStructure {
		e.recordSkip(rc, "page_structure")
		return
	}
	collectAndCompare(e, rc, "page_architecture", legacy, modern, collectors.PageArchitecture,
		e.cmp.ComparePageArchitecture)
}

// RunIframes compares content across browsing contexts
func (e *Engine) RunIframes(rc *RunContext, legacy, modern driver.Driver) {
	if !e.cfg.Checks.Iframes {
		e.recordSkip(rc, "iframes")
		return
	}
	collectAndCompare(e, rc, "iframe_content", legacy, modern, collectors.IframeContent,
		func(l, m domain.IframeContent) domain.ComparisonResult {
			return e.cmp.CompareIframeContent(l, m, e.cfg.Comparison.IframeElementTolerance)
		})
}

// RunSemanticFields compares mapped fields by role: every configured
// form type, then navigation, actions, and data displays.
func (e *Engine) RunSemanticFields(rc *RunContext, legacy, modern driver.Driver) {
	if !e.cfg.Checks.SemanticFields {
		e.recordSkip(rc, "semantic_fields")
		return
	}
	if e.fields == nil {
		rc.Tally.Skipped++
		rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
			Name:    "semantic_fields",
			Status:  domain.StatusSkipped,
			Message: "no field mappings configured",
		})
		return
	}

	for _, formType := range e.fields.FormTypes() {
		name := "semantic_form_" + formType
		start := time.Now()
		result, err := e.fields.CompareFormFields(legacy, modern, formType)
		if err != nil {
			e.recordError(rc, name, start, err)
			continue
		}
		e.recordSemantic(rc, name, start, result.OverallMatch, len(result.MissingFields), "field")
	}

	e.runSemanticCheck(rc, "semantic_navigation", func() (bool, int, error) {
		result, err := e.fields.CompareNavigation(legacy, modern)
		if err != nil {
			return false, 0, err
		}
		return result.OverallMatch, len(result.MissingItems), nil
	}, "navigation")

	e.runSemanticCheck(rc, "semantic_actions", func() (bool, int, error) {
		result, err := e.fields.CompareActions(legacy, modern)
		if err != nil {
			return false, 0, err
		}
		return result.OverallMatch, len(result.MissingActions), nil
	}, "action")

	e.runSemanticCheck(rc, "semantic_data_display", func() (bool, int, error) {
		result, err := e.fields.CompareDataDisplay(legacy, modern)
		if err != nil {
			return false, 0, err
		}
		return result.OverallMatch, len(result.MissingDisplays), nil
	}, "display")
}

func (e *Engine) runSemanticCheck(rc *RunContext, name string, run func() (bool, int, error), kind string) {
	start := time.Now()
	match, missing, err := run()
	if err != nil {
		e.recordError(rc, name, start, err)
		return
	}
	e.recordSemantic(rc, name, start, match, missing, kind)
}

func (e *Engine) recordSemantic(rc *RunContext, name string, start time.Time, match bool, missing int, kind string) {
	elapsed := time.Since(start)
	if e.metrics != nil && missing > 0 {
		e.metrics.FieldMismatches.WithLabelValues(kind).Add(float64(missing))
	}
	if match {
		rc.Tally.Passed++
		rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
			Name:     name,
			Status:   domain.StatusPassed,
			Message:  "all mapped elements match",
			Duration: elapsed,
		})
		e.observe(name, domain.StatusPassed, elapsed)
		return
	}
	rc.Tally.Failed++
	e.log.Warn("semantic comparison failed",
		zap.String("check", name),
		zap.Int("missing", missing))
	rc.Outcomes = append(rc.Outcomes, domain.CategoryOutcome{
		Name:     name,
		Status:   domain.StatusFailed,
		Message:  "mapped elements differ",
		Duration: elapsed,
	})
	e.observe(name, domain.StatusFailed, elapsed)
}

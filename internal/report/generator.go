package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/uiparity/uiparity/internal/domain"
)

// Generator assembles run reports and writes them to the report
// directory as timestamped JSON files.
type Generator struct {
	dir string
	log *zap.Logger
}

// NewGenerator creates a generator writing into dir
func NewGenerator(dir string, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{dir: dir, log: log}
}

// Build assembles a report from completed path runs. maxFailures is
// the gate applied to the combined tally.
func (g *Generator) Build(legacyBase, modernBase string, paths []PathReport, maxFailures int) *RunReport {
	report := &RunReport{
		GeneratedAt: time.Now().UTC(),
		LegacyBase:  legacyBase,
		ModernBase:  modernBase,
		Paths:       paths,
	}
	for _, p := range paths {
		if p.Run != nil {
			report.Tally.Add(p.Run.Tally)
		}
	}
	report.Success = report.Tally.Failed <= maxFailures
	return report
}

// Write persists the report, returning the file path
func (g *Generator) Write(report *RunReport) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	name := fmt.Sprintf("run-%s.json", report.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(g.dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	g.log.Info("report written",
		zap.String("path", path),
		zap.Int("paths", len(report.Paths)),
		zap.Bool("success", report.Success))
	return path, nil
}

// Latest loads the most recently modified report in the directory
func (g *Generator) Latest() (*RunReport, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, fmt.Errorf("reading report dir: %w", err)
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return nil, domain.NotFoundError("report", g.dir)
	}

	data, err := os.ReadFile(filepath.Join(g.dir, newest))
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", newest, err)
	}
	return &report, nil
}

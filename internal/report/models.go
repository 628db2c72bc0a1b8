// Package report builds, persists, and serves comparison run reports.
package report

import (
	"time"

	"github.com/uiparity/uiparity/internal/domain"
)

// PathReport is the report for one compared path
type PathReport struct {
	Run      *domain.Run              `json:"run"`
	Outcomes []domain.CategoryOutcome `json:"outcomes"`
}

// RunReport is the full report for one invocation across all paths
type RunReport struct {
	GeneratedAt time.Time    `json:"generated_at"`
	LegacyBase  string       `json:"legacy_base_url"`
	ModernBase  string       `json:"modern_base_url"`
	Paths       []PathReport `json:"paths"`
	Tally       domain.Tally `json:"tally"`
	Success     bool         `json:"success"`
}

// FailedOutcomes returns every failed or errored outcome across paths
func (r *RunReport) FailedOutcomes() []domain.CategoryOutcome {
	var failed []domain.CategoryOutcome
	for _, p := range r.Paths {
		for _, o := range p.Outcomes {
			if o.Status == domain.StatusFailed || o.Status == domain.StatusError {
				failed = append(failed, o)
			}
		}
	}
	return failed
}

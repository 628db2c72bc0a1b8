package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run is the persisted summary of one path comparison between the two
// environments.
type Run struct {
	ID          uuid.UUID `json:"id"`
	Path        string    `json:"path"`
	LegacyURL   string    `json:"legacy_url"`
	ModernURL   string    `json:"modern_url"`
	Tally       Tally     `json:"tally"`
	Success     bool      `json:"success"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewRun creates a run record for a path with a fresh ID
func NewRun(path, legacyURL, modernURL string) *Run {
	return &Run{
		ID:        uuid.New(),
		Path:      path,
		LegacyURL: legacyURL,
		ModernURL: modernURL,
		StartedAt: time.Now().UTC(),
	}
}

// Complete finalizes the run with its tally and gate verdict
func (r *Run) Complete(tally Tally, maxFailures int) {
	r.Tally = tally
	r.Success = tally.Failed <= maxFailures
	r.CompletedAt = time.Now().UTC()
}

// Duration returns the wall-clock duration of the run
func (r *Run) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

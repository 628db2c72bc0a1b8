package domain

import (
	"fmt"
	"time"
)

// ComparisonResult is the outcome of a single comparison operation.
// Similarity is nil for comparisons that have no meaningful score.
type ComparisonResult struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Similarity *float64       `json:"similarity,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Pass creates a successful result
func Pass(message string) ComparisonResult {
	return ComparisonResult{Success: true, Message: message, Timestamp: time.Now().UTC()}
}

// Passf creates a successful result with a formatted message
func Passf(format string, args ...any) ComparisonResult {
	return Pass(fmt.Sprintf(format, args...))
}

// Fail creates a failed result
func Fail(message string) ComparisonResult {
	return ComparisonResult{Success: false, Message: message, Timestamp: time.Now().UTC()}
}

// Failf creates a failed result with a formatted message
func Failf(format string, args ...any) ComparisonResult {
	return Fail(fmt.Sprintf(format, args...))
}

// WithScore attaches a similarity score to the result
func (r ComparisonResult) WithScore(score float64) ComparisonResult {
	r.Similarity = &score
	return r
}

// WithDetails attaches structured details to the result
func (r ComparisonResult) WithDetails(details map[string]any) ComparisonResult {
	r.Details = details
	return r
}

func (r ComparisonResult) String() string {
	if r.Similarity != nil {
		return fmt.Sprintf("ComparisonResult(success=%t, message=%q, similarity=%.2f)", r.Success, r.Message, *r.Similarity)
	}
	return fmt.Sprintf("ComparisonResult(success=%t, message=%q)", r.Success, r.Message)
}

// Tally accumulates per-run comparison outcomes.
type Tally struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Add merges another tally into this one
func (t *Tally) Add(other Tally) {
	t.Passed += other.Passed
	t.Failed += other.Failed
	t.Skipped += other.Skipped
	t.Errors += other.Errors
}

// Total returns the total number of recorded outcomes
func (t Tally) Total() int {
	return t.Passed + t.Failed + t.Skipped + t.Errors
}

// Category outcome statuses
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// CategoryOutcome records the result of one comparison category within a run.
type CategoryOutcome struct {
	Name       string        `json:"name"`
	Status     string        `json:"status"`
	Message    string        `json:"message,omitempty"`
	Similarity *float64      `json:"similarity,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

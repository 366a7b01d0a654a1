/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package lint

import (
	"time"
)

// Severity represents the severity level of a lint issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityInfo:     0,
}

// AtLeast reports whether s is at or above the threshold severity.
func (s Severity) AtLeast(threshold Severity) bool {
	return severityRank[s] >= severityRank[threshold]
}

// Issue is a single lint finding.
type Issue struct {
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Check    string   `json:"check"`
}

// CheckResult holds one check's outcome.
type CheckResult struct {
	Check    string        `json:"check"`
	Blocking bool          `json:"blocking"`
	Issues   []Issue       `json:"issues"`
	Status   string        `json:"status"` // "success", "error", "skipped"
	Error    string        `json:"error,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Summary provides the top-line gate statistics.
type Summary struct {
	Pass          bool `json:"pass"`
	HardFailures  int  `json:"hard_failures"`
	SoftFindings  int  `json:"soft_findings"`
	ChecksRun     int  `json:"checks_run"`
	ChecksSkipped int  `json:"checks_skipped"`
}

// Report is the complete lint gate output.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Target      string        `json:"target"`
	FailOn      Severity      `json:"fail_on"`
	Results     []CheckResult `json:"results"`
	Summary     Summary       `json:"summary"`
	Elapsed     time.Duration `json:"elapsed"`
}

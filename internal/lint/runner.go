/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package lint

import (
	"context"
	"time"

	"github.com/fulmenhq/docguard/internal/dedupe"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/config"
	"github.com/fulmenhq/docguard/pkg/logger"
)

// CheckRunner is one governance check. Blocking checks contribute hard
// failures; non-blocking checks only log soft findings.
type CheckRunner interface {
	Name() string
	Blocking() bool
	Run(ctx context.Context, target *Target) ([]Issue, error)
}

// Target bundles everything a check may inspect: the live tree, the
// current manifest, and the dedup plan (nil when none exists).
type Target struct {
	Root string
	Snap *manifest.Snapshot
	Plan *dedupe.Plan
	Cfg  config.Config
}

// Engine runs the registered checks in order against one target.
// Determinism: given the same tree and manifest, the pass/fail outcome
// is stable across invocations.
type Engine struct {
	checks []CheckRunner
	failOn Severity
}

// NewEngine builds the default gate: header completeness, filesystem
// parity, artifact freshness, then the sampled link check.
func NewEngine(cfg config.LintConfig) *Engine {
	failOn := Severity(cfg.FailOn)
	if _, ok := severityRank[failOn]; !ok {
		failOn = SeverityHigh
	}
	return &Engine{
		checks: []CheckRunner{
			&headerCheck{mandatoryKeys: cfg.MandatoryKeys},
			&parityCheck{},
			&freshnessCheck{},
			&linkSampleCheck{sample: cfg.LinkSample},
		},
		failOn: failOn,
	}
}

// Run executes the gate within the wall-clock budget carried by ctx.
// A check that the budget cuts off is skipped with a soft finding, not a
// hard failure; CI gets a truthful answer for what was actually checked.
func (e *Engine) Run(ctx context.Context, target *Target) *Report {
	started := time.Now()
	report := &Report{
		GeneratedAt: started.UTC(),
		Target:      target.Root,
		FailOn:      e.failOn,
	}

	for _, check := range e.checks {
		if ctx.Err() != nil {
			report.Results = append(report.Results, CheckResult{
				Check:    check.Name(),
				Blocking: check.Blocking(),
				Status:   "skipped",
				Error:    "wall-clock budget exhausted",
			})
			report.Summary.ChecksSkipped++
			continue
		}

		checkStart := time.Now()
		issues, err := check.Run(ctx, target)
		result := CheckResult{
			Check:    check.Name(),
			Blocking: check.Blocking(),
			Issues:   issues,
			Status:   "success",
			Elapsed:  time.Since(checkStart),
		}
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			logger.Error("lint check failed", logger.String("check", check.Name()), logger.Err(err))
		}
		report.Results = append(report.Results, result)
		report.Summary.ChecksRun++
	}

	for _, result := range report.Results {
		for _, issue := range result.Issues {
			if result.Blocking && issue.Severity.AtLeast(e.failOn) {
				report.Summary.HardFailures++
			} else {
				report.Summary.SoftFindings++
			}
		}
		if result.Status == "error" && result.Blocking {
			report.Summary.HardFailures++
		}
	}
	report.Summary.Pass = report.Summary.HardFailures == 0
	report.Elapsed = time.Since(started)
	return report
}

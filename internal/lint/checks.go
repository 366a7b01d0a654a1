/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package lint

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/docguard/internal/links"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/scanner"
	"github.com/fulmenhq/docguard/internal/sitegen"
)

// headerCheck verifies that every document carries the mandatory header
// keys. Missing and malformed headers are hard failures when any key is
// configured mandatory.
type headerCheck struct {
	mandatoryKeys []string
}

func (c *headerCheck) Name() string   { return "header-completeness" }
func (c *headerCheck) Blocking() bool { return true }

func (c *headerCheck) Run(_ context.Context, target *Target) ([]Issue, error) {
	if len(c.mandatoryKeys) == 0 {
		return nil, nil
	}
	var issues []Issue
	for i := range target.Snap.Documents {
		rec := &target.Snap.Documents[i]
		if rec.Orphan {
			continue
		}
		for _, key := range c.mandatoryKeys {
			if headerValue(rec, key) == "" {
				issues = append(issues, Issue{
					Path:     rec.Path,
					Severity: SeverityHigh,
					Message:  fmt.Sprintf("missing mandatory header key %q", key),
					Check:    c.Name(),
				})
			}
		}
	}
	return issues, nil
}

func headerValue(rec *manifest.DocumentRecord, key string) string {
	if !rec.HasHeader() {
		return ""
	}
	switch key {
	case "status":
		return rec.Header.Status
	case "type":
		return rec.Header.Type
	case "owner":
		return rec.Header.Owner
	case "module":
		return rec.Header.Module
	case "moved_to":
		return rec.Header.MovedTo
	default:
		return ""
	}
}

// parityCheck re-discovers the tree and flags any file present on disk
// but absent from the manifest. Such orphans mean the manifest is out of
// date, which poisons every downstream stage.
type parityCheck struct{}

func (c *parityCheck) Name() string   { return "manifest-parity" }
func (c *parityCheck) Blocking() bool { return true }

func (c *parityCheck) Run(ctx context.Context, target *Target) ([]Issue, error) {
	opts := scanner.Options{
		Include: target.Cfg.Scan.Include,
		Exclude: target.Cfg.Scan.Exclude,
		Workers: 1,
	}
	records, err := scanner.Scan(ctx, target.Root, opts)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{}
	for _, p := range target.Snap.Paths() {
		known[p] = true
	}
	var issues []Issue
	for _, rec := range records {
		if !known[rec.Path] {
			issues = append(issues, Issue{
				Path:     rec.Path,
				Severity: SeverityHigh,
				Message:  "file on disk is missing from the manifest; re-run scan",
				Check:    c.Name(),
			})
		}
	}
	return issues, nil
}

// freshnessCheck compares generated artifacts on disk against what the
// generator would produce right now. Any drift is a hard failure.
type freshnessCheck struct{}

func (c *freshnessCheck) Name() string   { return "artifact-freshness" }
func (c *freshnessCheck) Blocking() bool { return true }

func (c *freshnessCheck) Run(_ context.Context, target *Target) ([]Issue, error) {
	gen := sitegen.New(target.Root, target.Snap, target.Plan, target.Cfg.Generate)
	artifacts, err := gen.Outputs()
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, a := range artifacts {
		full := filepath.Join(target.Root, filepath.FromSlash(a.Path))
		current, err := os.ReadFile(full) // #nosec G304 -- artifact paths come from config
		if err != nil {
			issues = append(issues, Issue{
				Path:     a.Path,
				Severity: SeverityHigh,
				Message:  "generated artifact is missing; run generate",
				Check:    c.Name(),
			})
			continue
		}
		if !bytes.Equal(current, a.Content) {
			issues = append(issues, Issue{
				Path:     a.Path,
				Severity: SeverityHigh,
				Message:  "generated artifact is stale; run generate",
				Check:    c.Name(),
			})
		}
	}
	return issues, nil
}

// linkSampleCheck validates internal links in a bounded, deterministic
// sample of documents. Findings are soft; full validation belongs to the
// rewrite-links workflow, not the CI gate.
type linkSampleCheck struct {
	sample int
}

func (c *linkSampleCheck) Name() string   { return "link-sample" }
func (c *linkSampleCheck) Blocking() bool { return false }

func (c *linkSampleCheck) Run(ctx context.Context, target *Target) ([]Issue, error) {
	if c.sample <= 0 {
		return nil, nil
	}
	var redirects map[string]string
	if target.Plan != nil {
		redirects = target.Plan.RedirectMap()
	}
	validator := links.NewValidator(target.Root, target.Snap, redirects)

	// Sorted-path order keeps the sample deterministic across runs.
	paths := target.Snap.Paths()
	if len(paths) > c.sample {
		paths = paths[:c.sample]
	}

	var issues []Issue
	checked := 0
	for _, p := range paths {
		if ctx.Err() != nil {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("link sample truncated at %d of %d documents (budget exhausted)", checked, len(paths)),
				Check:    c.Name(),
			})
			return issues, nil
		}
		report, err := validator.ValidateDocs([]string{p})
		if err != nil {
			return issues, err
		}
		checked++
		for _, f := range report.Findings {
			issues = append(issues, Issue{
				Path:     f.Source,
				Line:     f.Line,
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("broken internal link [%s](%s): %s", f.Text, f.Target, f.Problem),
				Check:    c.Name(),
			})
		}
	}
	return issues, nil
}

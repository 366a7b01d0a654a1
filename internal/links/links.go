/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package links

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/logger"
	"github.com/fulmenhq/docguard/pkg/safeio"
)

// Problem classifies a link finding.
type Problem string

const (
	ProblemMissingTarget Problem = "missing_target"
	ProblemMissingAnchor Problem = "missing_anchor"
	ProblemEscapesRoot   Problem = "escapes_root"
)

// Finding is one unresolved internal link.
type Finding struct {
	Source  string  `json:"source"`
	Line    int     `json:"line"`
	Text    string  `json:"text"`
	Target  string  `json:"target"`
	Problem Problem `json:"problem"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: [%s](%s): %s", f.Source, f.Line, f.Text, f.Target, f.Problem)
}

// Report is the outcome of validating a set of documents.
type Report struct {
	Checked   int       `json:"checked"`   // internal links inspected
	Unchecked int       `json:"unchecked"` // external links, out of scope
	Findings  []Finding `json:"findings"`
}

// Validator resolves and checks internal links against a snapshot.
// redirects is the single-hop from->to map from the dedup plan; it may
// be empty when no plan exists yet.
type Validator struct {
	root      string
	snap      *manifest.Snapshot
	redirects map[string]string
	slugCache map[string]map[string]bool
}

// NewValidator builds a validator over one snapshot.
func NewValidator(root string, snap *manifest.Snapshot, redirects map[string]string) *Validator {
	if redirects == nil {
		redirects = map[string]string{}
	}
	return &Validator{
		root:      root,
		snap:      snap,
		redirects: redirects,
		slugCache: map[string]map[string]bool{},
	}
}

// ValidateAll checks every document in the snapshot.
func (v *Validator) ValidateAll() (*Report, error) {
	report := &Report{}
	for _, p := range v.snap.Paths() {
		if err := v.validateDoc(p, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// ValidateDocs checks only the named documents (lint uses this to bound
// its sampled link check).
func (v *Validator) ValidateDocs(paths []string) (*Report, error) {
	report := &Report{}
	for _, p := range paths {
		if err := v.validateDoc(p, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (v *Validator) validateDoc(source string, report *Report) error {
	rec := v.snap.Lookup(source)
	if rec == nil || rec.Orphan {
		return nil
	}
	content, err := safeio.ReadFileContained(v.root, filepath.Join(v.root, filepath.FromSlash(source)))
	if err != nil {
		// The file vanished between scan and validation; the parity
		// check in lint owns that problem, not the link checker.
		logger.Debug("skipping unreadable source during link check", logger.String("path", source))
		return nil
	}

	for _, link := range Extract(string(content)) {
		if IsExternal(link.Target) {
			report.Unchecked++
			continue
		}
		rawPath, anchor := SplitFragment(link.Target)
		if rawPath == "" && anchor != "" {
			// Intra-document anchor.
			report.Checked++
			if !v.hasAnchor(source, anchor) {
				report.Findings = append(report.Findings, Finding{
					Source: source, Line: link.Line, Text: link.Text,
					Target: link.Target, Problem: ProblemMissingAnchor,
				})
			}
			continue
		}

		report.Checked++
		resolved, ok := v.Resolve(source, rawPath)
		if !ok {
			report.Findings = append(report.Findings, Finding{
				Source: source, Line: link.Line, Text: link.Text,
				Target: link.Target, Problem: ProblemEscapesRoot,
			})
			continue
		}
		// Follow the redirect map at most once.
		if to, redirected := v.redirects[resolved]; redirected {
			resolved = to
		}
		if v.snap.Lookup(resolved) == nil {
			report.Findings = append(report.Findings, Finding{
				Source: source, Line: link.Line, Text: link.Text,
				Target: link.Target, Problem: ProblemMissingTarget,
			})
			continue
		}
		if anchor != "" && !v.hasAnchor(resolved, anchor) {
			report.Findings = append(report.Findings, Finding{
				Source: source, Line: link.Line, Text: link.Text,
				Target: link.Target, Problem: ProblemMissingAnchor,
			})
		}
	}
	return nil
}

// Resolve turns a link target relative to source into a root-relative
// manifest path. ok is false when the target escapes the root.
func (v *Validator) Resolve(source, target string) (string, bool) {
	joined := path.Join(path.Dir(source), target)
	joined = path.Clean(joined)
	if joined == ".." || len(joined) >= 3 && joined[:3] == "../" {
		return "", false
	}
	return joined, true
}

func (v *Validator) hasAnchor(docPath, anchor string) bool {
	slugs, ok := v.slugCache[docPath]
	if !ok {
		content, err := safeio.ReadFileContained(v.root, filepath.Join(v.root, filepath.FromSlash(docPath)))
		if err != nil {
			slugs = map[string]bool{}
		} else {
			slugs = HeadingSlugs(string(content))
		}
		v.slugCache[docPath] = slugs
	}
	return slugs[HeadingSlug(anchor)]
}

// ReferencedBy returns the set of manifest paths linked from the given
// index documents. Dedup uses this as its referenced-by relation.
func ReferencedBy(root string, snap *manifest.Snapshot, indexDocs []string) map[string]bool {
	v := NewValidator(root, snap, nil)
	out := map[string]bool{}
	for _, idx := range indexDocs {
		content, err := safeio.ReadFileContained(root, filepath.Join(root, filepath.FromSlash(idx)))
		if err != nil {
			continue
		}
		for _, link := range Extract(string(content)) {
			if IsExternal(link.Target) {
				continue
			}
			rawPath, _ := SplitFragment(link.Target)
			if rawPath == "" {
				continue
			}
			if resolved, ok := v.Resolve(idx, rawPath); ok {
				out[resolved] = true
			}
		}
	}
	return out
}

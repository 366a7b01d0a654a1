/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package sitegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/docguard/internal/dedupe"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/pkg/config"
	"github.com/fulmenhq/docguard/pkg/logger"
	"github.com/fulmenhq/docguard/pkg/safeio"
)

// IndexRegionName is the delimited region refreshed in index documents.
const IndexRegionName = "index"

// Artifact is one generated output: the root-relative path and the exact
// bytes the generator would put there.
type Artifact struct {
	Path    string
	Content []byte
	// Merged artifacts embed hand-authored content from the current
	// file; they are written with preserved permissions.
	Merged bool
}

// Generator produces the site map, redirect table, and index refreshes
// for one snapshot. plan may be nil before dedup has ever run.
type Generator struct {
	root string
	snap *manifest.Snapshot
	plan *dedupe.Plan
	cfg  config.GenerateConfig
}

// New builds a generator.
func New(root string, snap *manifest.Snapshot, plan *dedupe.Plan, cfg config.GenerateConfig) *Generator {
	return &Generator{root: root, snap: snap, plan: plan, cfg: cfg}
}

// Outputs computes every artifact without touching the filesystem (index
// merges read the current file content, nothing more). The lint gate
// compares these bytes against disk to detect staleness.
func (g *Generator) Outputs() ([]Artifact, error) {
	var artifacts []Artifact

	artifacts = append(artifacts, Artifact{
		Path:    g.cfg.SiteMapPath,
		Content: []byte(SiteMapMarkdown(g.snap)),
	})

	xml, err := SiteMapXML(g.snap)
	if err != nil {
		return nil, fmt.Errorf("render sitemap xml: %w", err)
	}
	artifacts = append(artifacts, Artifact{Path: g.cfg.SiteMapXMLPath, Content: xml})

	artifacts = append(artifacts, Artifact{
		Path:    g.cfg.RedirectTablePath,
		Content: []byte(RedirectTable(g.plan)),
	})

	region := IndexRegion(g.snap)
	for _, idx := range g.cfg.IndexDocs {
		current := ""
		full := filepath.Join(g.root, filepath.FromSlash(idx))
		if data, err := os.ReadFile(full); err == nil { // #nosec G304 -- index paths come from config
			current = string(data)
		}
		artifacts = append(artifacts, Artifact{
			Path:    idx,
			Content: []byte(MergeRegion(current, IndexRegionName, region)),
			Merged:  true,
		})
	}
	return artifacts, nil
}

// Apply writes every artifact. Merged index documents keep their file
// permissions; standalone artifacts are written atomically.
func (g *Generator) Apply() ([]Artifact, error) {
	artifacts, err := g.Outputs()
	if err != nil {
		return nil, err
	}
	for _, a := range artifacts {
		full := filepath.Join(g.root, filepath.FromSlash(a.Path))
		if a.Merged {
			err = safeio.WriteFilePreservePerms(full, a.Content)
		} else {
			err = safeio.WriteFileAtomic(full, a.Content)
		}
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", a.Path, err)
		}
		logger.Debug("generated artifact", logger.String("path", a.Path), logger.Int("bytes", len(a.Content)))
	}
	return artifacts, nil
}

/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package sitegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/docguard/internal/dedupe"
	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/scanner"
	"github.com/fulmenhq/docguard/pkg/config"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func scanTree(t *testing.T, root string) *manifest.Snapshot {
	t.Helper()
	records, err := scanner.Scan(context.Background(), root, scanner.Options{NoIgnore: true})
	require.NoError(t, err)
	snap, err := manifest.Build(root, records)
	require.NoError(t, err)
	return snap
}

func TestMergeRegionReplacesOnlyDelimitedContent(t *testing.T) {
	content := `# My Index

Hand-written intro that must survive.

<!-- docguard:begin index -->
old generated stuff
<!-- docguard:end index -->

Hand-written footer.
`
	out := MergeRegion(content, "index", "## Document Index\n\n- new entry\n")

	assert.Contains(t, out, "Hand-written intro that must survive.")
	assert.Contains(t, out, "Hand-written footer.")
	assert.Contains(t, out, "- new entry")
	assert.NotContains(t, out, "old generated stuff")
}

func TestMergeRegionAppendsWhenNoMarkers(t *testing.T) {
	out := MergeRegion("# My Index\n\nIntro.\n", "index", "generated\n")
	assert.True(t, strings.HasPrefix(out, "# My Index\n\nIntro.\n"))
	assert.Contains(t, out, "<!-- docguard:begin index -->\ngenerated\n<!-- docguard:end index -->")
}

func TestMergeRegionIsIdempotent(t *testing.T) {
	first := MergeRegion("# Index\n", "index", "generated\n")
	second := MergeRegion(first, "index", "generated\n")
	assert.Equal(t, first, second)
}

func TestMergeRegionBeginWithoutEnd(t *testing.T) {
	content := "intro\n<!-- docguard:begin index -->\ndangling tail\n"
	out := MergeRegion(content, "index", "generated")
	assert.Contains(t, out, "intro\n")
	assert.Contains(t, out, "<!-- docguard:end index -->")
	assert.NotContains(t, out, "dangling tail")
}

func TestSiteMapMarkdown(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Readme\n")
	writeDoc(t, root, "guides/setup.md", "# Setup Guide\n")
	writeDoc(t, root, "old.md", "---\nstatus: archived\nredirect: true\nmoved_to: guides/setup.md\n---\n\n# Moved\n")

	snap := scanTree(t, root)
	md := SiteMapMarkdown(snap)

	assert.Contains(t, md, "# Site Map")
	assert.Contains(t, md, "3 documents.")
	assert.Contains(t, md, "- **guides/**")
	assert.Contains(t, md, "[Setup Guide](guides/setup.md)")
	assert.Contains(t, md, "*(redirect)*")

	// Purely a function of the snapshot.
	assert.Equal(t, md, SiteMapMarkdown(snap))
}

func TestSiteMapXMLSkipsRedirectsAndOrphans(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "live.md", "# Live\n")
	writeDoc(t, root, "old.md", "---\nredirect: true\nmoved_to: live.md\n---\n\n# Moved\n")

	snap := scanTree(t, root)
	xml, err := SiteMapXML(snap)
	require.NoError(t, err)

	text := string(xml)
	assert.Contains(t, text, "<loc>live.md</loc>")
	assert.NotContains(t, text, "old.md")
	assert.Contains(t, text, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestRedirectTable(t *testing.T) {
	plan := &dedupe.Plan{Redirects: []dedupe.RedirectEntry{
		{From: "SETUP.md", To: "guides/setup.md", Reason: dedupe.ReasonExactDuplicate},
	}}
	table := RedirectTable(plan)
	assert.Contains(t, table, "| From ")
	assert.Contains(t, table, "SETUP.md")
	assert.Contains(t, table, "exact_duplicate")
	assert.Contains(t, table, "1 redirects.")

	assert.Contains(t, RedirectTable(nil), "No redirects.")
}

func TestGeneratorApplyIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Readme\n\nIntro prose.\n")
	writeDoc(t, root, "guides/setup.md", "# Setup Guide\n")

	cfg := config.Default().Generate
	snap := scanTree(t, root)

	gen := New(root, snap, nil, cfg)
	first, err := gen.Apply()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Second run against the same snapshot: byte-for-byte identical.
	second, err := New(root, snap, nil, cfg).Apply()
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
		assert.Equal(t, string(first[i].Content), string(second[i].Content), "artifact %s drifted", first[i].Path)
	}

	// Hand-authored index content survives the merge.
	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "Intro prose.")
	assert.Contains(t, string(readme), "<!-- docguard:begin index -->")
}

func TestIndexRegionListsTopLevels(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Readme\n")
	writeDoc(t, root, "guides/setup.md", "# Setup Guide\n")
	writeDoc(t, root, "guides/deploy.md", "# Deploy Guide\n")

	region := IndexRegion(scanTree(t, root))
	assert.Contains(t, region, "## Document Index")
	assert.Contains(t, region, "- [Readme](README.md)")
	assert.Contains(t, region, "- **guides/** (2)")
	assert.Contains(t, region, "  - [Setup Guide](guides/setup.md)")
}

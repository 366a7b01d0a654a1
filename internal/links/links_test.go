/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package links

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/docguard/internal/manifest"
	"github.com/fulmenhq/docguard/internal/scanner"
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

func TestValidateAllFindsBrokenLinks(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", `# Readme

Good: [setup](guides/setup.md)
Broken: [gone](guides/missing.md)
External: [site](https://example.com)
Escape: [up](../outside.md)
Anchor: [auth](guides/setup.md#auth)
Bad anchor: [nope](guides/setup.md#nope)
`)
	writeDoc(t, root, "guides/setup.md", "# Setup\n\n## Auth\n")

	v := NewValidator(root, scanTree(t, root), nil)
	report, err := v.ValidateAll()
	require.NoError(t, err)

	assert.Equal(t, 1, report.Unchecked)
	require.Len(t, report.Findings, 3)

	byTarget := map[string]Problem{}
	for _, f := range report.Findings {
		byTarget[f.Target] = f.Problem
	}
	assert.Equal(t, ProblemMissingTarget, byTarget["guides/missing.md"])
	assert.Equal(t, ProblemEscapesRoot, byTarget["../outside.md"])
	assert.Equal(t, ProblemMissingAnchor, byTarget["guides/setup.md#nope"])
}

func TestValidateIntraDocumentAnchor(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "doc.md", "# Doc\n\n[jump](#section-two)\n[broken](#absent)\n\n## Section Two\n")

	v := NewValidator(root, scanTree(t, root), nil)
	report, err := v.ValidateAll()
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "#absent", report.Findings[0].Target)
	assert.Equal(t, ProblemMissingAnchor, report.Findings[0].Problem)
}

func TestValidateFollowsRedirectMapOnce(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Readme\n\n[old](old.md)\n")
	writeDoc(t, root, "old.md", "# Old\n")
	writeDoc(t, root, "new.md", "# New\n")

	redirects := map[string]string{"old.md": "new.md"}
	v := NewValidator(root, scanTree(t, root), redirects)
	report, err := v.ValidateAll()
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
}

func TestRewriteRetargetsRedirectedLinksOnly(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", `# Readme

[old copy](old.md)
[broken](missing.md)
[anchored](old.md#setup)
`)
	writeDoc(t, root, "old.md", "# Old\n\n## Setup\n")
	writeDoc(t, root, "guides/new.md", "# New\n\n## Setup\n")

	redirects := map[string]string{"old.md": "guides/new.md"}
	v := NewValidator(root, scanTree(t, root), redirects)

	// Preview first: nothing on disk changes.
	changes, err := v.Rewrite(false)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	before, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(before), "(old.md)")

	// Apply.
	changes, err = v.Rewrite(true)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	after, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	text := string(after)
	assert.Contains(t, text, "(guides/new.md)")
	assert.Contains(t, text, "(guides/new.md#setup)")
	// The genuinely broken link is untouched.
	assert.Contains(t, text, "(missing.md)")

	// Idempotence: a second apply changes nothing.
	v2 := NewValidator(root, scanTree(t, root), redirects)
	changes, err = v2.Rewrite(true)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestRewriteLeavesInlineCodeAlone(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Readme\n\nWrite `[x](old.md)` to link, like [real](old.md).\n")
	writeDoc(t, root, "old.md", "# Old\n")
	writeDoc(t, root, "guides/new.md", "# New\n")

	v := NewValidator(root, scanTree(t, root), map[string]string{"old.md": "guides/new.md"})
	changes, err := v.Rewrite(true)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "old.md", changes[0].Old)

	after, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	text := string(after)
	// The code span is a literal example, not a link; only the real link moves.
	assert.Contains(t, text, "`[x](old.md)`")
	assert.Contains(t, text, "[real](guides/new.md)")
}

func TestRewriteSkipsRedirectStubs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "old.md", "---\nstatus: archived\nredirect: true\nmoved_to: new.md\n---\n\n# Moved\n\n[new](new.md)\n")
	writeDoc(t, root, "new.md", "# New\n")

	v := NewValidator(root, scanTree(t, root), map[string]string{"old.md": "new.md"})
	changes, err := v.Rewrite(true)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestResolveRelativeTargets(t *testing.T) {
	v := NewValidator("/repo/docs", &manifest.Snapshot{}, nil)

	resolved, ok := v.Resolve("guides/setup.md", "../api/http.md")
	require.True(t, ok)
	assert.Equal(t, "api/http.md", resolved)

	resolved, ok = v.Resolve("README.md", "guides/setup.md")
	require.True(t, ok)
	assert.Equal(t, "guides/setup.md", resolved)

	_, ok = v.Resolve("README.md", "../outside.md")
	assert.False(t, ok)
}

func TestReferencedBy(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "README.md", "# Readme\n\n[setup](guides/setup.md)\n[ext](https://example.com)\n")
	writeDoc(t, root, "guides/setup.md", "# Setup\n")

	refs := ReferencedBy(root, scanTree(t, root), []string{"README.md"})
	assert.True(t, refs["guides/setup.md"])
	assert.Len(t, refs, 1)
}

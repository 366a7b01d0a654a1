/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package dedupe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSaveLoadRoundTrip(t *testing.T) {
	plan := &Plan{
		Groups: []Group{{
			Kind:        KindExact,
			Canonical:   "guides/setup.md",
			Duplicates:  []string{"SETUP.md"},
			Fingerprint: "fp-1",
		}},
		Redirects: []RedirectEntry{{From: "SETUP.md", To: "guides/setup.md", Reason: ReasonExactDuplicate}},
		Archive:   []string{"SETUP.md"},
	}

	path := filepath.Join(t.TempDir(), ".docguard", "dedupe-plan.yaml")
	require.NoError(t, plan.Save(path))

	loaded, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, plan.Groups, loaded.Groups)
	assert.Equal(t, plan.Redirects, loaded.Redirects)
	assert.Equal(t, plan.Archive, loaded.Archive)
}

func TestApplyWritesRedirectStubs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "guides"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "SETUP.md"), []byte("# Setup\n\nOld copy.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "guides", "setup.md"), []byte("# Setup\n\nCanonical.\n"), 0o644))

	plan := &Plan{
		Redirects: []RedirectEntry{{From: "SETUP.md", To: "guides/setup.md", Reason: ReasonExactDuplicate, Owner: "platform"}},
	}

	written, err := plan.Apply(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"SETUP.md"}, written)

	stub, err := os.ReadFile(filepath.Join(root, "SETUP.md"))
	require.NoError(t, err)
	text := string(stub)
	assert.True(t, strings.HasPrefix(text, "---\n"), "stub must start with a header block")
	assert.Contains(t, text, "owner: platform") // stubs keep satisfying mandatory keys
	assert.Contains(t, text, "redirect: true")
	assert.Contains(t, text, "moved_to: guides/setup.md")
	assert.Contains(t, text, "(guides/setup.md)") // relative link from the stub's directory

	// The canonical document is untouched.
	canonical, err := os.ReadFile(filepath.Join(root, "guides", "setup.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Setup\n\nCanonical.\n", string(canonical))
}

func TestRedirectMap(t *testing.T) {
	plan := &Plan{Redirects: []RedirectEntry{
		{From: "a.md", To: "c.md"},
		{From: "b.md", To: "c.md"},
	}}
	m := plan.RedirectMap()
	assert.Equal(t, map[string]string{"a.md": "c.md", "b.md": "c.md"}, m)
}

func TestRelativeTarget(t *testing.T) {
	assert.Equal(t, "guides/setup.md", relativeTarget("SETUP.md", "guides/setup.md"))
	assert.Equal(t, "../guides/setup.md", relativeTarget("old/SETUP.md", "guides/setup.md"))
	assert.Equal(t, "setup.md", relativeTarget("guides/SETUP_OLD.md", "guides/setup.md"))
}

/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/docguard/pkg/config"
)

func newTestScaffolder(t *testing.T, root string) *Scaffolder {
	t.Helper()
	s, err := New(root, config.Default().Scaffold)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestPreviewListsMissingFiles(t *testing.T) {
	root := t.TempDir()
	s := newTestScaffolder(t, root)

	missing, err := s.Preview("payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHANGELOG.md", "OWNERS.md", "README.md"}, missing)

	// Preview has no side effects: no files, no ledger.
	_, err = os.Stat(filepath.Join(root, "payments"))
	assert.True(t, os.IsNotExist(err))
	entries, err := ReadLedger(filepath.Join(root, ".docguard", "scaffold-ledger.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPreviewSkipsExistingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "payments"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "payments", "README.md"), []byte("# Mine\n"), 0o644))

	s := newTestScaffolder(t, root)
	missing, err := s.Preview("payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHANGELOG.md", "OWNERS.md"}, missing)
}

func TestApplyCreatesFilesAndLedgerEntry(t *testing.T) {
	root := t.TempDir()
	s := newTestScaffolder(t, root)

	created, err := s.Apply("payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHANGELOG.md", "OWNERS.md", "README.md"}, created)

	readme, err := os.ReadFile(filepath.Join(root, "payments", "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# payments")
	assert.Contains(t, string(readme), "module: payments")

	changelog, err := os.ReadFile(filepath.Join(root, "payments", "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Contains(t, string(changelog), "2026-08-25")

	entries, err := ReadLedger(filepath.Join(root, ".docguard", "scaffold-ledger.jsonl"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "payments", entries[0].UnitID)
	assert.Equal(t, created, entries[0].FilesCreated)
}

func TestApplyNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "payments"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "payments", "README.md"), []byte("# Hand-written\n"), 0o644))

	s := newTestScaffolder(t, root)
	created, err := s.Apply("payments")
	require.NoError(t, err)
	assert.NotContains(t, created, "README.md")

	readme, err := os.ReadFile(filepath.Join(root, "payments", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Hand-written\n", string(readme))
}

func TestApplyReplayIsNoOp(t *testing.T) {
	root := t.TempDir()
	s := newTestScaffolder(t, root)

	_, err := s.Apply("payments")
	require.NoError(t, err)

	// Second run creates nothing and appends nothing.
	created, err := s.Apply("payments")
	require.NoError(t, err)
	assert.Empty(t, created)

	entries, err := ReadLedger(filepath.Join(root, ".docguard", "scaffold-ledger.jsonl"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedgerIsAppendOnly(t *testing.T) {
	root := t.TempDir()
	s := newTestScaffolder(t, root)

	_, err := s.Apply("payments")
	require.NoError(t, err)
	_, err = s.Apply("billing")
	require.NoError(t, err)

	entries, err := ReadLedger(filepath.Join(root, ".docguard", "scaffold-ledger.jsonl"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "payments", entries[0].UnitID)
	assert.Equal(t, "billing", entries[1].UnitID)
}

func TestUnitEscapingRootRejected(t *testing.T) {
	s := newTestScaffolder(t, t.TempDir())
	_, err := s.Preview("../outside")
	require.Error(t, err)
	_, err = s.Preview("..")
	require.Error(t, err)
	_, err = s.Preview("")
	require.Error(t, err)

	// Names that merely start with dots stay inside the root.
	missing, err := s.Preview("..cache")
	require.NoError(t, err)
	assert.NotEmpty(t, missing)
}

func TestTemplateDirOverridesBuiltins(t *testing.T) {
	root := t.TempDir()
	tplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "README.md"), []byte("# Custom {{unit}}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "RUNBOOK.md"), []byte("# Runbook for {{unit}}\n"), 0o644))

	cfg := config.Default().Scaffold
	cfg.TemplateDir = tplDir
	s, err := New(root, cfg)
	require.NoError(t, err)

	missing, err := s.Preview("payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHANGELOG.md", "OWNERS.md", "README.md", "RUNBOOK.md"}, missing)

	_, err = s.Apply("payments")
	require.NoError(t, err)

	readme, err := os.ReadFile(filepath.Join(root, "payments", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Custom payments\n", string(readme))
}

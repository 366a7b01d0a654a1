/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := newTestRegistry()
	cmd := &cobra.Command{Use: "scan"}

	require.NoError(t, reg.Register("scan", GroupPipeline, cmd, "Inventory the tree"))

	got, ok := reg.GetCommand("scan")
	require.True(t, ok)
	assert.Equal(t, GroupPipeline, got.Group)
	assert.Equal(t, "Inventory the tree", got.Description)

	_, ok = reg.GetCommand("missing")
	assert.False(t, ok)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	reg := newTestRegistry()
	cmd := &cobra.Command{Use: "lint"}

	require.NoError(t, reg.Register("lint", GroupGate, cmd, "Run the gate"))
	err := reg.Register("lint", GroupGate, cmd, "Run the gate again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestGroupIndex(t *testing.T) {
	reg := newTestRegistry()
	require.NoError(t, reg.Register("scan", GroupPipeline, &cobra.Command{Use: "scan"}, ""))
	require.NoError(t, reg.Register("dedupe", GroupPipeline, &cobra.Command{Use: "dedupe"}, ""))
	require.NoError(t, reg.Register("lint", GroupGate, &cobra.Command{Use: "lint"}, ""))

	assert.Len(t, reg.GetCommandsByGroup(GroupPipeline), 2)
	assert.Len(t, reg.GetCommandsByGroup(GroupGate), 1)
	assert.Empty(t, reg.GetCommandsByGroup(GroupSupport))

	counts := reg.ListGroups()
	assert.Equal(t, 2, counts[GroupPipeline])
	assert.Equal(t, 1, counts[GroupGate])
}

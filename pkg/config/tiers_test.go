package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/r-4-e/Elura-Utility/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTiersLadder(t *testing.T) {
	t.Parallel()

	table := config.DefaultTiers("founder", [4][]string{{"r1"}, {"r2"}, {"r3"}, {"r4"}})

	tests := []struct {
		name    string
		roles   []string
		command string
		want    bool
	}{
		{"tier1 may warn", []string{"r1"}, "warn", true},
		{"tier1 may not list warnings", []string{"r1"}, "warnings", false},
		{"tier2 may list warnings", []string{"r2"}, "warnings", true},
		{"tier3 may mute", []string{"r3"}, "mute", true},
		{"tier3 may not ban", []string{"r3"}, "ban", false},
		{"tier4 may unban", []string{"r4"}, "unban", true},
		{"tier4 may unwarn", []string{"r4"}, "unwarn", true},
		{"founder may do anything", []string{"founder"}, "setup", true},
		{"no roles", nil, "warn", false},
		{"unknown role", []string{"other"}, "warn", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, table.Allows(tt.roles, tt.command))
		})
	}
}

func TestAllowsIsUnionOfHeldTiers(t *testing.T) {
	t.Parallel()

	table := &config.TierTable{Tiers: []config.Tier{
		{Name: "helpers", Roles: []string{"h"}, Commands: []string{"warn"}},
		{Name: "kickers", Roles: []string{"k"}, Commands: []string{"kick"}},
	}}

	roles := []string{"h", "k"}
	assert.True(t, table.Allows(roles, "warn"))
	assert.True(t, table.Allows(roles, "kick"))
	assert.False(t, table.Allows(roles, "ban"))
	assert.False(t, table.IsFounder(roles))
}

func TestTierOf(t *testing.T) {
	t.Parallel()

	table := config.DefaultTiers("f", [4][]string{{"a"}, {"b"}, {"c"}, {"d"}})

	assert.Equal(t, "tier3", table.TierOf([]string{"a", "c"}))
	assert.Equal(t, "founder", table.TierOf([]string{"f"}))
	assert.Empty(t, table.TierOf([]string{"zzz"}))
}

func TestLoadTiersFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiers.toml")
	content := `
founder_role = "900"

[[tiers]]
name = "helper"
roles = ["100", "101"]
commands = ["warn", "warnings"]

[[tiers]]
name = "admin"
roles = ["200"]
commands = ["warn", "warnings", "mute", "kick", "ban", "unban", "unwarn"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := config.LoadTiers(path, &config.Config{})
	require.NoError(t, err)

	require.Len(t, table.Tiers, 2)
	assert.Equal(t, "helper", table.Tiers[0].Name)
	assert.Equal(t, "900", table.FounderRole)
	assert.True(t, table.Allows([]string{"101"}, "warnings"))
	assert.False(t, table.Allows([]string{"101"}, "ban"))
	assert.True(t, table.Allows([]string{"200"}, "ban"))
}

func TestLoadTiersMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		FounderRole: "f",
		TierRoles:   [4][]string{{"a"}, nil, nil, {"d"}},
	}

	table, err := config.LoadTiers(filepath.Join(t.TempDir(), "absent.toml"), cfg)
	require.NoError(t, err)

	require.Len(t, table.Tiers, 4)
	assert.True(t, table.Allows([]string{"a"}, "warn"))
	assert.True(t, table.Allows([]string{"d"}, "kick"))
	assert.True(t, table.IsFounder([]string{"f"}))
}

func TestLoadTiersRejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiers.toml")
	content := `
[[tiers]]
name = "mods"
commands = ["warn"]

[[tiers]]
name = "mods"
commands = ["kick"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := config.LoadTiers(path, &config.Config{})
	require.ErrorIs(t, err, config.ErrInvalidTiers)
}

func TestLoadTiersRejectsEmptyTier(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tiers.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[tiers]]\nname = \"idle\"\n"), 0o644))

	_, err := config.LoadTiers(path, &config.Config{})
	require.ErrorIs(t, err, config.ErrInvalidTiers)
}

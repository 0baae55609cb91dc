package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidTiers is returned when the tier table fails validation.
var ErrInvalidTiers = errors.New("invalid role tier table")

// Tier is one named permission level. Members holding any of Roles may run Commands.
type Tier struct {
	Name     string   `koanf:"name"`
	Roles    []string `koanf:"roles"`
	Commands []string `koanf:"commands"`
}

// TierTable is the read-only role tier configuration consulted by restricted commands.
// Tiers keep the order they were declared in.
type TierTable struct {
	FounderRole string `koanf:"founder_role"`
	Tiers       []Tier `koanf:"tiers"`

	byRole map[string]map[string]struct{}
}

// defaultTierCommands mirrors the permission ladder the bot has always shipped with.
var defaultTierCommands = [4][]string{
	{"warn"},
	{"warn", "warnings"},
	{"warn", "warnings", "mute"},
	{"warn", "warnings", "mute", "kick", "ban", "unban", "unwarn"},
}

// DefaultTiers builds the stock four tier ladder for the given role IDs.
func DefaultTiers(founderRole string, roles [4][]string) *TierTable {
	t := &TierTable{FounderRole: founderRole}
	for i, cmds := range defaultTierCommands {
		t.Tiers = append(t.Tiers, Tier{
			Name:     fmt.Sprintf("tier%d", i+1),
			Roles:    append([]string(nil), roles[i]...),
			Commands: append([]string(nil), cmds...),
		})
	}
	t.index()
	return t
}

// LoadTiers reads the tier table from a TOML file. When the file does not exist the
// default ladder is built from the role IDs in cfg.
func LoadTiers(path string, cfg *Config) (*TierTable, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultTiers(cfg.FounderRole, cfg.TierRoles), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading tier file %s: %w", path, err)
	}

	var t TierTable
	if err := k.Unmarshal("", &t); err != nil {
		return nil, fmt.Errorf("error unmarshaling tier file %s: %w", path, err)
	}
	if t.FounderRole == "" {
		t.FounderRole = cfg.FounderRole
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.index()
	return &t, nil
}

// Validate checks tier names are present and unique and that every tier grants something.
func (t *TierTable) Validate() error {
	seen := make(map[string]struct{}, len(t.Tiers))
	for i, tier := range t.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("%w: tier #%d has no name", ErrInvalidTiers, i+1)
		}
		if _, dup := seen[tier.Name]; dup {
			return fmt.Errorf("%w: duplicate tier %q", ErrInvalidTiers, tier.Name)
		}
		if len(tier.Commands) == 0 {
			return fmt.Errorf("%w: tier %q grants no commands", ErrInvalidTiers, tier.Name)
		}
		seen[tier.Name] = struct{}{}
	}
	return nil
}

func (t *TierTable) index() {
	t.byRole = make(map[string]map[string]struct{})
	for _, tier := range t.Tiers {
		for _, role := range tier.Roles {
			cmds, ok := t.byRole[role]
			if !ok {
				cmds = make(map[string]struct{})
				t.byRole[role] = cmds
			}
			for _, c := range tier.Commands {
				cmds[c] = struct{}{}
			}
		}
	}
}

// IsFounder reports whether any of the roles is the founder role.
func (t *TierTable) IsFounder(roleIDs []string) bool {
	if t.FounderRole == "" {
		return false
	}
	for _, r := range roleIDs {
		if r == t.FounderRole {
			return true
		}
	}
	return false
}

// Allows reports whether a member with roleIDs may run command. Founders may run
// anything; everyone else gets the union of the tiers they hold a role in.
func (t *TierTable) Allows(roleIDs []string, command string) bool {
	if t.IsFounder(roleIDs) {
		return true
	}
	if t.byRole != nil {
		for _, r := range roleIDs {
			if _, ok := t.byRole[r][command]; ok {
				return true
			}
		}
		return false
	}

	// Tables built as literals have no index
	for _, tier := range t.Tiers {
		if holdsAny(roleIDs, tier.Roles) && contains(tier.Commands, command) {
			return true
		}
	}
	return false
}

func holdsAny(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TierOf returns the highest declared tier the member holds, or "" if none.
func (t *TierTable) TierOf(roleIDs []string) string {
	if t.IsFounder(roleIDs) {
		return "founder"
	}
	name := ""
	for _, tier := range t.Tiers {
		if holdsAny(roleIDs, tier.Roles) {
			name = tier.Name
		}
	}
	return name
}

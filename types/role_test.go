package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roleAliases = map[Role][]string{
	RoleL0: {"L0", "l0", "Admin", "admin", "Administrator", "Super Admin", "superadmin"},
	RoleL1: {"L1", "l1", "Manager", "manager", "AC Manager", "ac-manager", "ac_manager"},
	RoleL2: {"L2", "l2", "Moderator", "moderator", "Field Moderator", "field-moderator"},
	RoleL9: {"L9", "l9", "Command", "command", "War Room", "war-room", "warroom"},
}

func TestParseRoleAliases(t *testing.T) {
	for want, aliases := range roleAliases {
		for _, alias := range aliases {
			got, ok := ParseRole(alias)
			require.True(t, ok, "alias %q must be recognized", alias)
			assert.Equal(t, want, got, "alias %q", alias)
		}
	}
}

func TestParseRoleIdempotent(t *testing.T) {
	// Every canonical label is its own alias, so normalizing twice is a
	// fixed point.
	for role, aliases := range roleAliases {
		for _, alias := range aliases {
			first, ok := ParseRole(alias)
			require.True(t, ok)
			second, ok := ParseRole(first.String())
			require.True(t, ok)
			assert.Equal(t, role, second)
		}
	}
}

func TestParseRoleUnknownLabels(t *testing.T) {
	unknown := []string{
		"",
		"root",
		"ADMIN",
		"Admin ", // labels match exactly as stored; no trimming
		" L0",
		"l00",
		"volunteer",
	}
	for _, label := range unknown {
		_, ok := ParseRole(label)
		assert.False(t, ok, "label %q must be unrecognized", label)
	}
}

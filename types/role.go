package types

// Role is a canonical permission level. Every authorization decision in the
// system is made against one of these four levels, never against the raw
// labels stored on principal records.
type Role string

const (
	// RoleL0 is the system administrator level.
	RoleL0 Role = "L0"

	// RoleL1 is the constituency-level manager.
	RoleL1 Role = "L1"

	// RoleL2 is the field/local moderator.
	RoleL2 Role = "L2"

	// RoleL9 is strategic command (war room).
	RoleL9 Role = "L9"
)

// ParseRole maps a raw stored role label onto its canonical level. Labels
// are matched exactly as stored; the alias table is many-to-one. Unknown
// labels return ok == false, and principals carrying them must be rejected
// even when their credentials are valid.
//
// Adding an alias means adding a case here; keep the switch as the single
// source of truth.
func ParseRole(label string) (Role, bool) {
	switch label {
	case "L0", "l0", "Admin", "admin", "Administrator", "Super Admin", "superadmin":
		return RoleL0, true
	case "L1", "l1", "Manager", "manager", "AC Manager", "ac-manager", "ac_manager":
		return RoleL1, true
	case "L2", "l2", "Moderator", "moderator", "Field Moderator", "field-moderator":
		return RoleL2, true
	case "L9", "l9", "Command", "command", "War Room", "war-room", "warroom":
		return RoleL9, true
	default:
		return "", false
	}
}

// String returns the canonical label.
func (r Role) String() string {
	return string(r)
}

// internal/domain/models/roles.go
package models

import "fmt"

// Role is the fixed role enumeration. Faction leadership and department
// assignment are carried as explicit fields on User; a role value never
// encodes the faction by itself.
type Role string

const (
	RoleDeveloper        Role = "developer"
	RoleChiefOverseer    Role = "gs"
	RoleDeputyOverseer   Role = "zgs"
	RoleLeaderGov        Role = "leader_gov"
	RoleLeaderFSB        Role = "leader_fsb"
	RoleLeaderGIBDD      Role = "leader_gibdd"
	RoleLeaderUMVD       Role = "leader_umvd"
	RoleLeaderArmy       Role = "leader_army"
	RoleLeaderHospital   Role = "leader_hospital"
	RoleLeaderSMI        Role = "leader_smi"
	RoleLeaderFSIN       Role = "leader_fsin"
	RoleHeadOfDepartment Role = "head_of_department"
	RoleDeputyHead       Role = "deputy_head"
)

// AllRoles lists every valid role, in display order.
var AllRoles = []Role{
	RoleDeveloper, RoleChiefOverseer, RoleDeputyOverseer,
	RoleLeaderGov, RoleLeaderFSB, RoleLeaderGIBDD, RoleLeaderUMVD,
	RoleLeaderArmy, RoleLeaderHospital, RoleLeaderSMI, RoleLeaderFSIN,
	RoleHeadOfDepartment, RoleDeputyHead,
}

// leaderFactions maps each faction-leader role to its faction code.
var leaderFactions = map[Role]FactionCode{
	RoleLeaderGov:      FactionGov,
	RoleLeaderFSB:      FactionFSB,
	RoleLeaderGIBDD:    FactionGIBDD,
	RoleLeaderUMVD:     FactionUMVD,
	RoleLeaderArmy:     FactionArmy,
	RoleLeaderHospital: FactionHospital,
	RoleLeaderSMI:      FactionSMI,
	RoleLeaderFSIN:     FactionFSIN,
}

// IsValidRole reports whether s is one of the known roles.
func IsValidRole(s string) bool {
	for _, r := range AllRoles {
		if Role(s) == r {
			return true
		}
	}
	return false
}

// IsGlobal reports whether the role belongs to the global authority tier.
func (r Role) IsGlobal() bool {
	return r == RoleDeveloper || r == RoleChiefOverseer || r == RoleDeputyOverseer
}

// IsFactionLeader reports whether the role is one of the faction-leader
// variants.
func (r Role) IsFactionLeader() bool {
	_, ok := leaderFactions[r]
	return ok
}

// LeaderFaction returns the faction a leader role governs. It exists for
// creation-time validation only; permission checks read the explicit
// Faction field on the user instead.
func (r Role) LeaderFaction() (FactionCode, bool) {
	fc, ok := leaderFactions[r]
	return fc, ok
}

// ValidateRoleAssignment checks that faction and department assignment are
// mutually consistent with the role. Leader roles require the matching
// faction; department head and deputy require both a faction and a
// department; global roles carry neither.
func ValidateRoleAssignment(role Role, faction *FactionCode, departmentID bool) error {
	switch {
	case role.IsGlobal():
		return nil
	case role.IsFactionLeader():
		want, _ := role.LeaderFaction()
		if faction == nil {
			return fmt.Errorf("role %s requires faction %s", role, want)
		}
		if *faction != want {
			return fmt.Errorf("role %s requires faction %s, got %s", role, want, *faction)
		}
		return nil
	case role == RoleHeadOfDepartment || role == RoleDeputyHead:
		if faction == nil {
			return fmt.Errorf("role %s requires a faction", role)
		}
		if !departmentID {
			return fmt.Errorf("role %s requires a department", role)
		}
		return nil
	default:
		return fmt.Errorf("unknown role %q", role)
	}
}

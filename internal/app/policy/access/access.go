// internal/app/policy/access/access.go

// Package access is the permission engine: pure, stateless capability
// checks over the role enumeration and explicit actor/target descriptors.
// It performs no I/O, never errors, and denies by default — callers
// translate a false result into the uniform forbidden error.
package access

import (
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor describes the caller for capability checks. Faction and
// DepartmentID come from the user document, set and validated at
// creation time.
type Actor struct {
	Role         models.Role
	Faction      *models.FactionCode
	DepartmentID *primitive.ObjectID
}

// Department describes the target of a department-scoped action.
type Department struct {
	ID      primitive.ObjectID
	Faction models.FactionCode
}

func sameFaction(a Actor, target models.FactionCode) bool {
	return a.Faction != nil && *a.Faction == target
}

func sameDepartment(a Actor, id primitive.ObjectID) bool {
	return a.DepartmentID != nil && *a.DepartmentID == id
}

// CanViewFaction reports whether the actor may see data scoped to the
// given faction. Global roles see everything; everyone else only their
// own faction.
func CanViewFaction(a Actor, target models.FactionCode) bool {
	if a.Role.IsGlobal() {
		return true
	}
	return sameFaction(a, target)
}

// CanManageDepartment reports whether the actor may create, update, or
// delete the target department (pass a zero ID for creation). Deputy
// heads never manage departments.
func CanManageDepartment(a Actor, target Department) bool {
	switch {
	case a.Role.IsGlobal():
		return true
	case a.Role.IsFactionLeader():
		return sameFaction(a, target.Faction)
	case a.Role == models.RoleHeadOfDepartment:
		return !target.ID.IsZero() && sameDepartment(a, target.ID)
	default:
		return false
	}
}

// CanEditTable reports whether the actor may replace attendance rows for
// the target department's weeks. This is the one capability deputy heads
// hold.
func CanEditTable(a Actor, target Department) bool {
	switch {
	case a.Role.IsGlobal():
		return true
	case a.Role.IsFactionLeader():
		return sameFaction(a, target.Faction)
	case a.Role == models.RoleHeadOfDepartment, a.Role == models.RoleDeputyHead:
		return sameDepartment(a, target.ID)
	default:
		return false
	}
}

// CanManageTopics reports whether the actor may change what is tracked:
// lecture/training topic lists and the table structure. Deputy heads can
// mark attendance but must never redefine what is tracked, so they are
// always denied here regardless of department.
func CanManageTopics(a Actor, target Department) bool {
	switch {
	case a.Role.IsGlobal():
		return true
	case a.Role.IsFactionLeader():
		return sameFaction(a, target.Faction)
	case a.Role == models.RoleHeadOfDepartment:
		if target.ID.IsZero() {
			// Faction-wide topic lists: heads only touch them through
			// their own department's faction.
			return sameFaction(a, target.Faction)
		}
		return sameDepartment(a, target.ID)
	default:
		return false
	}
}

// CanManageUsers reports whether the role may administer accounts.
func CanManageUsers(role models.Role) bool {
	return role.IsGlobal()
}

// CanViewAuditLogs reports whether the role may read the audit trail.
func CanViewAuditLogs(role models.Role) bool {
	return role.IsGlobal()
}

// CanRestoreData reports whether the role may restore tombstoned data.
func CanRestoreData(role models.Role) bool {
	return role == models.RoleDeveloper
}

// CanSwitchRole reports whether the role may impersonate other roles.
func CanSwitchRole(role models.Role) bool {
	return role == models.RoleDeveloper
}

// Requires2FA reports whether the role is elevated enough to require a
// second factor at login: the global tier plus every faction leader.
// Static set membership, independent of the other capability checks.
func Requires2FA(role models.Role) bool {
	return role.IsGlobal() || role.IsFactionLeader()
}

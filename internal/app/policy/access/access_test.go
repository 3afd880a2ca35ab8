package access_test

import (
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func leaderActor(faction models.FactionCode) access.Actor {
	role := models.Role("leader_" + string(faction))
	return access.Actor{Role: role, Faction: &faction}
}

func headActor(faction models.FactionCode, depID primitive.ObjectID) access.Actor {
	return access.Actor{Role: models.RoleHeadOfDepartment, Faction: &faction, DepartmentID: &depID}
}

func deputyActor(faction models.FactionCode, depID primitive.ObjectID) access.Actor {
	return access.Actor{Role: models.RoleDeputyHead, Faction: &faction, DepartmentID: &depID}
}

func TestCanViewFaction(t *testing.T) {
	dev := access.Actor{Role: models.RoleDeveloper}
	if !access.CanViewFaction(dev, models.FactionArmy) {
		t.Error("developer should view any faction")
	}

	leader := leaderActor(models.FactionFSB)
	if !access.CanViewFaction(leader, models.FactionFSB) {
		t.Error("leader should view own faction")
	}
	if access.CanViewFaction(leader, models.FactionGov) {
		t.Error("leader should not view another faction")
	}
}

func TestCanManageDepartment_LeaderScopedToFaction(t *testing.T) {
	dep := access.Department{ID: primitive.NewObjectID(), Faction: models.FactionFSB}

	if !access.CanManageDepartment(leaderActor(models.FactionFSB), dep) {
		t.Error("leader should manage departments of own faction")
	}
	if access.CanManageDepartment(leaderActor(models.FactionGov), dep) {
		t.Error("leader must not manage departments of another faction")
	}
}

func TestCanManageDepartment_HeadOnlyOwnDepartment(t *testing.T) {
	ownID := primitive.NewObjectID()
	own := access.Department{ID: ownID, Faction: models.FactionUMVD}
	other := access.Department{ID: primitive.NewObjectID(), Faction: models.FactionUMVD}

	head := headActor(models.FactionUMVD, ownID)
	if !access.CanManageDepartment(head, own) {
		t.Error("head should manage own department")
	}
	if access.CanManageDepartment(head, other) {
		t.Error("head must not manage a sibling department")
	}
	// Creation (zero target ID) is above a head's authority.
	if access.CanManageDepartment(head, access.Department{Faction: models.FactionUMVD}) {
		t.Error("head must not create departments")
	}
}

// Deputies hold exactly one capability: editing their own department's
// table. Every check here asserts the pair — edit allowed, manage and
// topics denied — so a regression in either direction is caught.
func TestDeputy_EditsTableButManagesNothing(t *testing.T) {
	depID := primitive.NewObjectID()
	dep := access.Department{ID: depID, Faction: models.FactionArmy}
	deputy := deputyActor(models.FactionArmy, depID)

	if !access.CanEditTable(deputy, dep) {
		t.Error("deputy should edit own department's table")
	}
	if access.CanManageDepartment(deputy, dep) {
		t.Error("deputy must not manage the department")
	}
	if access.CanManageTopics(deputy, dep) {
		t.Error("deputy must not manage topics or structure")
	}

	other := access.Department{ID: primitive.NewObjectID(), Faction: models.FactionArmy}
	if access.CanEditTable(deputy, other) {
		t.Error("deputy must not edit a sibling department's table")
	}
}

func TestCanManageTopics_HeadFactionWide(t *testing.T) {
	depID := primitive.NewObjectID()
	head := headActor(models.FactionSMI, depID)

	// Faction-wide topic lists (zero department ID) follow the head's
	// faction.
	if !access.CanManageTopics(head, access.Department{Faction: models.FactionSMI}) {
		t.Error("head should manage own faction's topic lists")
	}
	if access.CanManageTopics(head, access.Department{Faction: models.FactionGov}) {
		t.Error("head must not manage another faction's topic lists")
	}
}

func TestGlobalOnlyCapabilities(t *testing.T) {
	for _, role := range []models.Role{models.RoleDeveloper, models.RoleChiefOverseer, models.RoleDeputyOverseer} {
		if !access.CanManageUsers(role) {
			t.Errorf("%s should manage users", role)
		}
		if !access.CanViewAuditLogs(role) {
			t.Errorf("%s should view audit logs", role)
		}
	}
	for _, role := range []models.Role{models.RoleLeaderFSB, models.RoleHeadOfDepartment, models.RoleDeputyHead} {
		if access.CanManageUsers(role) {
			t.Errorf("%s must not manage users", role)
		}
		if access.CanViewAuditLogs(role) {
			t.Errorf("%s must not view audit logs", role)
		}
	}
}

func TestDeveloperOnlyCapabilities(t *testing.T) {
	if !access.CanRestoreData(models.RoleDeveloper) || !access.CanSwitchRole(models.RoleDeveloper) {
		t.Error("developer should restore data and switch roles")
	}
	if access.CanRestoreData(models.RoleChiefOverseer) || access.CanSwitchRole(models.RoleChiefOverseer) {
		t.Error("overseer must not restore data or switch roles")
	}
}

func TestRequires2FA(t *testing.T) {
	for _, role := range []models.Role{models.RoleDeveloper, models.RoleChiefOverseer, models.RoleLeaderArmy} {
		if !access.Requires2FA(role) {
			t.Errorf("%s should require 2FA", role)
		}
	}
	for _, role := range []models.Role{models.RoleHeadOfDepartment, models.RoleDeputyHead} {
		if access.Requires2FA(role) {
			t.Errorf("%s should not require 2FA", role)
		}
	}
}

package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeveloperIdentity returns an identity with the developer role.
func DeveloperIdentity() *auth.Identity {
	return &auth.Identity{
		ID:       primitive.NewObjectID(),
		Email:    "dev@test.com",
		FullName: "Test Developer",
		Role:     models.RoleDeveloper,
		IsActive: true,
	}
}

// OverseerIdentity returns an identity with the chief overseer role.
func OverseerIdentity() *auth.Identity {
	return &auth.Identity{
		ID:       primitive.NewObjectID(),
		Email:    "gs@test.com",
		FullName: "Test Overseer",
		Role:     models.RoleChiefOverseer,
		IsActive: true,
	}
}

// LeaderIdentity returns a faction-leader identity for the faction.
func LeaderIdentity(role models.Role, faction models.FactionCode) *auth.Identity {
	return &auth.Identity{
		ID:       primitive.NewObjectID(),
		Email:    "leader@test.com",
		FullName: "Test Leader",
		Role:     role,
		Faction:  &faction,
		IsActive: true,
	}
}

// HeadIdentity returns a department-head identity bound to the
// department and faction.
func HeadIdentity(faction models.FactionCode, departmentID primitive.ObjectID) *auth.Identity {
	return &auth.Identity{
		ID:           primitive.NewObjectID(),
		Email:        "head@test.com",
		FullName:     "Test Head",
		Role:         models.RoleHeadOfDepartment,
		Faction:      &faction,
		DepartmentID: &departmentID,
		IsActive:     true,
	}
}

// DeputyIdentity returns a deputy-head identity bound to the department
// and faction.
func DeputyIdentity(faction models.FactionCode, departmentID primitive.ObjectID) *auth.Identity {
	return &auth.Identity{
		ID:           primitive.NewObjectID(),
		Email:        "deputy@test.com",
		FullName:     "Test Deputy",
		Role:         models.RoleDeputyHead,
		Faction:      &faction,
		DepartmentID: &departmentID,
		IsActive:     true,
	}
}

// WithIdentity adds an identity to the request context, bypassing token
// verification.
func WithIdentity(r *http.Request, id *auth.Identity) *http.Request {
	return auth.WithTestIdentity(r, id)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

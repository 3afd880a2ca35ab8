// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role, ObjectID, and a found flag. ok=false
// means no authenticated caller is attached to the request.
func UserCtx(r *http.Request) (role models.Role, userID primitive.ObjectID, ok bool) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	return id.Role, id.ID, true
}

// ActorCtx builds the permission-engine actor descriptor for the caller.
func ActorCtx(r *http.Request) (access.Actor, *auth.Identity, bool) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		return access.Actor{}, nil, false
	}
	return access.Actor{
		Role:         id.Role,
		Faction:      id.Faction,
		DepartmentID: id.DepartmentID,
	}, id, true
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents every account in the system, from developer down to
// deputy department heads.
//
// NOTE:
//   - Faction and DepartmentID are explicit assignments validated against
//     the role at creation time (ValidateRoleAssignment); they are never
//     re-derived from the role name.
//   - Deletion is a tombstone: IsActive=false plus DeletedAt/DeletedBy.
//     Restore clears the tombstone. There is no parallel collection of
//     deleted users.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string              `bson:"email" json:"email"`
	FullName     string              `bson:"full_name" json:"full_name"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	VKURL        string              `bson:"vk_url,omitempty" json:"vk_url,omitempty"`
	Role         Role                `bson:"role" json:"role"`
	Faction      *FactionCode        `bson:"faction,omitempty" json:"faction,omitempty"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`
	IsActive     bool                `bson:"is_active" json:"is_active"`
	TwoFAEnabled bool                `bson:"two_fa_enabled" json:"two_fa_enabled"`
	PasswordHash string              `bson:"password_hash" json:"-"`

	DeletedAt *time.Time          `bson:"deleted_at,omitempty" json:"-"`
	DeletedBy *primitive.ObjectID `bson:"deleted_by,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

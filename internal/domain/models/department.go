// internal/domain/models/department.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is a sub-unit of a faction. It owns a table structure and the
// weekly attendance tables; deleting a department cascades all of them.
type Department struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FactionID     primitive.ObjectID   `bson:"faction_id" json:"faction_id"`
	Name          string               `bson:"name" json:"name"`
	NameCI        string               `bson:"name_ci" json:"-"`
	HeadUserID    *primitive.ObjectID  `bson:"head_user_id,omitempty" json:"head_user_id,omitempty"`
	DeputyUserIDs []primitive.ObjectID `bson:"deputy_user_ids" json:"deputy_user_ids"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

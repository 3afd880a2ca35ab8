// internal/domain/models/week.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Week is one Monday–Sunday attendance period of a department. Weeks are
// immutable once created except for the IsCurrent flag, which only the
// week lifecycle manager may set. At most one week per department is
// current at any time; the unique (department_id, week_start) index
// arbitrates concurrent creation.
type Week struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`
	WeekStart    time.Time          `bson:"week_start" json:"week_start"`
	WeekEnd      time.Time          `bson:"week_end" json:"week_end"`
	IsCurrent    bool               `bson:"is_current" json:"is_current"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

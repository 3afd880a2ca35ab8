// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies server-generated notifications.
type NotificationType string

const (
	NotifyStructureChanged  NotificationType = "table_structure_changed"
	NotifyRoleAssigned      NotificationType = "role_assigned"
	NotifyDepartmentDeleted NotificationType = "department_deleted"
	NotifyEmployeeAdded     NotificationType = "employee_added"
	NotifyWarning           NotificationType = "warning"
	NotifyDataRestored      NotificationType = "data_restored"
)

// Notification is one inbox entry. Created by server-side events only;
// the owning user may flip Read, nothing else mutates it.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type      NotificationType   `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// internal/domain/models/tabledata.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TableRow is one employee's row. Cells map column IDs from the
// department's TableStructure to values.
type TableRow struct {
	EmployeeName string                 `bson:"employee_name" json:"employee_name"`
	Cells        map[string]interface{} `bson:"cells" json:"cells"`
}

// TableData holds the attendance rows for one week, one-to-one with Week.
// Created empty alongside its week; mutated only by full row replacement;
// deleted only by the department cascade.
type TableData struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekID       primitive.ObjectID `bson:"week_id" json:"week_id"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`
	Rows         []TableRow         `bson:"rows" json:"rows"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/structure.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Column types understood by the table renderer.
const (
	ColumnText     = "text"
	ColumnCheckbox = "checkbox"
	ColumnLecture  = "lecture"
	ColumnTraining = "training"
	ColumnDate     = "date"
	ColumnNumber   = "number"
)

// StructureColumn is one column definition of a department's attendance
// table. Column IDs key the cell values in TableRow.Cells.
type StructureColumn struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Type     string `bson:"type" json:"type"`
	Order    int    `bson:"order" json:"order"`
	Editable bool   `bson:"editable" json:"editable"`
}

// TableStructure defines what a department's weekly table tracks. Exactly
// one exists per department, created atomically with it.
type TableStructure struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`
	Columns      []StructureColumn  `bson:"columns" json:"columns"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// internal/app/store/structures/structurestore.go
package structurestore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("table_structures")}
}

// DefaultColumns is the layout every new department starts with: a
// locked employee-name column, one checkbox per weekday, and the
// lecture and training counters.
func DefaultColumns() []models.StructureColumn {
	cols := []models.StructureColumn{
		{ID: uuid.NewString(), Name: "Сотрудник", Type: models.ColumnText, Order: 0, Editable: false},
	}
	for i, day := range []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"} {
		cols = append(cols, models.StructureColumn{
			ID: uuid.NewString(), Name: day, Type: models.ColumnCheckbox, Order: i + 1, Editable: true,
		})
	}
	cols = append(cols,
		models.StructureColumn{ID: uuid.NewString(), Name: "Лекции", Type: models.ColumnLecture, Order: 8, Editable: true},
		models.StructureColumn{ID: uuid.NewString(), Name: "Тренировки", Type: models.ColumnTraining, Order: 9, Editable: true},
	)
	return cols
}

// CreateDefault inserts the default structure for a new department.
func (s *Store) CreateDefault(ctx context.Context, departmentID primitive.ObjectID) (models.TableStructure, error) {
	now := time.Now().UTC()
	ts := models.TableStructure{
		ID:           primitive.NewObjectID(),
		DepartmentID: departmentID,
		Columns:      DefaultColumns(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, ts); err != nil {
		return models.TableStructure{}, err
	}
	return ts, nil
}

func (s *Store) GetByDepartment(ctx context.Context, departmentID primitive.ObjectID) (models.TableStructure, error) {
	var ts models.TableStructure
	if err := s.c.FindOne(ctx, bson.M{"department_id": departmentID}).Decode(&ts); err != nil {
		return models.TableStructure{}, err
	}
	return ts, nil
}

// ReplaceColumns swaps the full column set. Callers are responsible
// for validating column types and preserving the employee column.
func (s *Store) ReplaceColumns(ctx context.Context, departmentID primitive.ObjectID, columns []models.StructureColumn) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"department_id": departmentID},
		bson.M{"$set": bson.M{"columns": columns, "updated_at": time.Now().UTC()}})
	return err
}

// DeleteByDepartment removes the structure as part of a department
// cascade delete.
func (s *Store) DeleteByDepartment(ctx context.Context, departmentID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"department_id": departmentID})
	return err
}

// internal/app/store/tabledata/tabledatastore.go
package tabledatastore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("no data table exists for this week")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("table_data")}
}

// CreateEmpty inserts the week's data table with no rows. The unique
// week_id index makes a second insert for the same week a no-op for
// the loser of the race.
func (s *Store) CreateEmpty(ctx context.Context, weekID, departmentID primitive.ObjectID) (models.TableData, error) {
	now := time.Now().UTC()
	td := models.TableData{
		ID:           primitive.NewObjectID(),
		WeekID:       weekID,
		DepartmentID: departmentID,
		Rows:         []models.TableRow{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, td); err != nil {
		if wafflemongo.IsDup(err) {
			return s.GetByWeek(ctx, weekID)
		}
		return models.TableData{}, err
	}
	return td, nil
}

func (s *Store) GetByWeek(ctx context.Context, weekID primitive.ObjectID) (models.TableData, error) {
	var td models.TableData
	if err := s.c.FindOne(ctx, bson.M{"week_id": weekID}).Decode(&td); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TableData{}, ErrNotFound
		}
		return models.TableData{}, err
	}
	return td, nil
}

// ReplaceRows swaps the full row set of the week's table and returns
// the number of rows that were there before. Saves are whole-table:
// no per-cell patching.
func (s *Store) ReplaceRows(ctx context.Context, weekID primitive.ObjectID, rows []models.TableRow) (int, error) {
	prev, err := s.GetByWeek(ctx, weekID)
	if err != nil {
		return 0, err
	}
	if rows == nil {
		rows = []models.TableRow{}
	}
	_, err = s.c.UpdateByID(ctx, prev.ID, bson.M{"$set": bson.M{
		"rows":       rows,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return len(prev.Rows), nil
}

// DeleteByWeeks removes the data tables for the given weeks as part of
// a department cascade delete.
func (s *Store) DeleteByWeeks(ctx context.Context, weekIDs []primitive.ObjectID) error {
	if len(weekIDs) == 0 {
		return nil
	}
	_, err := s.c.DeleteMany(ctx, bson.M{"week_id": bson.M{"$in": weekIDs}})
	return err
}

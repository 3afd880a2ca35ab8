// internal/app/store/weeks/weekstore.go
package weekstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rollcallhq/rollcall/internal/app/system/weekclock"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("weeks")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Week, error) {
	var w models.Week
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return models.Week{}, err
	}
	return w, nil
}

func (s *Store) findByStart(ctx context.Context, departmentID primitive.ObjectID, start time.Time) (models.Week, error) {
	var w models.Week
	err := s.c.FindOne(ctx, bson.M{"department_id": departmentID, "week_start": start}).Decode(&w)
	return w, err
}

// unmarkAll flips is_current off on every week of the department.
// Running it before marking the new week keeps the single-current
// invariant even if the insert below fails.
func (s *Store) unmarkAll(ctx context.Context, departmentID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"department_id": departmentID, "is_current": true},
		bson.M{"$set": bson.M{"is_current": false}})
	return err
}

// EnsureCurrent returns the department's week covering now, creating
// and marking it current if needed. The created flag tells the caller
// a fresh week (with an empty data table) must be set up.
//
// Concurrent callers racing on the same week boundary both land on the
// same document: the unique (department_id, week_start) index rejects
// the second insert and we re-read the winner's row.
func (s *Store) EnsureCurrent(ctx context.Context, departmentID primitive.ObjectID, now time.Time) (models.Week, bool, error) {
	monday, sunday := weekclock.Boundaries(now)

	w, err := s.findByStart(ctx, departmentID, monday)
	if err == nil {
		if !w.IsCurrent {
			if err := s.unmarkAll(ctx, departmentID); err != nil {
				return models.Week{}, false, err
			}
			if _, err := s.c.UpdateByID(ctx, w.ID, bson.M{"$set": bson.M{"is_current": true}}); err != nil {
				return models.Week{}, false, err
			}
			w.IsCurrent = true
		}
		return w, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Week{}, false, err
	}

	if err := s.unmarkAll(ctx, departmentID); err != nil {
		return models.Week{}, false, err
	}

	w = models.Week{
		ID:           primitive.NewObjectID(),
		DepartmentID: departmentID,
		WeekStart:    monday,
		WeekEnd:      sunday,
		IsCurrent:    true,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		if wafflemongo.IsDup(err) {
			// A concurrent caller created this week first; take theirs.
			existing, rerr := s.findByStart(ctx, departmentID, monday)
			if rerr != nil {
				return models.Week{}, false, rerr
			}
			return existing, false, nil
		}
		return models.Week{}, false, err
	}
	return w, true, nil
}

// List returns the department's weeks newest-first: the archive view.
func (s *Store) List(ctx context.Context, departmentID primitive.ObjectID) ([]models.Week, error) {
	opts := options.Find().SetSort(bson.D{{Key: "week_start", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"department_id": departmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var weeks []models.Week
	if err := cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

// CountCurrent reports how many weeks of the department carry the
// current mark. Anything other than 0 or 1 is an invariant breach.
func (s *Store) CountCurrent(ctx context.Context, departmentID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"department_id": departmentID, "is_current": true})
}

// DeleteByDepartment removes all of the department's weeks and returns
// their ids so the caller can cascade into table data.
func (s *Store) DeleteByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := s.c.Find(ctx, bson.M{"department_id": departmentID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"department_id": departmentID}); err != nil {
		return nil, err
	}
	return ids, nil
}

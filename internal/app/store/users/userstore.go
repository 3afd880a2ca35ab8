// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateEmail = errors.New("a user with this email already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName)
	u.IsActive = true
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateInfo applies a partial update of mutable profile and assignment
// fields. Nil pointers leave the stored value untouched.
type UpdateInfo struct {
	FullName     *string
	VKURL        *string
	Role         *models.Role
	Faction      *models.FactionCode
	DepartmentID *primitive.ObjectID
	PasswordHash *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd UpdateInfo) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		set["full_name"] = *upd.FullName
		set["full_name_ci"] = text.Fold(*upd.FullName)
	}
	if upd.VKURL != nil {
		set["vk_url"] = *upd.VKURL
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Faction != nil {
		set["faction"] = *upd.Faction
	}
	if upd.DepartmentID != nil {
		set["department_id"] = *upd.DepartmentID
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateEmail
	}
	return err
}

// Deactivate tombstones a user: is_active=false plus deleted_at and
// deleted_by. The document stays in place; Restore reverses it.
func (s *Store) Deactivate(ctx context.Context, id, actorID primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_active":  false,
		"deleted_at": now,
		"deleted_by": actorID,
		"updated_at": now,
	}})
	return err
}

// Restore clears the tombstone and reactivates the account.
func (s *Store) Restore(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"is_active": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"deleted_at": "", "deleted_by": ""},
	})
	return err
}

// List returns users filtered by optional role and faction, name order.
func (s *Store) List(ctx context.Context, role *models.Role, faction *models.FactionCode, includeInactive bool) ([]models.User, error) {
	query := bson.M{}
	if role != nil {
		query["role"] = *role
	}
	if faction != nil {
		query["faction"] = *faction
	}
	if !includeInactive {
		query["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListByDepartment returns every user assigned to the department,
// including inactive ones; department deletion must notify all of them.
func (s *Store) ListByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.User, error) {
	cursor, err := s.c.Find(ctx, bson.M{"department_id": departmentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ClearDepartment unsets department_id on every user pointing at the
// department. Called after a department cascade delete.
func (s *Store) ClearDepartment(ctx context.Context, departmentID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"department_id": departmentID},
		bson.M{"$unset": bson.M{"department_id": ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Count returns the total number of users, active only when activeOnly.
func (s *Store) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := bson.M{}
	if activeOnly {
		query["is_active"] = true
	}
	return s.c.CountDocuments(ctx, query)
}

package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	structurestore "github.com/rollcallhq/rollcall/internal/app/store/structures"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateFaction creates a test faction with the given code.
func (f *Fixtures) CreateFaction(ctx context.Context, code models.FactionCode) models.Faction {
	f.t.Helper()

	faction := models.Faction{
		ID:        primitive.NewObjectID(),
		Code:      code,
		Name:      string(code),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("factions").InsertOne(ctx, faction); err != nil {
		f.t.Fatalf("failed to create test faction: %v", err)
	}
	return faction
}

// CreateDepartment creates a test department in the given faction,
// including its default table structure.
func (f *Fixtures) CreateDepartment(ctx context.Context, factionID primitive.ObjectID, name string) models.Department {
	f.t.Helper()

	now := time.Now().UTC()
	dep := models.Department{
		ID:        primitive.NewObjectID(),
		FactionID: factionID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("departments").InsertOne(ctx, dep); err != nil {
		f.t.Fatalf("failed to create test department: %v", err)
	}
	if _, err := structurestore.New(f.db).CreateDefault(ctx, dep.ID); err != nil {
		f.t.Fatalf("failed to create test table structure: %v", err)
	}
	return dep
}

// CreateUser creates a test user with the given role, faction, and
// department assignment. Pass nil for the scopes the role does not use.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, role models.Role, faction *models.FactionCode, departmentID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Role:         role,
		Faction:      faction,
		DepartmentID: departmentID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateWeek creates a week document directly, bypassing the lifecycle.
func (f *Fixtures) CreateWeek(ctx context.Context, departmentID primitive.ObjectID, start time.Time, current bool) models.Week {
	f.t.Helper()

	week := models.Week{
		ID:           primitive.NewObjectID(),
		DepartmentID: departmentID,
		WeekStart:    start,
		WeekEnd:      start.AddDate(0, 0, 6).Add(24*time.Hour - time.Nanosecond),
		IsCurrent:    current,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("weeks").InsertOne(ctx, week); err != nil {
		f.t.Fatalf("failed to create test week: %v", err)
	}
	return week
}

// CreateTableData creates a data table for the given week.
func (f *Fixtures) CreateTableData(ctx context.Context, weekID, departmentID primitive.ObjectID, rows []models.TableRow) models.TableData {
	f.t.Helper()

	if rows == nil {
		rows = []models.TableRow{}
	}
	now := time.Now().UTC()
	td := models.TableData{
		ID:           primitive.NewObjectID(),
		WeekID:       weekID,
		DepartmentID: departmentID,
		Rows:         rows,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("table_data").InsertOne(ctx, td); err != nil {
		f.t.Fatalf("failed to create test table data: %v", err)
	}
	return td
}

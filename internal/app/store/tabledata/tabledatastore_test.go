package tabledatastore_test

import (
	"errors"
	"testing"
	"time"

	tabledatastore "github.com/rollcallhq/rollcall/internal/app/store/tabledata"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateEmptyAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tabledatastore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionGov)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Archives")
	week := fixtures.CreateWeek(ctx, dep.ID, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), true)

	td, err := store.CreateEmpty(ctx, week.ID, dep.ID)
	if err != nil {
		t.Fatalf("CreateEmpty failed: %v", err)
	}
	if len(td.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(td.Rows))
	}

	// A duplicate create lands on the existing table.
	again, err := store.CreateEmpty(ctx, week.ID, dep.ID)
	if err != nil {
		t.Fatalf("duplicate CreateEmpty failed: %v", err)
	}
	if again.ID != td.ID {
		t.Errorf("expected the existing table, got %v and %v", again.ID, td.ID)
	}
}

func TestGetByWeek_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tabledatastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByWeek(ctx, primitive.NewObjectID())
	if !errors.Is(err, tabledatastore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReplaceRows_FullReplacement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tabledatastore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionArmy)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Logistics")
	week := fixtures.CreateWeek(ctx, dep.ID, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), true)
	fixtures.CreateTableData(ctx, week.ID, dep.ID, nil)

	rowsA := []models.TableRow{
		{EmployeeName: "Иванов", Cells: map[string]interface{}{"mon": true}},
		{EmployeeName: "Петров", Cells: map[string]interface{}{"mon": false}},
	}
	prev, err := store.ReplaceRows(ctx, week.ID, rowsA)
	if err != nil {
		t.Fatalf("ReplaceRows (A) failed: %v", err)
	}
	if prev != 0 {
		t.Errorf("expected 0 prior rows, got %d", prev)
	}

	// Replacement is whole-table: set B fully supersedes set A.
	rowsB := []models.TableRow{
		{EmployeeName: "Сидоров", Cells: map[string]interface{}{"mon": true}},
	}
	prev, err = store.ReplaceRows(ctx, week.ID, rowsB)
	if err != nil {
		t.Fatalf("ReplaceRows (B) failed: %v", err)
	}
	if prev != 2 {
		t.Errorf("expected 2 prior rows, got %d", prev)
	}

	td, err := store.GetByWeek(ctx, week.ID)
	if err != nil {
		t.Fatalf("GetByWeek failed: %v", err)
	}
	if len(td.Rows) != 1 || td.Rows[0].EmployeeName != "Сидоров" {
		t.Errorf("expected only set B to remain, got %+v", td.Rows)
	}
}

func TestReplaceRows_NoTable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tabledatastore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.ReplaceRows(ctx, primitive.NewObjectID(), nil)
	if !errors.Is(err, tabledatastore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package weekstore_test

import (
	"sync"
	"testing"
	"time"

	weekstore "github.com/rollcallhq/rollcall/internal/app/store/weeks"
	"github.com/rollcallhq/rollcall/internal/app/system/weekclock"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
)

func TestEnsureCurrent_CreatesAndMarks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weekstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionGov)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Patrol")

	now := time.Date(2024, 2, 7, 15, 30, 0, 0, time.UTC) // Wednesday
	week, created, err := store.EnsureCurrent(ctx, dep.ID, now)
	if err != nil {
		t.Fatalf("EnsureCurrent failed: %v", err)
	}
	if !created {
		t.Error("expected a fresh week to be created")
	}
	if !week.IsCurrent {
		t.Error("expected the new week to be current")
	}

	wantStart, wantEnd := weekclock.Boundaries(now)
	if !week.WeekStart.Equal(wantStart) {
		t.Errorf("WeekStart: got %v, want %v", week.WeekStart, wantStart)
	}
	if !week.WeekEnd.Equal(wantEnd) {
		t.Errorf("WeekEnd: got %v, want %v", week.WeekEnd, wantEnd)
	}

	// A second call inside the same week returns the same document.
	again, created, err := store.EnsureCurrent(ctx, dep.ID, now.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("second EnsureCurrent failed: %v", err)
	}
	if created {
		t.Error("no new week should be created inside the same boundaries")
	}
	if again.ID != week.ID {
		t.Errorf("expected the same week, got %v and %v", again.ID, week.ID)
	}
}

func TestEnsureCurrent_RollsForwardAndUnmarksOld(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weekstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionArmy)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Recruits")

	week1, _, err := store.EnsureCurrent(ctx, dep.ID, time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EnsureCurrent (week 1) failed: %v", err)
	}

	week2, created, err := store.EnsureCurrent(ctx, dep.ID, time.Date(2024, 2, 12, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EnsureCurrent (week 2) failed: %v", err)
	}
	if !created {
		t.Error("moving past the boundary should create a new week")
	}
	if week2.ID == week1.ID {
		t.Fatal("expected a new week document")
	}

	old, err := store.GetByID(ctx, week1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if old.IsCurrent {
		t.Error("the previous week must be unmarked")
	}

	n, err := store.CountCurrent(ctx, dep.ID)
	if err != nil {
		t.Fatalf("CountCurrent failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 current week, got %d", n)
	}

	// The archive keeps both, newest first.
	weeks, err := store.List(ctx, dep.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].ID != week2.ID {
		t.Error("expected the newest week first")
	}
}

func TestEnsureCurrent_RemarksExistingWeek(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weekstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionSMI)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Editorial")

	// A week exists for the boundary but lost its current mark.
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	monday, _ := weekclock.Boundaries(now)
	stale := fixtures.CreateWeek(ctx, dep.ID, monday, false)

	week, created, err := store.EnsureCurrent(ctx, dep.ID, now)
	if err != nil {
		t.Fatalf("EnsureCurrent failed: %v", err)
	}
	if created {
		t.Error("the existing week should be reused")
	}
	if week.ID != stale.ID {
		t.Errorf("expected week %v, got %v", stale.ID, week.ID)
	}
	if !week.IsCurrent {
		t.Error("the existing week should be re-marked current")
	}
}

func TestEnsureCurrent_ConcurrentCallersConverge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weekstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionFSB)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Counterintel")

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	const callers = 8

	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, _, err := store.EnsureCurrent(ctx, dep.ID, now)
			ids[i], errs[i] = w.ID.Hex(), err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d failed: %v", i, err)
		}
	}
	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("callers diverged: %s vs %s", ids[i], ids[0])
		}
	}

	n, err := store.CountCurrent(ctx, dep.ID)
	if err != nil {
		t.Fatalf("CountCurrent failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 current week after the race, got %d", n)
	}
}

func TestDeleteByDepartment_ReturnsWeekIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weekstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionUMVD)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Records")

	fixtures.CreateWeek(ctx, dep.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false)
	fixtures.CreateWeek(ctx, dep.ID, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), true)

	ids, err := store.DeleteByDepartment(ctx, dep.ID)
	if err != nil {
		t.Fatalf("DeleteByDepartment failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 deleted week ids, got %d", len(ids))
	}

	weeks, err := store.List(ctx, dep.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(weeks) != 0 {
		t.Errorf("expected no weeks left, got %d", len(weeks))
	}
}

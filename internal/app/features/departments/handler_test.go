package departments_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	departmentsfeature "github.com/rollcallhq/rollcall/internal/app/features/departments"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	notificationstore "github.com/rollcallhq/rollcall/internal/app/store/notifications"
	weekstore "github.com/rollcallhq/rollcall/internal/app/store/weeks"
	"github.com/rollcallhq/rollcall/internal/app/system/auditlog"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/notify"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/app/system/weekclock"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testEnv struct {
	handler *departmentsfeature.Handler
	db      *mongo.Database
	hub     *realtime.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	hub := realtime.NewHub(logger)
	t.Cleanup(hub.Close)

	recorder := auditlog.New(auditstore.New(db), logger)
	notifier := notify.New(notificationstore.New(db), hub, logger)
	return &testEnv{
		handler: departmentsfeature.NewHandler(db, logger, recorder, notifier, hub),
		db:      db,
		hub:     hub,
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func TestHandleCreate_LeaderOwnFaction(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateFaction(ctx, models.FactionFSB)

	req := httptest.NewRequest("POST", "/departments",
		jsonBody(t, map[string]string{"faction": "fsb", "name": "Counterintel"}))
	req = testutil.WithIdentity(req, testutil.LeaderIdentity(models.RoleLeaderFSB, models.FactionFSB))
	rec := httptest.NewRecorder()

	env.handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dep models.Department
	if err := json.Unmarshal(rec.Body.Bytes(), &dep); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// The default structure is created with the department.
	var ts models.TableStructure
	err := env.db.Collection("table_structures").FindOne(ctx, bson.M{"department_id": dep.ID}).Decode(&ts)
	if err != nil {
		t.Fatalf("expected a default structure: %v", err)
	}
	if len(ts.Columns) != 10 {
		t.Errorf("expected 10 default columns, got %d", len(ts.Columns))
	}
	if ts.Columns[0].Name != "Сотрудник" || ts.Columns[0].Editable {
		t.Errorf("expected a locked employee column first, got %+v", ts.Columns[0])
	}
}

func TestHandleCreate_LeaderOtherFactionForbidden(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateFaction(ctx, models.FactionGov)

	req := httptest.NewRequest("POST", "/departments",
		jsonBody(t, map[string]string{"faction": "gov", "name": "Intruders"}))
	req = testutil.WithIdentity(req, testutil.LeaderIdentity(models.RoleLeaderFSB, models.FactionFSB))
	rec := httptest.NewRecorder()

	env.handler.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	n, _ := env.db.Collection("departments").CountDocuments(ctx, bson.M{})
	if n != 0 {
		t.Errorf("expected no department to be created, got %d", n)
	}
}

func TestServeCurrentWeek_CreatesWeekAndTable(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionArmy)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Recruits")

	req := httptest.NewRequest("GET", "/departments/"+dep.ID.Hex()+"/weeks/current", nil)
	req = testutil.WithIdentity(req, testutil.HeadIdentity(models.FactionArmy, dep.ID))
	req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
	rec := httptest.NewRecorder()

	env.handler.ServeCurrentWeek(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	n, err := weekstore.New(env.db).CountCurrent(ctx, dep.ID)
	if err != nil {
		t.Fatalf("CountCurrent failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 current week, got %d", n)
	}

	// The empty data table exists too.
	var resp struct {
		Data models.TableData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Rows) != 0 {
		t.Errorf("expected an empty table, got %d rows", len(resp.Data.Rows))
	}
}

func TestServeCurrentWeek_ToleratesMissingTable(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionArmy)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Recruits")

	// A concurrent caller can observe the current week before its empty
	// table exists. Reproduce that window directly.
	monday, _ := weekclock.Boundaries(time.Now().UTC())
	fixtures.CreateWeek(ctx, dep.ID, monday, true)

	req := httptest.NewRequest("GET", "/departments/"+dep.ID.Hex()+"/weeks/current", nil)
	req = testutil.WithIdentity(req, testutil.HeadIdentity(models.FactionArmy, dep.ID))
	req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
	rec := httptest.NewRecorder()

	env.handler.ServeCurrentWeek(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	n, err := env.db.Collection("table_data").CountDocuments(ctx, bson.M{"week_id": bson.M{"$exists": true}})
	if err != nil {
		t.Fatalf("count table_data: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one table document after the fallback, got %d", n)
	}
}

func TestServeCurrentWeek_ConcurrentCallers(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionFSIN)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Guards")

	const callers = 8
	codes := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/departments/"+dep.ID.Hex()+"/weeks/current", nil)
			req = testutil.WithIdentity(req, testutil.HeadIdentity(models.FactionFSIN, dep.ID))
			req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
			rec := httptest.NewRecorder()
			env.handler.ServeCurrentWeek(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if code != http.StatusOK {
			t.Errorf("expected every caller to get 200, got %d", code)
		}
	}

	weeks, err := env.db.Collection("weeks").CountDocuments(ctx, bson.M{"department_id": dep.ID})
	if err != nil {
		t.Fatalf("count weeks: %v", err)
	}
	if weeks != 1 {
		t.Errorf("expected one week, got %d", weeks)
	}
	tables, err := env.db.Collection("table_data").CountDocuments(ctx, bson.M{"department_id": dep.ID})
	if err != nil {
		t.Fatalf("count table_data: %v", err)
	}
	if tables != 1 {
		t.Errorf("expected one table document, got %d", tables)
	}
}

func TestHandleSaveTableData_DeputyAllowedStrangerNot(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionUMVD)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Patrol")
	otherDep := fixtures.CreateDepartment(ctx, faction.ID, "Records")

	week, _, err := weekstore.New(env.db).EnsureCurrent(ctx, dep.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("EnsureCurrent failed: %v", err)
	}
	fixtures.CreateTableData(ctx, week.ID, dep.ID, nil)

	body := map[string]interface{}{
		"rows": []map[string]interface{}{
			{"employee_name": "Иванов", "cells": map[string]interface{}{"c1": true}},
		},
	}

	save := func(id *auth.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PUT", "/departments/"+dep.ID.Hex()+"/weeks/"+week.ID.Hex()+"/data", jsonBody(t, body))
		req = testutil.WithIdentity(req, id)
		req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
		req = testutil.WithChiURLParam(req, "weekID", week.ID.Hex())
		rec := httptest.NewRecorder()
		env.handler.HandleSaveTableData(rec, req)
		return rec
	}

	// A deputy of a sibling department is refused.
	if rec := save(testutil.DeputyIdentity(models.FactionUMVD, otherDep.ID)); rec.Code != http.StatusForbidden {
		t.Fatalf("sibling deputy: expected 403, got %d", rec.Code)
	}

	// The department's own deputy can write.
	if rec := save(testutil.DeputyIdentity(models.FactionUMVD, dep.ID)); rec.Code != http.StatusOK {
		t.Fatalf("own deputy: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSaveTableData_ArchivedWeekReadOnly(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionSMI)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Editorial")

	archived := fixtures.CreateWeek(ctx, dep.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false)
	fixtures.CreateTableData(ctx, archived.ID, dep.ID, nil)

	req := httptest.NewRequest("PUT", "/departments/"+dep.ID.Hex()+"/weeks/"+archived.ID.Hex()+"/data",
		jsonBody(t, map[string]interface{}{"rows": []map[string]interface{}{}}))
	req = testutil.WithIdentity(req, testutil.DeveloperIdentity())
	req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
	req = testutil.WithChiURLParam(req, "weekID", archived.ID.Hex())
	rec := httptest.NewRecorder()

	env.handler.HandleSaveTableData(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for an archived week, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleReplaceStructure_KeepsLockedColumn(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionGIBDD)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Highway")

	replace := func(columns []map[string]interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PUT", "/departments/"+dep.ID.Hex()+"/structure",
			jsonBody(t, map[string]interface{}{"columns": columns}))
		req = testutil.WithIdentity(req, testutil.HeadIdentity(models.FactionGIBDD, dep.ID))
		req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
		rec := httptest.NewRecorder()
		env.handler.HandleReplaceStructure(rec, req)
		return rec
	}

	// All-editable layouts drop the employee column and are refused.
	rec := replace([]map[string]interface{}{
		{"name": "Пн", "type": "checkbox", "order": 0, "editable": true},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without a locked column, got %d", rec.Code)
	}

	rec = replace([]map[string]interface{}{
		{"name": "Сотрудник", "type": "text", "order": 0, "editable": false},
		{"name": "Смена", "type": "number", "order": 1, "editable": true},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var ts models.TableStructure
	if err := env.db.Collection("table_structures").FindOne(ctx, bson.M{"department_id": dep.ID}).Decode(&ts); err != nil {
		t.Fatalf("reload structure: %v", err)
	}
	if len(ts.Columns) != 2 {
		t.Fatalf("expected 2 columns after replacement, got %d", len(ts.Columns))
	}
	if ts.Columns[1].Name != "Смена" || ts.Columns[1].Order != 1 {
		t.Errorf("unexpected second column %+v", ts.Columns[1])
	}
}

func TestHandleDelete_CascadesAndFansOut(t *testing.T) {
	env := newTestEnv(t)
	fixtures := testutil.NewFixtures(t, env.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	faction := fixtures.CreateFaction(ctx, models.FactionGov)
	dep := fixtures.CreateDepartment(ctx, faction.ID, "Cabinet")
	code := faction.Code

	member := fixtures.CreateUser(ctx, "Member", "member@test.com", models.RoleDeputyHead, &code, &dep.ID)

	week, _, err := weekstore.New(env.db).EnsureCurrent(ctx, dep.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("EnsureCurrent failed: %v", err)
	}
	fixtures.CreateTableData(ctx, week.ID, dep.ID, []models.TableRow{{EmployeeName: "Иванов", Cells: map[string]interface{}{}}})

	// Watch the department room for the terminal event. The observer is
	// not a member, so its channel sees room events only.
	sub := env.hub.Subscribe(primitive.NewObjectID(), realtime.DepartmentRoom(dep.ID))
	defer env.hub.Unsubscribe(sub)

	req := httptest.NewRequest("DELETE", "/departments/"+dep.ID.Hex(), nil)
	req = testutil.WithIdentity(req, testutil.OverseerIdentity())
	req = testutil.WithChiURLParam(req, "id", dep.ID.Hex())
	rec := httptest.NewRecorder()

	env.handler.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Everything below the department is gone.
	for _, coll := range []string{"departments", "table_structures", "weeks", "table_data"} {
		n, err := env.db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("expected %s to be empty, got %d documents", coll, n)
		}
	}

	// The member got a durable notification and lost the assignment.
	notes, err := notificationstore.New(env.db).ListByUser(ctx, member.ID, true)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != models.NotifyDepartmentDeleted {
		t.Fatalf("expected one department-deleted notification, got %+v", notes)
	}
	if notes[0].Title != "Отдел удалён" {
		t.Errorf("unexpected notification title %q", notes[0].Title)
	}

	var reloaded models.User
	if err := env.db.Collection("users").FindOne(ctx, bson.M{"_id": member.ID}).Decode(&reloaded); err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if reloaded.DepartmentID != nil {
		t.Error("expected the member's department assignment to be cleared")
	}

	// The terminal event reached the department room.
	select {
	case ev := <-sub.C:
		if ev.Type != realtime.EventDepartmentGone {
			t.Errorf("expected %s, got %s", realtime.EventDepartmentGone, ev.Type)
		}
	case <-time.After(time.Second):
		t.Error("expected a department_deleted event")
	}

	// The cascade left an audit entry with the row counts.
	entries, err := auditstore.New(env.db).Query(ctx, auditstore.QueryFilter{
		Action: auditstore.ActionDepartmentDeleted,
	})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
}

// internal/app/features/departments/tabledata.go
package departments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	tabledatastore "github.com/rollcallhq/rollcall/internal/app/store/tabledata"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// strict strips all markup from free-text cells and employee names.
var strict = bluemonday.StrictPolicy()

// loadWeek resolves {weekID} and checks it belongs to the department.
func (h *Handler) loadWeek(w http.ResponseWriter, r *http.Request, dep models.Department) (models.Week, bool) {
	weekID, err := api.PathID(chi.URLParam(r, "weekID"))
	if err != nil {
		api.NotFound(w, "week not found")
		return models.Week{}, false
	}
	week, err := h.weeks().GetByID(r.Context(), weekID)
	if err != nil || week.DepartmentID != dep.ID {
		api.NotFound(w, "week not found")
		return models.Week{}, false
	}
	return week, true
}

// ServeTableData handles GET /departments/{id}/weeks/{weekID}/data.
func (h *Handler) ServeTableData(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	dep, desc, ok := h.loadDepartment(r.Context(), w, r)
	if !ok {
		return
	}
	if !access.CanViewFaction(actor, desc.Faction) {
		api.Forbidden(w, "you cannot view this department")
		return
	}
	week, ok := h.loadWeek(w, r, dep)
	if !ok {
		return
	}

	td, err := h.tableData().GetByWeek(r.Context(), week.ID)
	if err != nil {
		if errors.Is(err, tabledatastore.ErrNotFound) {
			api.NotFound(w, "no data table exists for this week")
			return
		}
		api.Internal(w, h.Log, "load table data", err)
		return
	}
	api.JSON(w, http.StatusOK, td)
}

type rowRequest struct {
	EmployeeName string                 `json:"employee_name"`
	Cells        map[string]interface{} `json:"cells"`
}

type saveTableRequest struct {
	Rows []rowRequest `json:"rows"`
}

// HandleSaveTableData handles PUT /departments/{id}/weeks/{weekID}/data.
//
// Saves replace the whole row set. Only the current week accepts writes;
// archived weeks are read-only history.
func (h *Handler) HandleSaveTableData(w http.ResponseWriter, r *http.Request) {
	actor, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	dep, desc, ok := h.loadDepartment(r.Context(), w, r)
	if !ok {
		return
	}
	if !access.CanEditTable(actor, desc) {
		api.Forbidden(w, "you cannot edit this department's table")
		return
	}
	week, ok := h.loadWeek(w, r, dep)
	if !ok {
		return
	}
	if !week.IsCurrent {
		api.Fail(w, http.StatusConflict, api.KindInvalidState, "archived weeks are read-only")
		return
	}

	var req saveTableRequest
	if err := api.Decode(r, &req); err != nil {
		api.Invalid(w, "malformed request body")
		return
	}

	rows := make([]models.TableRow, 0, len(req.Rows))
	for _, rr := range req.Rows {
		name := strict.Sanitize(rr.EmployeeName)
		if name == "" {
			api.Unprocessable(w, "every row needs an employee name")
			return
		}
		cells := make(map[string]interface{}, len(rr.Cells))
		for col, v := range rr.Cells {
			if s, ok := v.(string); ok {
				v = strict.Sanitize(s)
			}
			cells[col] = v
		}
		rows = append(rows, models.TableRow{EmployeeName: name, Cells: cells})
	}

	prevRows, err := h.tableData().ReplaceRows(r.Context(), week.ID, rows)
	if err != nil {
		if errors.Is(err, tabledatastore.ErrNotFound) {
			api.NotFound(w, "no data table exists for this week")
			return
		}
		api.Internal(w, h.Log, "save table data", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionTableDataUpdated,
		auditstore.ResourceTableData, week.ID.Hex(),
		map[string]interface{}{"rows": prevRows},
		map[string]interface{}{"rows": len(rows)})

	h.Hub.Publish(realtime.DepartmentRoom(dep.ID), realtime.Event{
		Type: realtime.EventTableUpdated,
		Payload: map[string]interface{}{
			"department_id": dep.ID.Hex(),
			"week_id":       week.ID.Hex(),
			"updated_by":    who.FullName,
		},
	})

	td, err := h.tableData().GetByWeek(r.Context(), week.ID)
	if err != nil {
		api.Internal(w, h.Log, "reload table data", err)
		return
	}
	api.JSON(w, http.StatusOK, td)
}

// internal/app/features/departments/structure.go
package departments

import (
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// ServeStructure handles GET /departments/{id}/structure.
func (h *Handler) ServeStructure(w http.ResponseWriter, r *http.Request) {
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

	ts, err := h.structures().GetByDepartment(r.Context(), dep.ID)
	if err != nil {
		api.NotFound(w, "table structure not found")
		return
	}
	api.JSON(w, http.StatusOK, ts)
}

type structureColumnRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Order    int    `json:"order"`
	Editable bool   `json:"editable"`
}

type replaceStructureRequest struct {
	Columns []structureColumnRequest `json:"columns"`
}

var validColumnTypes = map[string]bool{
	models.ColumnText:     true,
	models.ColumnCheckbox: true,
	models.ColumnLecture:  true,
	models.ColumnTraining: true,
	models.ColumnDate:     true,
	models.ColumnNumber:   true,
}

// HandleReplaceStructure handles PUT /departments/{id}/structure.
//
// The employee-name column must survive every replacement: exactly one
// locked text column stays at order 0. Removing a column orphans its
// cell values in stored rows; they are left in place and simply stop
// rendering.
func (h *Handler) HandleReplaceStructure(w http.ResponseWriter, r *http.Request) {
	actor, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	dep, desc, ok := h.loadDepartment(r.Context(), w, r)
	if !ok {
		return
	}
	if !access.CanManageTopics(actor, desc) {
		api.Forbidden(w, "you cannot change this department's table structure")
		return
	}

	var req replaceStructureRequest
	if err := api.Decode(r, &req); err != nil {
		api.Invalid(w, "malformed request body")
		return
	}
	if len(req.Columns) == 0 {
		api.Unprocessable(w, "at least one column is required")
		return
	}

	columns := make([]models.StructureColumn, 0, len(req.Columns))
	locked := 0
	for _, c := range req.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			api.Unprocessable(w, "column names cannot be empty")
			return
		}
		if !validColumnTypes[c.Type] {
			api.Unprocessable(w, "unknown column type: "+c.Type)
			return
		}
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		if !c.Editable {
			locked++
		}
		columns = append(columns, models.StructureColumn{
			ID: id, Name: name, Type: c.Type, Order: c.Order, Editable: c.Editable,
		})
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Order < columns[j].Order })
	if locked != 1 || columns[0].Editable || columns[0].Type != models.ColumnText {
		api.Unprocessable(w, "the structure must keep exactly one locked text column first")
		return
	}
	for i := range columns {
		columns[i].Order = i
	}

	prev, err := h.structures().GetByDepartment(r.Context(), dep.ID)
	if err != nil {
		api.NotFound(w, "table structure not found")
		return
	}

	if err := h.structures().ReplaceColumns(r.Context(), dep.ID, columns); err != nil {
		api.Internal(w, h.Log, "replace table structure", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionStructureUpdated,
		auditstore.ResourceStructure, prev.ID.Hex(),
		map[string]interface{}{"columns": len(prev.Columns)},
		map[string]interface{}{"columns": len(columns)})

	members, err := h.users().ListByDepartment(r.Context(), dep.ID)
	if err != nil {
		api.Internal(w, h.Log, "list department members", err)
		return
	}
	for _, m := range members {
		if m.ID == who.ID {
			continue // the editor knows what they changed
		}
		h.Notifier.NotifyUser(r.Context(), m.ID, models.NotifyStructureChanged,
			"Структура таблицы изменена",
			"Структура таблицы отдела «"+dep.Name+"» была изменена.")
	}

	h.Hub.Publish(realtime.DepartmentRoom(dep.ID), realtime.Event{
		Type: realtime.EventStructureChanged,
		Payload: map[string]interface{}{
			"department_id": dep.ID.Hex(),
		},
	})

	ts, err := h.structures().GetByDepartment(r.Context(), dep.ID)
	if err != nil {
		api.Internal(w, h.Log, "reload table structure", err)
		return
	}
	api.JSON(w, http.StatusOK, ts)
}

// internal/app/features/departments/delete.go
package departments

import (
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /departments/{id}.
//
// Cascade order: structure, weeks, table data, then the department
// itself. Users assigned to the department are notified and unlinked
// afterwards; a terminal event goes to the department and faction rooms
// so open clients drop the view.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	dep, desc, ok := h.loadDepartment(r.Context(), w, r)
	if !ok {
		return
	}
	if !access.CanManageDepartment(actor, desc) {
		api.Forbidden(w, "you cannot manage this department")
		return
	}

	ctx := r.Context()

	// Members are collected before anything is removed so the fan-out
	// reaches everyone who was assigned at deletion time.
	members, err := h.users().ListByDepartment(ctx, dep.ID)
	if err != nil {
		api.Internal(w, h.Log, "list department members", err)
		return
	}

	if err := h.structures().DeleteByDepartment(ctx, dep.ID); err != nil {
		api.Internal(w, h.Log, "delete table structure", err)
		return
	}
	weekIDs, err := h.weeks().DeleteByDepartment(ctx, dep.ID)
	if err != nil {
		api.Internal(w, h.Log, "delete weeks", err)
		return
	}
	if err := h.tableData().DeleteByWeeks(ctx, weekIDs); err != nil {
		api.Internal(w, h.Log, "delete table data", err)
		return
	}
	if err := h.departments().Delete(ctx, dep.ID); err != nil {
		api.Internal(w, h.Log, "delete department", err)
		return
	}

	if _, err := h.users().ClearDepartment(ctx, dep.ID); err != nil {
		h.Log.Error("clear department assignments after delete",
			zap.String("department_id", dep.ID.Hex()), zap.Error(err))
	}

	h.Audit.Record(ctx, r, who, auditstore.ActionDepartmentDeleted,
		auditstore.ResourceDepartment, dep.ID.Hex(),
		map[string]interface{}{
			"name":          dep.Name,
			"faction":       desc.Faction,
			"weeks_deleted": len(weekIDs),
			"members":       len(members),
		}, nil)

	for _, m := range members {
		h.Notifier.NotifyUser(ctx, m.ID, models.NotifyDepartmentDeleted,
			"Отдел удалён",
			"Ваш отдел «"+dep.Name+"» был удалён. Обратитесь к руководству фракции.")
	}

	gone := realtime.Event{
		Type: realtime.EventDepartmentGone,
		Payload: map[string]interface{}{
			"department_id": dep.ID.Hex(),
			"name":          dep.Name,
		},
	}
	h.Hub.Publish(realtime.DepartmentRoom(dep.ID), gone)
	h.Hub.Publish(realtime.FactionRoom(string(desc.Faction)), gone)

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"deleted":       true,
		"weeks_deleted": len(weekIDs),
	})
}

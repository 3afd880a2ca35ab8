// internal/app/features/departments/weeks.go
package departments

import (
	"errors"
	"net/http"
	"time"

	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	tabledatastore "github.com/rollcallhq/rollcall/internal/app/store/tabledata"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/weekclock"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

type weekView struct {
	models.Week
	Label string `json:"label"`
}

func toWeekView(w models.Week) weekView {
	return weekView{Week: w, Label: weekclock.Label(w.WeekStart)}
}

// ServeWeekList handles GET /departments/{id}/weeks: the archive,
// newest-first, current week included.
func (h *Handler) ServeWeekList(w http.ResponseWriter, r *http.Request) {
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

	weeks, err := h.weeks().List(r.Context(), dep.ID)
	if err != nil {
		api.Internal(w, h.Log, "list weeks", err)
		return
	}

	views := make([]weekView, len(weeks))
	for i, wk := range weeks {
		views[i] = toWeekView(wk)
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"weeks": views})
}

// ServeCurrentWeek handles GET /departments/{id}/weeks/current.
//
// Reading the current week is what rolls the lifecycle forward: if the
// calendar has moved past the stored current week, this request creates
// and marks the new one, with an empty data table, before returning it.
func (h *Handler) ServeCurrentWeek(w http.ResponseWriter, r *http.Request) {
	actor, who, ok := authz.ActorCtx(r)
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

	ctx := r.Context()
	week, created, err := h.weeks().EnsureCurrent(ctx, dep.ID, time.Now().UTC())
	if err != nil {
		api.Internal(w, h.Log, "ensure current week", err)
		return
	}

	if created {
		if _, err := h.tableData().CreateEmpty(ctx, week.ID, dep.ID); err != nil {
			api.Internal(w, h.Log, "create empty table data", err)
			return
		}
		h.Audit.Record(ctx, r, who, auditstore.ActionWeekCreated,
			auditstore.ResourceWeek, week.ID.Hex(),
			nil, map[string]interface{}{
				"department_id": dep.ID.Hex(),
				"week_start":    week.WeekStart,
			})
	}

	td, err := h.tableData().GetByWeek(ctx, week.ID)
	if errors.Is(err, tabledatastore.ErrNotFound) {
		// Lost the creation race before the winner wrote the empty
		// table; inserting it here converges on the same document.
		td, err = h.tableData().CreateEmpty(ctx, week.ID, dep.ID)
	}
	if err != nil {
		api.Internal(w, h.Log, "load table data", err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"week": toWeekView(week),
		"data": td,
	})
}

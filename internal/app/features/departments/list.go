// internal/app/features/departments/list.go
package departments

import (
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// ServeList handles GET /departments?faction={code}. The faction filter
// is required; the caller must be able to view that faction.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	code := models.FactionCode(r.URL.Query().Get("faction"))
	if !models.IsValidFactionCode(code) {
		api.Invalid(w, "faction query parameter is required")
		return
	}
	if !access.CanViewFaction(actor, code) {
		api.Forbidden(w, "you cannot view this faction")
		return
	}

	f, err := h.factions().GetByCode(r.Context(), code)
	if err != nil {
		api.NotFound(w, "faction not found")
		return
	}

	deps, err := h.departments().ListByFaction(r.Context(), f.ID)
	if err != nil {
		api.Internal(w, h.Log, "list departments", err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{"departments": deps})
}

// ServeView handles GET /departments/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
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

	api.JSON(w, http.StatusOK, dep)
}

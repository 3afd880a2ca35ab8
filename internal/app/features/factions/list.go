// internal/app/features/factions/list.go
package factions

import (
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	factionstore "github.com/rollcallhq/rollcall/internal/app/store/factions"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// ServeList handles GET /factions. Global roles see the full roster;
// everyone else sees only the faction they belong to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	all, err := factionstore.New(h.DB).List(r.Context())
	if err != nil {
		api.Internal(w, h.Log, "list factions", err)
		return
	}

	visible := make([]models.Faction, 0, len(all))
	for _, f := range all {
		if access.CanViewFaction(actor, f.Code) {
			visible = append(visible, f)
		}
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{"factions": visible})
}

// ServeGet handles GET /factions/{code}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	actor, _, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	code := models.FactionCode(chiParam(r, "code"))
	if !models.IsValidFactionCode(code) {
		api.NotFound(w, "unknown faction")
		return
	}
	if !access.CanViewFaction(actor, code) {
		api.Forbidden(w, "you cannot view this faction")
		return
	}

	f, err := factionstore.New(h.DB).GetByCode(r.Context(), code)
	if err != nil {
		api.NotFound(w, "faction not found")
		return
	}
	api.JSON(w, http.StatusOK, f)
}

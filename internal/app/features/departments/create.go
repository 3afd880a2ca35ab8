// internal/app/features/departments/create.go
package departments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	departmentstore "github.com/rollcallhq/rollcall/internal/app/store/departments"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

type createRequest struct {
	Faction string `json:"faction"`
	Name    string `json:"name"`
}

// HandleCreate handles POST /departments. The new department gets the
// default table structure immediately so its first current week can be
// served without an extra setup step.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	var req createRequest
	if err := api.Decode(r, &req); err != nil {
		api.Invalid(w, "malformed request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		api.Unprocessable(w, "department name is required")
		return
	}

	code := models.FactionCode(req.Faction)
	if !models.IsValidFactionCode(code) {
		api.Unprocessable(w, "unknown faction")
		return
	}
	if !access.CanManageDepartment(actor, access.Department{Faction: code}) {
		api.Forbidden(w, "you cannot create departments in this faction")
		return
	}

	f, err := h.factions().GetByCode(r.Context(), code)
	if err != nil {
		api.NotFound(w, "faction not found")
		return
	}

	dep, err := h.departments().Create(r.Context(), models.Department{
		FactionID: f.ID,
		Name:      req.Name,
	})
	if err != nil {
		if errors.Is(err, departmentstore.ErrDuplicateName) {
			api.Conflict(w, "a department with this name already exists in the faction")
			return
		}
		api.Internal(w, h.Log, "create department", err)
		return
	}

	if _, err := h.structures().CreateDefault(r.Context(), dep.ID); err != nil {
		api.Internal(w, h.Log, "create default structure", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionDepartmentCreated,
		auditstore.ResourceDepartment, dep.ID.Hex(),
		nil, map[string]interface{}{"name": dep.Name, "faction": code})

	api.JSON(w, http.StatusCreated, dep)
}

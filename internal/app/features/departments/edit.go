// internal/app/features/departments/edit.go
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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateRequest struct {
	Name          *string  `json:"name"`
	HeadUserID    *string  `json:"head_user_id"`
	DeputyUserIDs []string `json:"deputy_user_ids"`
}

// HandleUpdate handles PATCH /departments/{id}: rename, reassign the
// head, or replace the deputy list. Absent fields are left untouched.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req updateRequest
	if err := api.Decode(r, &req); err != nil {
		api.Invalid(w, "malformed request body")
		return
	}

	var upd departmentstore.UpdateInfo
	old := map[string]interface{}{}
	changed := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			api.Unprocessable(w, "department name cannot be empty")
			return
		}
		upd.Name = &name
		old["name"] = dep.Name
		changed["name"] = name
	}
	if req.HeadUserID != nil {
		headID, err := primitive.ObjectIDFromHex(*req.HeadUserID)
		if err != nil {
			api.Unprocessable(w, "head_user_id is not a valid id")
			return
		}
		if _, err := h.users().GetByID(r.Context(), headID); err != nil {
			api.Unprocessable(w, "head user does not exist")
			return
		}
		upd.HeadUserID = &headID
		if dep.HeadUserID != nil {
			old["head_user_id"] = dep.HeadUserID.Hex()
		}
		changed["head_user_id"] = headID.Hex()
	}
	if req.DeputyUserIDs != nil {
		deputies := make([]primitive.ObjectID, 0, len(req.DeputyUserIDs))
		for _, raw := range req.DeputyUserIDs {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				api.Unprocessable(w, "deputy_user_ids contains an invalid id")
				return
			}
			deputies = append(deputies, id)
		}
		upd.DeputyUserIDs = &deputies
		changed["deputy_count"] = len(deputies)
	}

	if upd.Name == nil && upd.HeadUserID == nil && upd.DeputyUserIDs == nil {
		api.Invalid(w, "nothing to update")
		return
	}

	if err := h.departments().Update(r.Context(), dep.ID, upd); err != nil {
		if errors.Is(err, departmentstore.ErrDuplicateName) {
			api.Conflict(w, "a department with this name already exists in the faction")
			return
		}
		api.Internal(w, h.Log, "update department", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionDepartmentUpdated,
		auditstore.ResourceDepartment, dep.ID.Hex(), old, changed)

	updated, err := h.departments().GetByID(r.Context(), dep.ID)
	if err != nil {
		api.Internal(w, h.Log, "reload department", err)
		return
	}
	api.JSON(w, http.StatusOK, updated)
}

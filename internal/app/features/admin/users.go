// internal/app/features/admin/users.go
package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// ServeList handles GET /admin/users?role={role}&faction={code}&all=true.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var role *models.Role
	if raw := q.Get("role"); raw != "" {
		if !models.IsValidRole(raw) {
			api.Invalid(w, "unknown role")
			return
		}
		v := models.Role(raw)
		role = &v
	}
	var faction *models.FactionCode
	if raw := q.Get("faction"); raw != "" {
		v := models.FactionCode(raw)
		if !models.IsValidFactionCode(v) {
			api.Invalid(w, "unknown faction")
			return
		}
		faction = &v
	}

	users, err := h.users().List(r.Context(), role, faction, q.Get("all") == "true")
	if err != nil {
		api.Internal(w, h.Log, "list users", err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

type createUserRequest struct {
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	VKURL        string  `json:"vk_url"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	Faction      *string `json:"faction"`
	DepartmentID *string `json:"department_id"`
}

func parseAssignment(role string, faction, departmentID *string) (models.Role, *models.FactionCode, *primitive.ObjectID, error) {
	if !models.IsValidRole(role) {
		return "", nil, nil, errors.New("unknown role")
	}
	var fc *models.FactionCode
	if faction != nil {
		v := models.FactionCode(*faction)
		if !models.IsValidFactionCode(v) {
			return "", nil, nil, errors.New("unknown faction")
		}
		fc = &v
	}
	var depID *primitive.ObjectID
	if departmentID != nil {
		id, err := primitive.ObjectIDFromHex(*departmentID)
		if err != nil {
			return "", nil, nil, errors.New("department_id is not a valid id")
		}
		depID = &id
	}
	if err := models.ValidateRoleAssignment(models.Role(role), fc, depID != nil); err != nil {
		return "", nil, nil, err
	}
	return models.Role(role), fc, depID, nil
}

// HandleCreate handles POST /admin/users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	var req createUserRequest
	if err := api.Decode(r, &req); err != nil {
		api.Invalid(w, "malformed request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		api.Unprocessable(w, "a valid email is required")
		return
	}
	if req.FullName == "" {
		api.Unprocessable(w, "full name is required")
		return
	}
	if len(req.Password) < 8 {
		api.Unprocessable(w, "password must be at least 8 characters")
		return
	}

	role, faction, depID, err := parseAssignment(req.Role, req.Faction, req.DepartmentID)
	if err != nil {
		api.Unprocessable(w, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.Internal(w, h.Log, "hash password", err)
		return
	}

	user, err := h.users().Create(r.Context(), models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		VKURL:        req.VKURL,
		Role:         role,
		Faction:      faction,
		DepartmentID: depID,
		TwoFAEnabled: access.Requires2FA(role),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			api.Conflict(w, "a user with this email already exists")
			return
		}
		api.Internal(w, h.Log, "create user", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionUserCreated,
		auditstore.ResourceUser, user.ID.Hex(),
		nil, map[string]interface{}{"email": user.Email, "role": user.Role})

	h.Notifier.NotifyUser(r.Context(), user.ID, models.NotifyRoleAssigned,
		"Назначена роль",
		"Вам назначена роль: "+string(user.Role))

	api.JSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	FullName     *string `json:"full_name"`
	VKURL        *string `json:"vk_url"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	Faction      *string `json:"faction"`
	DepartmentID *string `json:"department_id"`
}

// HandleUpdate handles PATCH /admin/users/{id}. A role change
// revalidates the whole assignment against the resulting state and
// notifies the user.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	id, err := api.PathID(chi.URLParam(r, "id"))
	if err != nil {
		api.NotFound(w, "user not found")
		return
	}
	user, err := h.users().GetByID(r.Context(), id)
	if err != nil {
		api.NotFound(w, "user not found")
		return
	}

	var req updateUserRequest
	if err := api.Decode(r, &req); err != nil {
		api.Invalid(w, "malformed request body")
		return
	}

	var upd userstore.UpdateInfo
	old := map[string]interface{}{}
	changed := map[string]interface{}{}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			api.Unprocessable(w, "full name cannot be empty")
			return
		}
		upd.FullName = &name
		old["full_name"] = user.FullName
		changed["full_name"] = name
	}
	if req.VKURL != nil {
		upd.VKURL = req.VKURL
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			api.Unprocessable(w, "password must be at least 8 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			api.Internal(w, h.Log, "hash password", err)
			return
		}
		s := string(hash)
		upd.PasswordHash = &s
		changed["password"] = "rotated"
	}

	roleChanged := false
	if req.Role != nil || req.Faction != nil || req.DepartmentID != nil {
		// Merge the request over the stored assignment, then validate
		// the combination as a whole.
		roleRaw := string(user.Role)
		if req.Role != nil {
			roleRaw = *req.Role
		}
		factionRaw := req.Faction
		if factionRaw == nil && user.Faction != nil {
			s := string(*user.Faction)
			factionRaw = &s
		}
		depRaw := req.DepartmentID
		if depRaw == nil && user.DepartmentID != nil {
			s := user.DepartmentID.Hex()
			depRaw = &s
		}

		role, faction, depID, err := parseAssignment(roleRaw, factionRaw, depRaw)
		if err != nil {
			api.Unprocessable(w, err.Error())
			return
		}
		upd.Role = &role
		upd.Faction = faction
		upd.DepartmentID = depID
		if role != user.Role {
			roleChanged = true
			old["role"] = user.Role
			changed["role"] = role
		}
	}

	if err := h.users().Update(r.Context(), id, upd); err != nil {
		api.Internal(w, h.Log, "update user", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionUserUpdated,
		auditstore.ResourceUser, id.Hex(), old, changed)

	if roleChanged {
		h.Notifier.NotifyUser(r.Context(), id, models.NotifyRoleAssigned,
			"Назначена роль",
			"Вам назначена роль: "+string(*upd.Role))
	}

	updated, err := h.users().GetByID(r.Context(), id)
	if err != nil {
		api.Internal(w, h.Log, "reload user", err)
		return
	}
	api.JSON(w, http.StatusOK, updated)
}

// HandleDeactivate handles DELETE /admin/users/{id}: a tombstone, not a
// document removal, so the audit trail keeps resolving the actor.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	_, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	id, err := api.PathID(chi.URLParam(r, "id"))
	if err != nil {
		api.NotFound(w, "user not found")
		return
	}
	user, err := h.users().GetByID(r.Context(), id)
	if err != nil {
		api.NotFound(w, "user not found")
		return
	}
	if user.ID == who.ID {
		api.Fail(w, http.StatusConflict, api.KindInvalidState, "you cannot deactivate your own account")
		return
	}

	if err := h.users().Deactivate(r.Context(), id, who.ID); err != nil {
		api.Internal(w, h.Log, "deactivate user", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionUserDeleted,
		auditstore.ResourceUser, id.Hex(),
		map[string]interface{}{"email": user.Email, "is_active": user.IsActive}, nil)

	api.JSON(w, http.StatusOK, map[string]interface{}{"deactivated": true})
}

// HandleActivate handles POST /admin/users/{id}/activate: clears the
// tombstone. Restricted to developers, the only role allowed to bring
// removed data back.
func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	role, _, ok := authz.UserCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}
	if !access.CanRestoreData(role) {
		api.Forbidden(w, "only developers can restore accounts")
		return
	}
	_, who, _ := authz.ActorCtx(r)

	id, err := api.PathID(chi.URLParam(r, "id"))
	if err != nil {
		api.NotFound(w, "user not found")
		return
	}
	if _, err := h.users().GetByID(r.Context(), id); err != nil {
		api.NotFound(w, "user not found")
		return
	}

	if err := h.users().Restore(r.Context(), id); err != nil {
		api.Internal(w, h.Log, "restore user", err)
		return
	}

	h.Audit.Record(r.Context(), r, who, auditstore.ActionUserActivated,
		auditstore.ResourceUser, id.Hex(),
		nil, map[string]interface{}{"is_active": true})

	h.Notifier.NotifyUser(r.Context(), id, models.NotifyDataRestored,
		"Аккаунт восстановлен",
		"Ваш аккаунт был восстановлен администратором.")

	api.JSON(w, http.StatusOK, map[string]interface{}{"activated": true})
}

// ServeRoles handles GET /admin/roles: the role enumeration for admin
// UI pickers.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]interface{}{"roles": models.AllRoles})
}

// internal/app/features/departments/handler.go
package departments

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	departmentstore "github.com/rollcallhq/rollcall/internal/app/store/departments"
	factionstore "github.com/rollcallhq/rollcall/internal/app/store/factions"
	structurestore "github.com/rollcallhq/rollcall/internal/app/store/structures"
	tabledatastore "github.com/rollcallhq/rollcall/internal/app/store/tabledata"
	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	weekstore "github.com/rollcallhq/rollcall/internal/app/store/weeks"
	"github.com/rollcallhq/rollcall/internal/app/system/auditlog"
	"github.com/rollcallhq/rollcall/internal/app/system/notify"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the departments
// feature, which also serves the week lifecycle, table structure, and
// table data endpoints nested under /departments.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Audit    *auditlog.Recorder
	Notifier *notify.Notifier
	Hub      *realtime.Hub
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *auditlog.Recorder, n *notify.Notifier, hub *realtime.Hub) *Handler {
	return &Handler{DB: db, Log: logger, Audit: rec, Notifier: n, Hub: hub}
}

func (h *Handler) departments() *departmentstore.Store { return departmentstore.New(h.DB) }
func (h *Handler) factions() *factionstore.Store       { return factionstore.New(h.DB) }
func (h *Handler) structures() *structurestore.Store   { return structurestore.New(h.DB) }
func (h *Handler) weeks() *weekstore.Store             { return weekstore.New(h.DB) }
func (h *Handler) tableData() *tabledatastore.Store    { return tabledatastore.New(h.DB) }
func (h *Handler) users() *userstore.Store             { return userstore.New(h.DB) }

// loadDepartment resolves the {id} path parameter to the department and
// its access descriptor, writing the error response itself on failure.
func (h *Handler) loadDepartment(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Department, access.Department, bool) {
	id, err := api.PathID(chi.URLParam(r, "id"))
	if err != nil {
		api.NotFound(w, "department not found")
		return models.Department{}, access.Department{}, false
	}
	dep, err := h.departments().GetByID(ctx, id)
	if err != nil {
		api.NotFound(w, "department not found")
		return models.Department{}, access.Department{}, false
	}
	f, err := h.factions().GetByID(ctx, dep.FactionID)
	if err != nil {
		api.Internal(w, h.Log, "load department faction", err)
		return models.Department{}, access.Department{}, false
	}
	return dep, access.Department{ID: dep.ID, Faction: f.Code}, true
}

// internal/app/features/admin/stats.go
package admin

import (
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/features/api"
	departmentstore "github.com/rollcallhq/rollcall/internal/app/store/departments"
	factionstore "github.com/rollcallhq/rollcall/internal/app/store/factions"
)

// ServeStats handles GET /admin/stats: headline counts for the admin
// dashboard.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activeUsers, err := h.users().Count(ctx, true)
	if err != nil {
		api.Internal(w, h.Log, "count active users", err)
		return
	}
	totalUsers, err := h.users().Count(ctx, false)
	if err != nil {
		api.Internal(w, h.Log, "count users", err)
		return
	}
	departments, err := departmentstore.New(h.DB).Count(ctx)
	if err != nil {
		api.Internal(w, h.Log, "count departments", err)
		return
	}
	factions, err := factionstore.New(h.DB).List(ctx)
	if err != nil {
		api.Internal(w, h.Log, "list factions", err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"users_active": activeUsers,
		"users_total":  totalUsers,
		"departments":  departments,
		"factions":     len(factions),
	})
}

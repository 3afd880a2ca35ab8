// internal/app/features/admin/routes.go
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
)

// requireUserManager gates the whole admin surface on the global tier.
func requireUserManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _, ok := authz.UserCtx(r)
		if !ok {
			api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
			return
		}
		if !access.CanManageUsers(role) {
			api.Forbidden(w, "administration requires a global role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(requireUserManager)

		pr.Get("/users", h.ServeList)
		pr.Post("/users", h.HandleCreate)
		pr.Patch("/users/{id}", h.HandleUpdate)
		pr.Delete("/users/{id}", h.HandleDeactivate)
		pr.Post("/users/{id}/activate", h.HandleActivate)

		pr.Get("/roles", h.ServeRoles)
		pr.Get("/stats", h.ServeStats)
	})

	return r
}

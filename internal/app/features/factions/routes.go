// internal/app/features/factions/routes.go
package factions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
)

func chiParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{code}", h.ServeGet)
	})

	return r
}

// internal/app/features/departments/routes.go
package departments

import (
	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// LIST / CREATE
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)

		// VIEW / EDIT / DELETE
		pr.Get("/{id}", h.ServeView)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// TABLE STRUCTURE
		pr.Get("/{id}/structure", h.ServeStructure)
		pr.Put("/{id}/structure", h.HandleReplaceStructure)

		// WEEK LIFECYCLE
		pr.Get("/{id}/weeks", h.ServeWeekList)
		pr.Get("/{id}/weeks/current", h.ServeCurrentWeek)
		pr.Get("/{id}/weeks/{weekID}/data", h.ServeTableData)
		pr.Put("/{id}/weeks/{weekID}/data", h.HandleSaveTableData)
	})

	return r
}

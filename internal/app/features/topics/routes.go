// internal/app/features/topics/routes.go
package topics

import (
	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/lectures", h.serveList(models.TopicLecture))
		pr.Post("/lectures", h.handleCreate(models.TopicLecture))
		pr.Delete("/lectures/{id}", h.handleDelete(models.TopicLecture))

		pr.Get("/trainings", h.serveList(models.TopicTraining))
		pr.Post("/trainings", h.handleCreate(models.TopicTraining))
		pr.Delete("/trainings/{id}", h.handleDelete(models.TopicTraining))
	})

	return r
}

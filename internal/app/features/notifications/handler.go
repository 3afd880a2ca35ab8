// internal/app/features/notifications/handler.go
package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	notificationstore "github.com/rollcallhq/rollcall/internal/app/store/notifications"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's own notification feed. There is no way to
// read or acknowledge another user's notifications.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

func (h *Handler) store() *notificationstore.Store {
	return notificationstore.New(h.DB)
}

// ServeList handles GET /notifications?unread=true.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := h.store().ListByUser(r.Context(), userID, unreadOnly)
	if err != nil {
		api.Internal(w, h.Log, "list notifications", err)
		return
	}
	unread, err := h.store().CountUnread(r.Context(), userID)
	if err != nil {
		api.Internal(w, h.Log, "count unread notifications", err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
		"unread":        unread,
	})
}

// HandleMarkRead handles POST /notifications/{id}/read. Marking an
// already-read notification succeeds; marking someone else's returns
// not_found rather than leaking its existence.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	id, err := api.PathID(chi.URLParam(r, "id"))
	if err != nil {
		api.NotFound(w, "notification not found")
		return
	}

	matched, err := h.store().MarkRead(r.Context(), id, userID)
	if err != nil {
		api.Internal(w, h.Log, "mark notification read", err)
		return
	}
	if !matched {
		api.NotFound(w, "notification not found")
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"read": true})
}

// HandleMarkAllRead handles POST /notifications/read-all.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	n, err := h.store().MarkAllRead(r.Context(), userID)
	if err != nil {
		api.Internal(w, h.Log, "mark all notifications read", err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"marked": n})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/read-all", h.HandleMarkAllRead)
		pr.Post("/{id}/read", h.HandleMarkRead)
	})

	return r
}

// internal/app/features/auditlog/handler.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the audit trail, readable by the global tier only.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// ServeList handles GET /audit with optional user_id, resource_type,
// action, from, to (RFC 3339), limit, and skip filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, ok := authz.UserCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}
	if !access.CanViewAuditLogs(role) {
		api.Forbidden(w, "you cannot view the audit trail")
		return
	}

	var filter auditstore.QueryFilter
	q := r.URL.Query()

	if raw := q.Get("user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			api.Invalid(w, "user_id is not a valid id")
			return
		}
		filter.UserID = &id
	}
	filter.ResourceType = q.Get("resource_type")
	filter.Action = q.Get("action")
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.Invalid(w, "from must be RFC 3339")
			return
		}
		filter.StartTime = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			api.Invalid(w, "to must be RFC 3339")
			return
		}
		filter.EndTime = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			api.Invalid(w, "limit must be between 1 and 500")
			return
		}
		filter.Limit = int64(n)
	}
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			api.Invalid(w, "skip must be non-negative")
			return
		}
		filter.Skip = int64(n)
	}

	store := auditstore.New(h.DB)
	entries, err := store.Query(r.Context(), filter)
	if err != nil {
		api.Internal(w, h.Log, "query audit trail", err)
		return
	}
	total, err := store.Count(r.Context(), filter)
	if err != nil {
		api.Internal(w, h.Log, "count audit trail", err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeList)
	})

	return r
}

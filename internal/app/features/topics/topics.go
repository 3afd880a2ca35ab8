// internal/app/features/topics/topics.go
package topics

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	factionstore "github.com/rollcallhq/rollcall/internal/app/store/factions"
	topicstore "github.com/rollcallhq/rollcall/internal/app/store/topics"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

var strict = bluemonday.StrictPolicy()

func (h *Handler) store(kind models.TopicKind) *topicstore.Store {
	return topicstore.New(h.DB, kind)
}

func auditActions(kind models.TopicKind) (created, deleted string) {
	if kind == models.TopicLecture {
		return auditstore.ActionLectureTopicCreated, auditstore.ActionLectureTopicDeleted
	}
	return auditstore.ActionTrainingTopicCreated, auditstore.ActionTrainingTopicDeleted
}

// resolveFaction turns the faction query/body value into the stored
// faction, enforcing the topic-management capability when manage is set.
func (h *Handler) resolveFaction(w http.ResponseWriter, r *http.Request, raw string, manage bool) (models.Faction, bool) {
	actor, _, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return models.Faction{}, false
	}

	code := models.FactionCode(raw)
	if !models.IsValidFactionCode(code) {
		api.Invalid(w, "faction is required")
		return models.Faction{}, false
	}
	if manage {
		if !access.CanManageTopics(actor, access.Department{Faction: code}) {
			api.Forbidden(w, "you cannot manage this faction's topics")
			return models.Faction{}, false
		}
	} else if !access.CanViewFaction(actor, code) {
		api.Forbidden(w, "you cannot view this faction's topics")
		return models.Faction{}, false
	}

	f, err := factionstore.New(h.DB).GetByCode(r.Context(), code)
	if err != nil {
		api.NotFound(w, "faction not found")
		return models.Faction{}, false
	}
	return f, true
}

// serveList handles GET /topics/{lectures|trainings}?faction={code}.
func (h *Handler) serveList(kind models.TopicKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := h.resolveFaction(w, r, r.URL.Query().Get("faction"), false)
		if !ok {
			return
		}
		list, err := h.store(kind).ListByFaction(r.Context(), f.ID)
		if err != nil {
			api.Internal(w, h.Log, "list topics", err)
			return
		}
		api.JSON(w, http.StatusOK, map[string]interface{}{"topics": list})
	}
}

type createTopicRequest struct {
	Faction string `json:"faction"`
	Topic   string `json:"topic"`
}

// handleCreate handles POST /topics/{lectures|trainings}. New topics go
// to the end of the faction's list.
func (h *Handler) handleCreate(kind models.TopicKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTopicRequest
		if err := api.Decode(r, &req); err != nil {
			api.Invalid(w, "malformed request body")
			return
		}
		req.Topic = strings.TrimSpace(strict.Sanitize(req.Topic))
		if req.Topic == "" {
			api.Unprocessable(w, "topic text is required")
			return
		}

		f, ok := h.resolveFaction(w, r, req.Faction, true)
		if !ok {
			return
		}

		t, err := h.store(kind).Create(r.Context(), f.ID, req.Topic)
		if err != nil {
			api.Internal(w, h.Log, "create topic", err)
			return
		}

		_, who, _ := authz.ActorCtx(r)
		createdAction, _ := auditActions(kind)
		h.Audit.Record(r.Context(), r, who, createdAction,
			auditstore.ResourceTopic, t.ID.Hex(),
			nil, map[string]interface{}{"topic": t.Topic, "faction": f.Code})

		api.JSON(w, http.StatusCreated, t)
	}
}

// handleDelete handles DELETE /topics/{lectures|trainings}/{id}.
func (h *Handler) handleDelete(kind models.TopicKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := api.PathID(chi.URLParam(r, "id"))
		if err != nil {
			api.NotFound(w, "topic not found")
			return
		}

		t, err := h.store(kind).GetByID(r.Context(), id)
		if err != nil {
			api.NotFound(w, "topic not found")
			return
		}

		f, err := factionstore.New(h.DB).GetByID(r.Context(), t.FactionID)
		if err != nil {
			api.Internal(w, h.Log, "load topic faction", err)
			return
		}

		actor, who, ok := authz.ActorCtx(r)
		if !ok {
			api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
			return
		}
		if !access.CanManageTopics(actor, access.Department{Faction: f.Code}) {
			api.Forbidden(w, "you cannot manage this faction's topics")
			return
		}

		gone, err := h.store(kind).Delete(r.Context(), id)
		if err != nil {
			api.Internal(w, h.Log, "delete topic", err)
			return
		}
		if !gone {
			api.NotFound(w, "topic not found")
			return
		}

		_, deletedAction := auditActions(kind)
		h.Audit.Record(r.Context(), r, who, deletedAction,
			auditstore.ResourceTopic, id.Hex(),
			map[string]interface{}{"topic": t.Topic, "faction": f.Code}, nil)

		api.JSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
	}
}

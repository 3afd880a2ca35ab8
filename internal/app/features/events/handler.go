// internal/app/features/events/handler.go
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rollcallhq/rollcall/internal/app/features/api"
	"github.com/rollcallhq/rollcall/internal/app/policy/access"
	departmentstore "github.com/rollcallhq/rollcall/internal/app/store/departments"
	factionstore "github.com/rollcallhq/rollcall/internal/app/store/factions"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/authz"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const heartbeatInterval = 25 * time.Second

// Handler serves the realtime event stream over server-sent events.
// Clients subscribe with EventSource, passing the bearer token as a
// query parameter and optional department/faction room filters.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
	Hub *realtime.Hub
}

func NewHandler(db *mongo.Database, logger *zap.Logger, hub *realtime.Hub) *Handler {
	return &Handler{DB: db, Log: logger, Hub: hub}
}

// rooms resolves the requested room filters, enforcing faction
// visibility on each. The caller's own user room is always included by
// the hub.
func (h *Handler) rooms(r *http.Request, actor access.Actor) ([]string, error) {
	var rooms []string
	q := r.URL.Query()

	if raw := q.Get("department"); raw != "" {
		depID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("department is not a valid id")
		}
		dep, err := departmentstore.New(h.DB).GetByID(r.Context(), depID)
		if err != nil {
			return nil, fmt.Errorf("department not found")
		}
		f, err := factionstore.New(h.DB).GetByID(r.Context(), dep.FactionID)
		if err != nil {
			return nil, fmt.Errorf("department not found")
		}
		if !access.CanViewFaction(actor, f.Code) {
			return nil, fmt.Errorf("you cannot watch this department")
		}
		rooms = append(rooms, realtime.DepartmentRoom(depID))
	}

	if raw := q.Get("faction"); raw != "" {
		code := models.FactionCode(raw)
		if !models.IsValidFactionCode(code) {
			return nil, fmt.Errorf("unknown faction")
		}
		if !access.CanViewFaction(actor, code) {
			return nil, fmt.Errorf("you cannot watch this faction")
		}
		rooms = append(rooms, realtime.FactionRoom(string(code)))
	}

	return rooms, nil
}

// Serve handles GET /events as a text/event-stream.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	actor, who, ok := authz.ActorCtx(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.KindUnauthorized, "sign-in required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Fail(w, http.StatusInternalServerError, api.KindInternal, "streaming unsupported")
		return
	}

	rooms, err := h.rooms(r, actor)
	if err != nil {
		api.Forbidden(w, err.Error())
		return
	}

	sub := h.Hub.Subscribe(who.ID, rooms...)
	if sub == nil {
		api.Fail(w, http.StatusServiceUnavailable, api.KindInternal, "event stream is shutting down")
		return
	}
	defer h.Hub.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Initial comment confirms the stream before any event fires.
	fmt.Fprintf(w, ": connected %s\n\n", sub.ID)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(ev.Payload)
			if err != nil {
				h.Log.Warn("marshal event payload", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.Serve)
	})

	return r
}

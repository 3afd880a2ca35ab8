// internal/app/features/admin/handler.go
package admin

import (
	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	"github.com/rollcallhq/rollcall/internal/app/system/auditlog"
	"github.com/rollcallhq/rollcall/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for account administration.
// Every route here is restricted to the global tier.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Audit    *auditlog.Recorder
	Notifier *notify.Notifier
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *auditlog.Recorder, n *notify.Notifier) *Handler {
	return &Handler{DB: db, Log: logger, Audit: rec, Notifier: n}
}

func (h *Handler) users() *userstore.Store { return userstore.New(h.DB) }

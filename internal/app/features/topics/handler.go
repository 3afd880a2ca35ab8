// internal/app/features/topics/handler.go
package topics

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/rollcallhq/rollcall/internal/app/system/auditlog"
)

// Handler is the shared dependency container for the lecture and
// training topic endpoints.
type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *auditlog.Recorder
}

func NewHandler(db *mongo.Database, logger *zap.Logger, rec *auditlog.Recorder) *Handler {
	return &Handler{DB: db, Log: logger, Audit: rec}
}

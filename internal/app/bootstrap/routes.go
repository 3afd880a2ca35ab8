// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	adminfeature "github.com/rollcallhq/rollcall/internal/app/features/admin"
	auditlogfeature "github.com/rollcallhq/rollcall/internal/app/features/auditlog"
	departmentsfeature "github.com/rollcallhq/rollcall/internal/app/features/departments"
	eventsfeature "github.com/rollcallhq/rollcall/internal/app/features/events"
	factionsfeature "github.com/rollcallhq/rollcall/internal/app/features/factions"
	healthfeature "github.com/rollcallhq/rollcall/internal/app/features/health"
	notificationsfeature "github.com/rollcallhq/rollcall/internal/app/features/notifications"
	topicsfeature "github.com/rollcallhq/rollcall/internal/app/features/topics"
	auditstore "github.com/rollcallhq/rollcall/internal/app/store/audit"
	notificationstore "github.com/rollcallhq/rollcall/internal/app/store/notifications"
	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	"github.com/rollcallhq/rollcall/internal/app/system/auditlog"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"
	"github.com/rollcallhq/rollcall/internal/app/system/notify"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It wires the token verifier, the
// side-effect pipeline (audit recorder, notifier, realtime hub), and
// mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.RollCallMongoDatabase

	// The verifier re-reads the user document on every request so role
	// changes and deactivation take effect immediately, not at expiry.
	users := userstore.New(db)
	fetch := func(ctx context.Context, id primitive.ObjectID) (models.User, error) {
		return users.GetByID(ctx, id)
	}
	verifier := auth.NewVerifier(appCfg.JWTSecret, appCfg.JWTIssuer, fetch, logger)

	recorder := auditlog.New(auditstore.New(db), logger)
	notifier := notify.New(notificationstore.New(db), hub, logger)

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token, if any, into
	// the caller identity for all handlers.
	r.Use(verifier.LoadIdentity)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.RollCallMongoClient, logger)
	r.Get("/health", healthHandler.Serve)

	factionsHandler := factionsfeature.NewHandler(db, logger)
	r.Mount("/factions", factionsfeature.Routes(factionsHandler))

	departmentsHandler := departmentsfeature.NewHandler(db, logger, recorder, notifier, hub)
	r.Mount("/departments", departmentsfeature.Routes(departmentsHandler))

	topicsHandler := topicsfeature.NewHandler(db, logger, recorder)
	r.Mount("/topics", topicsfeature.Routes(topicsHandler))

	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler))

	adminHandler := adminfeature.NewHandler(db, logger, recorder, notifier)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	eventsHandler := eventsfeature.NewHandler(db, logger, hub)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	return r, nil
}

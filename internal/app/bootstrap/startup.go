// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/rollcallhq/rollcall/internal/app/store/users"
	"github.com/rollcallhq/rollcall/internal/app/system/realtime"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// hub is the process-wide realtime event hub, created at startup and
// closed in Shutdown.
var hub *realtime.Hub

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	hub = realtime.NewHub(logger)

	if appCfg.DeveloperEmail != "" {
		if err := ensureDeveloper(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureDeveloper guarantees the configured developer account exists so
// a fresh deployment is administrable. An existing account is promoted;
// a missing one is created with the configured initial password.
func ensureDeveloper(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	store := userstore.New(deps.RollCallMongoDatabase)

	existing, err := store.GetByEmail(ctx, appCfg.DeveloperEmail)
	if err == nil {
		if existing.Role == models.RoleDeveloper {
			return nil
		}
		role := models.RoleDeveloper
		if err := store.Update(ctx, existing.ID, userstore.UpdateInfo{Role: &role}); err != nil {
			return err
		}
		logger.Info("promoted developer account", zap.String("email", appCfg.DeveloperEmail))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if appCfg.DeveloperPassword == "" {
		logger.Warn("developer account missing and no developer_password set; skipping bootstrap",
			zap.String("email", appCfg.DeveloperEmail))
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.DeveloperPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := store.Create(ctx, models.User{
		Email:        appCfg.DeveloperEmail,
		FullName:     "Developer",
		Role:         models.RoleDeveloper,
		TwoFAEnabled: true,
		PasswordHash: string(hash),
	}); err != nil {
		return err
	}
	logger.Info("created developer account", zap.String("email", appCfg.DeveloperEmail))
	return nil
}

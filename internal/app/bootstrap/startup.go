// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	userstore "github.com/campusbridge/precollegehub/internal/app/store/users"
	"github.com/campusbridge/precollegehub/internal/app/system/status"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/campusbridge/precollegehub/internal/app/system/workers"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// orphanSweep is started here and stopped from Shutdown.
var orphanSweep *workers.OrphanSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It tunes
// the shared timeouts, seeds the first admin account when configured, and
// starts the orphan identity sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.ImportCallTimeout > 0 {
		timeouts.Configure(timeouts.Config{Medium: appCfg.ImportCallTimeout})
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps.MongoDatabase, appCfg, logger); err != nil {
			return fmt.Errorf("ensure admin account: %w", err)
		}
	}

	if appCfg.OrphanSweepInterval > 0 {
		orphanSweep = workers.NewOrphanSweep(
			identitystore.New(deps.MongoDatabase),
			userstore.New(deps.MongoDatabase),
			logger,
			appCfg.OrphanSweepInterval,
		)
		orphanSweep.Start()
	}

	return nil
}

// stopWorkers halts background loops; called from Shutdown.
func stopWorkers(logger *zap.Logger) {
	if orphanSweep != nil {
		orphanSweep.Stop()
		orphanSweep = nil
	}
}

// ensureAdmin seeds the configured admin identity and user document so a
// fresh deployment has someone who can sign in. Existing accounts are left
// untouched; the configured password is only used at first creation.
func ensureAdmin(ctx context.Context, db *mongo.Database, appCfg AppConfig, logger *zap.Logger) error {
	identities := identitystore.New(db)
	users := userstore.New(db)

	name := appCfg.AdminName
	if name == "" {
		name = "Administrator"
	}

	_, err := identities.GetByEmail(ctx, appCfg.AdminEmail)
	switch {
	case err == nil:
		logger.Info("admin identity already present",
			zap.String("email", appCfg.AdminEmail))
	case errors.Is(err, identitystore.ErrNotFound):
		if _, err := identities.Create(ctx, identitystore.CreateParams{
			Email:       appCfg.AdminEmail,
			DisplayName: name,
			Password:    appCfg.AdminPassword,
			Role:        models.RoleAdmin,
		}); err != nil {
			return err
		}
		logger.Info("admin identity created",
			zap.String("email", appCfg.AdminEmail))
	default:
		return err
	}

	if _, err := users.GetByEmail(ctx, appCfg.AdminEmail); err == nil {
		return nil
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	_, err = users.Create(ctx, models.User{
		Name:       name,
		Email:      appCfg.AdminEmail,
		LoginEmail: appCfg.AdminEmail,
		Role:       models.RoleAdmin,
		Status:     status.Active,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return nil
	}
	return err
}

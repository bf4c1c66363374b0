// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/campusbridge/precollegehub/internal/app/features/health"
	importrunsfeature "github.com/campusbridge/precollegehub/internal/app/features/importruns"
	loginfeature "github.com/campusbridge/precollegehub/internal/app/features/login"
	usersfeature "github.com/campusbridge/precollegehub/internal/app/features/users"
	"github.com/campusbridge/precollegehub/internal/app/notify"
	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	runstore "github.com/campusbridge/precollegehub/internal/app/store/importruns"
	userstore "github.com/campusbridge/precollegehub/internal/app/store/users"
	"github.com/campusbridge/precollegehub/internal/app/system/auth"
	"github.com/campusbridge/precollegehub/internal/app/system/importer"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. PreCollegeHub is a JSON API: sign-in and health
// are public, everything else sits behind the admin role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	identities := identitystore.New(db)
	runs := runstore.New(db)

	dispatcher := buildDispatcher(appCfg, logger)

	orch := &importer.Orchestrator{
		Identities:  identities,
		Users:       users,
		Notify:      dispatcher,
		Runs:        runs,
		Log:         logger,
		Concurrency: appCfg.ImportConcurrency,
		CallTimeout: appCfg.ImportCallTimeout,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(identities, users, logger)
	r.Mount("/", loginfeature.Routes(loginHandler))

	// Admin-only management API
	usersHandler := usersfeature.NewHandler(users, identities, orch, appCfg.DefaultCountryCode, logger)
	runsHandler := importrunsfeature.NewHandler(runs, logger)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(models.RoleAdmin))
		r.Mount("/users", usersfeature.Routes(usersHandler))
		r.Mount("/import-runs", importrunsfeature.Routes(runsHandler))
	})

	return r, nil
}

// buildDispatcher assembles the notification dispatcher from the configured
// providers. Channels without credentials fall back to the console sender so
// development environments work without SendGrid or Twilio accounts.
func buildDispatcher(appCfg AppConfig, logger *zap.Logger) *notify.Dispatcher {
	var email notify.EmailSender
	if appCfg.SendgridKey != "" {
		email = notify.NewSendgridSender(appCfg.SendgridKey, appCfg.SenderName, appCfg.SendgridSender)
	} else {
		logger.Warn("no SendGrid key configured; emails go to the log")
		email = notify.NewConsoleSender(logger)
	}

	var sms notify.SMSSender
	if appCfg.TwilioAccountSID != "" {
		sms = notify.NewTwilioSender(appCfg.TwilioAccountSID, appCfg.TwilioAuthToken, appCfg.TwilioFromNumber)
	} else {
		logger.Warn("no Twilio account configured; SMS goes to the log")
		sms = notify.NewConsoleSender(logger)
	}

	return notify.NewDispatcher(email, sms, logger)
}

// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for PreCollegeHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, sendgrid_key, etc.
//   - Environment variables: PRECOLLEGEHUB_MONGO_URI, PRECOLLEGEHUB_SENDGRID_KEY, etc.
//   - Command-line flags: --mongo_uri, --sendgrid_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "precollege_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "precollegehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Credential delivery channels
	{Name: "sendgrid_key", Default: "", Desc: "SendGrid API key for credential emails"},
	{Name: "sendgrid_sender", Default: "noreply@precollegehub.edu", Desc: "From address for credential emails"},
	{Name: "sender_name", Default: "Pre-College Program", Desc: "From display name for credential emails"},
	{Name: "twilio_account_sid", Default: "", Desc: "Twilio account SID for credential SMS"},
	{Name: "twilio_auth_token", Default: "", Desc: "Twilio auth token"},
	{Name: "twilio_from_number", Default: "", Desc: "Twilio sending number (E.164)"},
	{Name: "default_country_code", Default: "+1", Desc: "Country code assumed for phone numbers without one"},

	// Import pipeline
	{Name: "import_concurrency", Default: 4, Desc: "Concurrent records provisioned during a bulk import"},
	{Name: "import_call_timeout", Default: "15s", Desc: "Timeout per backend call inside the import pipeline"},

	// Orphan identity reconciliation
	{Name: "orphan_sweep_interval", Default: "0s", Desc: "How often to disable identities with no user document (0 disables)"},

	// Admin bootstrap (promotes/creates on startup)
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin user"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrap admin user"},
	{Name: "admin_name", Default: "Program Administrator", Desc: "Display name for the bootstrap admin user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have access
// to configuration before any backends or handlers are built. Precedence:
// flags > env (PRECOLLEGEHUB_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PRECOLLEGEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		SendgridKey:    appValues.String("sendgrid_key"),
		SendgridSender: appValues.String("sendgrid_sender"),
		SenderName:     appValues.String("sender_name"),

		TwilioAccountSID: appValues.String("twilio_account_sid"),
		TwilioAuthToken:  appValues.String("twilio_auth_token"),
		TwilioFromNumber: appValues.String("twilio_from_number"),

		DefaultCountryCode: appValues.String("default_country_code"),

		ImportConcurrency: appValues.Int("import_concurrency"),
		ImportCallTimeout: appValues.Duration("import_call_timeout", 15*time.Second),

		OrphanSweepInterval: appValues.Duration("orphan_sweep_interval", 0),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// PreCollegeHub validates the MongoDB URI format and the import tuning
// values to catch configuration errors before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.ImportConcurrency < 1 {
		return fmt.Errorf("import_concurrency must be at least 1 (got %d)", appCfg.ImportConcurrency)
	}
	if appCfg.ImportCallTimeout <= 0 {
		return fmt.Errorf("import_call_timeout must be positive (got %s)", appCfg.ImportCallTimeout)
	}

	// An admin bootstrap needs both halves of the credential.
	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_email is set but admin_password is empty")
	}

	return nil
}

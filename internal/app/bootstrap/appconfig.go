// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for PreCollegeHub.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, log level); AppConfig is everything
// specific to this application: backend connection strings, notification
// provider credentials, and import pipeline tuning.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// SendGrid email channel
	SendgridKey    string // SendGrid API key
	SendgridSender string // From address for credential emails
	SenderName     string // From display name

	// Twilio SMS channel
	TwilioAccountSID string // Twilio account SID
	TwilioAuthToken  string // Twilio auth token
	TwilioFromNumber string // E.164 number credential SMS is sent from

	// DefaultCountryCode is prepended to phone numbers that arrive without a
	// leading "+" (the program's audience is domestic, so "+1").
	DefaultCountryCode string

	// Import pipeline tuning
	ImportConcurrency int           // bounded fan-out for per-record provisioning
	ImportCallTimeout time.Duration // per backend call inside the pipeline

	// Orphan identity sweep
	OrphanSweepInterval time.Duration // 0 disables the background sweep

	// Admin bootstrap: when AdminEmail is set, Startup ensures an admin
	// identity and user document exist with this email/password.
	AdminEmail    string
	AdminPassword string
	AdminName     string
}
